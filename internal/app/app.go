package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/mlee0412/frok-server/internal/agent"
	"github.com/mlee0412/frok-server/internal/api"
	"github.com/mlee0412/frok-server/internal/config"
	"github.com/mlee0412/frok-server/internal/database"
	"github.com/mlee0412/frok-server/internal/devices"
	"github.com/mlee0412/frok-server/internal/homeassistant"
	"github.com/mlee0412/frok-server/internal/repository"
	"github.com/mlee0412/frok-server/internal/service"
	"github.com/mlee0412/frok-server/internal/system"
)

// App wires the full dependency graph: storage, cache, the agent provider,
// the Home Assistant bridge with its poll hub, the system prober and the
// HTTP surface.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Server *http.Server

	hub    *devices.Hub
	prober *system.Prober
	health *devices.HealthReconciler
}

// NewApp builds the application from configuration without starting any
// loops or listeners.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")

	var cache repository.MessageCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = repository.NewRedisMessageCache(rdb)
		slog.Info("Using Redis message cache", "addr", cfg.RedisAddr)
	} else {
		cache = repository.NewNoopMessageCache()
		slog.Info("Redis not configured, message cache disabled")
	}

	repo := repository.NewSQLiteRepository(db)
	provider := agent.NewHTTPProvider(cfg.AgentURL)
	ha := homeassistant.NewClient(cfg.HomeAssistantURL, cfg.HomeAssistantToken)

	notifier := devices.NewSlogNotifier()
	rec := devices.NewReconciler(notifier)
	hub := devices.NewHub(ha, rec, cfg.DevicePollInterval)
	prober := system.NewProber(ha, db, cfg.SystemProbeInterval)
	health := devices.NewHealthReconciler(notifier)

	chatService := service.NewChatService(repo, cache, provider)
	threadService := service.NewThreadService(repo, cache, provider)
	deviceService := service.NewDeviceService(hub, prober, ha)

	chatHandler := api.NewChatHandler(threadService, chatService)
	deviceHandler := api.NewDeviceHandler(deviceService)
	router := api.NewRouter(chatHandler, deviceHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config: cfg,
		DB:     db,
		Server: server,
		hub:    hub,
		prober: prober,
		health: health,
	}, nil
}

// Start launches the device poll hub and the system prober, then serves
// HTTP until the listener fails or the server is shut down.
func (a *App) Start(ctx context.Context) error {
	go a.hub.Run(ctx)
	go a.prober.Run(ctx)
	go a.watchHealth(ctx)

	slog.Info("Starting server", "addr", a.Server.Addr)
	if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchHealth feeds prober readings to the health reconciler so outage
// edges get logged as notifications.
func (a *App) watchHealth(ctx context.Context) {
	ch, cancel := a.prober.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case health := <-ch:
			a.health.Apply(health)
		}
	}
}

// Run is the process entrypoint behind cmd/server.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to build application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
