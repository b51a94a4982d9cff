// Command watch tails a frok server's device and system streams and logs a
// notification on every device online/offline flip, connectivity edge and
// stream disconnect. Useful as a headless monitor next to the dashboard.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/viper"

	"github.com/mlee0412/frok-server/internal/devices"
	"github.com/mlee0412/frok-server/internal/model"
)

func main() {
	viper.AutomaticEnv()
	viper.SetDefault("FROK_SERVER_URL", "http://localhost:3000")
	serverURL := viper.GetString("FROK_SERVER_URL")

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := devices.NewSlogNotifier()
	deviceRec := devices.NewReconciler(notifier)
	healthRec := devices.NewHealthReconciler(notifier)

	slog.Info("Watching frok server streams", "url", serverURL)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		sub := devices.NewSubscriber(serverURL+"/api/devices/stream", notifier)
		_ = sub.Run(ctx, func(event string, data []byte) {
			if event != "devices" {
				return
			}
			var snap model.DeviceSnapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				slog.Warn("Skipping malformed devices payload", "error", err)
				return
			}
			deviceRec.Apply(snap)
		})
	}()

	go func() {
		defer wg.Done()
		sub := devices.NewSubscriber(serverURL+"/api/system/stream", notifier)
		_ = sub.Run(ctx, func(event string, data []byte) {
			if event != "system" {
				return
			}
			var health model.SystemHealth
			if err := json.Unmarshal(data, &health); err != nil {
				slog.Warn("Skipping malformed system payload", "error", err)
				return
			}
			healthRec.Apply(health)
		})
	}()

	wg.Wait()
}
