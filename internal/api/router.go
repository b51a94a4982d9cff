package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "github.com/mlee0412/frok-server/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, deviceHandler *DeviceHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/api", func(r chi.Router) {

		// Standard JSON routes get a request timeout so client
		// connections cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Threads ---
			r.Get("/chat/threads", chatHandler.HandleListThreads)
			r.Post("/chat/threads", chatHandler.HandleCreateThread)
			r.Get("/chat/threads/{threadID}", chatHandler.HandleGetThread)
			r.Patch("/chat/threads/{threadID}", chatHandler.HandlePatchThread)
			r.Delete("/chat/threads/{threadID}", chatHandler.HandleDeleteThread)
			r.Post("/chat/threads/{threadID}/suggest-title", chatHandler.HandleSuggestTitle)
			r.Post("/chat/threads/{threadID}/share", chatHandler.HandleShareThread)

			// --- Messages ---
			r.Get("/chat/messages", chatHandler.HandleGetMessages)
			r.Post("/chat/messages", chatHandler.HandleAppendMessage)

			// --- Devices ---
			r.Get("/devices", deviceHandler.HandleListDevices)
			r.Post("/devices/{deviceID}/command", deviceHandler.HandleCommand)
		})

		// Streaming routes must NOT have a timeout: they hold the
		// connection open for the lifetime of the turn or subscription.
		r.Group(func(r chi.Router) {
			r.Post("/agent/smart-stream", chatHandler.HandleSmartStream)
			r.Post("/chat/threads/{threadID}/messages/{messageID}/regenerate", chatHandler.HandleRegenerate)
			r.Post("/chat/threads/{threadID}/messages/{messageID}/edit", chatHandler.HandleEditMessage)
			r.Get("/devices/stream", deviceHandler.HandleDevicesStream)
			r.Get("/system/stream", deviceHandler.HandleSystemStream)
		})
	})

	return r
}
