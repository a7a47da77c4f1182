package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/clinicsync/nubimed-ghl-bridge/internal/http/middleware"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/webhook"
	"github.com/clinicsync/nubimed-ghl-bridge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	WebhookHandler *webhook.Handler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", cfg.WebhookHandler.Health)
	r.Get("/health", cfg.WebhookHandler.Health)

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/nubimed", cfg.WebhookHandler.HandleBooking)
		r.Post("/nubimed/deleted", cfg.WebhookHandler.HandleDeleted)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
