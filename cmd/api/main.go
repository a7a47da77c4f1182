package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicsync/nubimed-ghl-bridge/internal/api/router"
	appconfig "github.com/clinicsync/nubimed-ghl-bridge/internal/config"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/events"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/ghl"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/observability/metrics"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/sync"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/webhook"
	"github.com/clinicsync/nubimed-ghl-bridge/pkg/logging"
)

func main() {
	// Local development convenience, absent in deployed environments.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting nubimed-ghl-bridge",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	if err := cfg.Validate(); err != nil {
		// The server still boots so health checks pass; GHL calls will
		// fail with a config error until the credentials arrive.
		logger.Warn("incomplete configuration", "error", err)
	}

	ghlClient := ghl.NewClient(cfg.GHLAPIBase, cfg.GHLAPIToken, cfg.GHLLocationID, logger)
	contactSyncer := sync.NewContactSyncer(ghlClient, cfg, logger)
	appointmentSyncer := sync.NewAppointmentSyncer(ghlClient, cfg, logger)

	var dedupe *events.Deduper
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, duplicate deliveries will be reprocessed", "error", err)
		} else {
			dedupe = events.NewDeduper(rdb, 0)
			defer rdb.Close()
		}
	}

	reg := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(reg)

	handler := webhook.NewHandler(contactSyncer, appointmentSyncer, dedupe, webhookMetrics, cfg, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		WebhookHandler: handler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
