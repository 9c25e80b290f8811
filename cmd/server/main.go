package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weather-narrator/internal/config"
	"weather-narrator/internal/handlers"
	"weather-narrator/internal/services"
	"weather-narrator/pkg/logging"
	"weather-narrator/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("weather-narrator-api", cfg.AppVersion, logging.ParseLevel(cfg.LogLevel))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting weather narrator API server", logging.Fields{
		"version":     cfg.AppVersion,
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"provider":    cfg.Forecast.BaseURL,
		"timezone":    cfg.Location.Timezone,
	})
	if cfg.Forecast.APIKey == "" {
		logger.Warn(ctx, "[STARTUP] FORECAST_API_KEY is not set; report requests will be rejected", logging.Fields{})
	}

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("weather_narrator", prometheus.DefaultRegisterer)

	// Initialize services
	reportService, providerClient, err := services.NewFromConfig(cfg, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to initialize report service", logging.Fields{}, err)
	}

	// Initialize handlers
	router := handlers.NewRouter(
		handlers.NewReportHandler(reportService, logger, metricsCollector),
		handlers.NewHealthHandler(cfg.AppVersion, providerClient, logger),
		promhttp.Handler(),
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
