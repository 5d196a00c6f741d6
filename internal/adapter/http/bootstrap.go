package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/adapter/telemetry"
	"todoapi/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// StartServerWithConfig serves the API until ctx is cancelled, then drains
// in-flight requests and releases the store and telemetry providers.
func StartServerWithConfig(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger) error {
	gin.SetMode(cfg.GinMode)

	telemetryContainer, err := telemetry.NewContainer(ctx, telemetry.ConfigFrom(cfg), logger.Zap())

	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := telemetryContainer.Shutdown(shutdownCtx); err != nil {
			logger.Zap().Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	container, err := NewContainer(ctx, cfg, telemetryContainer.NewTelemetryProbe(), telemetryContainer.AppMetrics, logger)

	if err != nil {
		return err
	}

	defer func() {
		if err := container.Close(); err != nil {
			logger.Zap().Warn("Store close failed", zap.Error(err))
		}
	}()

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		GraphQLHandler: container.GraphQLHandler,
		HealthHandler:  container.HealthHandler,
	}, telemetryContainer.AppMetrics, logger, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Zap().Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("metrics_port", cfg.MetricsPort),
		zap.String("store", cfg.Store),
		zap.String("environment", cfg.Environment),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS || cfg.IsProduction()))

	serveErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Zap().Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
