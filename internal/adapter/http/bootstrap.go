package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"todoref/internal/adapter/http/routes"
	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// StartServer serves the API until ctx is cancelled, then drains in-flight
// requests. Open streams end with ctx.
func StartServer(ctx context.Context, appConfig *config.AppConfig, logger *config.AppLogger, probe port.Telemetry, metrics *telemetry.AppMetrics) error {
	container, err := NewContainer(ctx, appConfig, logger, probe, metrics)

	if err != nil {
		return err
	}

	defer container.Close()

	router, responseCache := routes.SetupRouterWithConfig(container.Handlers(), metrics, probe, logger, appConfig, container.Cache)

	container.Observe(ctx, responseCache)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoWithTrace(ctx, "Server starting",
		zap.String("port", appConfig.Port),
		zap.String("environment", appConfig.Environment),
		zap.Bool("rate_limit_enabled", appConfig.RateLimitEnabled),
		zap.Bool("cache_enabled", appConfig.CacheEnabled),
		zap.String("cache_backend", appConfig.CacheBackend),
		zap.Bool("https_enforced", appConfig.EnforceHTTPS))

	serverErr := make(chan error, 1)

	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	logger.InfoWithTrace(context.Background(), "Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
