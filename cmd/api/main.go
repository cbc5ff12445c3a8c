package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	adapterhttp "todoref/internal/adapter/http"
	adaptertelemetry "todoref/internal/adapter/telemetry"
	"todoref/pkg/config"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appConfig, err := config.LoadConfig()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := config.NewAppLogger(appConfig.ServiceName, appConfig.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	probeLogger, closer, err := config.NewSlogLogger(appConfig, false)

	if err != nil {
		log.Fatal("Failed to initialize probe logger: ", err)
	}

	defer closer.Close()

	telemetry, err := adaptertelemetry.NewContainer(ctx, appConfig, probeLogger)

	if err != nil {
		log.Fatal("Failed to initialize telemetry: ", err)
	}

	defer telemetry.Shutdown(context.Background())

	telemetry.Start(ctx)

	err = adapterhttp.StartServer(ctx, appConfig, logger, telemetry.NewTelemetryProbe(), telemetry.AppMetrics)

	if err != nil {
		logger.Logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Logger.Info("Server exited")
}
