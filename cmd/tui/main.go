package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"todoref/internal/adapter/database/memory"
	"todoref/internal/adapter/tui"
	"todoref/internal/core/service"
	"todoref/internal/core/telemetry"
	"todoref/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appConfig, err := config.LoadConfig()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// stdout belongs to the terminal UI, logs only go to LOG_FILE
	logger, closer, err := config.NewSlogLogger(appConfig, true)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer closer.Close()

	store := memory.NewTodoStoreFromConfig(appConfig)
	svc := service.NewTodoService(store, telemetry.NewOTELProbe(logger), nil)

	if err := tui.Run(ctx, svc); err != nil {
		logger.Error("terminal ui stopped with error", "error", err)
		return
	}

	logger.Info("terminal ui exited")
}
