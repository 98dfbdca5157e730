package main

import (
	"log/slog"
	"os"

	"jokes-api/internal/app"
	"jokes-api/internal/config"
	"jokes-api/internal/logger"
)

func main() {
	logger.New(os.Stdout, os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.New(os.Stdout, cfg.LogLevel)

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
