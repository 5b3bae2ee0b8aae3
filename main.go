package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/choraleia/collectly/pkg/config"
	"github.com/choraleia/collectly/pkg/utils"
)

func main() {
	utils.InitLogger()
	logger := utils.GetLogger()

	if _, err := config.EnsureDefaultConfig(); err != nil {
		logger.Warn("Failed to write default config", "error", err)
	}
	cfg, path, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "path", path, "error", err)
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel())
	logger = utils.GetLogger()
	logger.Info("Config loaded", "path", path, "database", cfg.DatabaseDriver())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("Failed to close app", "error", err)
		}
	}()

	server := NewServer(app)
	if err := server.Start(ctx); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	<-server.Done()
}
