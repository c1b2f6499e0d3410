package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/lessmo/internal/config"
	"github.com/mmynk/lessmo/internal/server"
	"github.com/mmynk/lessmo/internal/storage/sqlite"
	"github.com/mmynk/lessmo/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("LESSMO_CONFIG"), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level)
	if cfg.InsecureSecret() {
		logger.Warn("Using the built-in JWT secret; set JWT_SECRET in production")
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, store, logger).Run(ctx); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
