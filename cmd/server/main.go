package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting PriceLens Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Duration("rate_cache_ttl", cfg.Rates.CacheTTL),
	)

	a, err := app.New(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close() //nolint:errcheck

	if err := a.Serve(ctx, ""); err != nil {
		zap.L().Error("Server stopped", zap.Error(err))
	}
}
