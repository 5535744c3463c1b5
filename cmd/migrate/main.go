package main

import (
	"context"
	"time"

	"smallbiz-ledger/internal/config"
	"smallbiz-ledger/internal/db"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		config.NewLogger("info", "text").WithError(err).Fatal("config")
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("[CONNECT] failed")
	}
	defer pool.Close()
	logger.Info("[CONNECT] success")

	if err := db.Migrate(ctx, pool, logger); err != nil {
		logger.WithError(err).Fatal("[ERROR] migration failed")
	}
	logger.Info("[DONE] All migrations processed.")
}
