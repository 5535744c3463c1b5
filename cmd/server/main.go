package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "smallbiz-ledger/internal/adapters/web"
	"smallbiz-ledger/internal/app"
	"smallbiz-ledger/internal/config"
	"smallbiz-ledger/internal/db"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		config.NewLogger("info", "text").WithError(err).Fatal("config")
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := config.InitTracer(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("tracing")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.WithError(err).Warn("tracer shutdown")
		}
	}()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool, logger.WithField("component", "migrate")); err != nil {
			logger.WithError(err).Fatal("migrate")
		}
	}

	ledger := app.New(pool)
	handler := webAdapter.NewHandler(ledger, logger, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}
}
