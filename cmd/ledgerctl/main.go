package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"smallbiz-ledger/internal/adapters/cli"
	"smallbiz-ledger/internal/app"
	"smallbiz-ledger/internal/config"
	"smallbiz-ledger/internal/db"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(2)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	defer pool.Close()

	if err := cli.Run(ctx, app.New(pool), os.Stdout, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, cli.Usage)
			pool.Close()
			os.Exit(2)
		}
		logger.WithError(err).Error("command failed")
		pool.Close()
		os.Exit(1)
	}
}
