// Package main is the scheduled document-expiry reminder command. It is
// invoked once daily by an external scheduler, runs the pipeline once over
// all tenants, and exits. Individual tenant failures are logged, not fatal;
// only top-level failures (config, connectivity, tenant enumeration) produce
// a non-zero exit.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/complydesk/complydesk/internal/config"
	"github.com/complydesk/complydesk/internal/entitlement"
	"github.com/complydesk/complydesk/internal/notify"
	"github.com/complydesk/complydesk/internal/reminder"
	"github.com/complydesk/complydesk/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("reminder run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Worker.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	queue, err := notify.NewRedisQueue(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create notification queue: %w", err)
	}
	defer queue.Close()

	if err := queue.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("notification queue connected")

	pgStore := store.NewPostgresStore(pool)
	checker := entitlement.NewChecker(pgStore)
	dispatcher := reminder.NewDispatcher(pgStore, queue)
	runner := reminder.NewRunner(pgStore, checker, dispatcher)

	return runner.Run(ctx)
}
