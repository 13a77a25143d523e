// Package main is the notification delivery worker. It drains the Redis
// notification queue, delivering emails through the configured provider and
// Slack messages through tenant webhooks, and serves ops endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/complydesk/complydesk/internal/config"
	"github.com/complydesk/complydesk/internal/notify"
	"github.com/complydesk/complydesk/internal/ops"
	"github.com/complydesk/complydesk/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("worker failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "mail_provider", cfg.Mailer.Provider, "env", cfg.Worker.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	queue, err := notify.NewRedisQueue(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create notification queue: %w", err)
	}
	defer queue.Close()

	if err := queue.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("notification queue connected")

	provider, err := notify.NewProvider(cfg.Mailer)
	if err != nil {
		return fmt.Errorf("create mail provider: %w", err)
	}
	slog.Info("mail provider initialized", "provider", provider.Name())

	pgStore := store.NewPostgresStore(pool)
	slack := notify.NewSlackSender(cfg.Slack.Timeout)
	worker := notify.NewWorker(queue, provider, slack, cfg.Worker.PollTimeout)

	router := ops.NewRouter(ops.Dependencies{
		Database: pgStore,
		Queue:    queue,
	})

	addr := fmt.Sprintf(":%d", cfg.Worker.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("ops server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		errCh <- worker.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("worker error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ops server shutdown: %w", err)
	}

	slog.Info("worker stopped gracefully")
	return nil
}
