package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/application/worker"
	"github.com/rezkam/cadence/internal/config"
	"github.com/rezkam/cadence/internal/infrastructure/observability"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, logger, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	slog.SetDefault(logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down telemetry", "error", err)
		}
	}()

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()
	slog.InfoContext(ctx, "storage initialized",
		"driver", cfg.Database.Driver,
		"dsn", store.RedactDSN(cfg.Database.DSN))

	svc := reminder.NewService(db, reminder.Config{MaxCatchUp: cfg.Schedule.MaxCatchUp})

	w := worker.New(svc,
		worker.WithSchedule(cfg.Schedule.Cron),
		worker.WithBatchSize(cfg.Schedule.BatchSize),
		worker.WithOperationTimeout(cfg.OperationTimeout),
		worker.WithRunOnStart(cfg.Schedule.RunOnStart),
		worker.WithMeter(providers.Meter.Meter("github.com/rezkam/cadence/cmd/worker")),
	)

	// Start blocks until the signal context is cancelled and the
	// in-flight pass has finished.
	return w.Start(ctx)
}
