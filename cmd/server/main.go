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

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/config"
	apihttp "github.com/rezkam/cadence/internal/infrastructure/http"
	"github.com/rezkam/cadence/internal/infrastructure/http/handler"
	"github.com/rezkam/cadence/internal/infrastructure/observability"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/store"
)

func main() {
	if err := run(); err != nil {
		// slog may not be configured yet if config loading failed
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	// Root context for normal operation, cancelled on SIGTERM/SIGINT
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

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		shutdownTelemetry(providers, cfg)
		return fmt.Errorf("failed to open store: %w", err)
	}
	slog.InfoContext(ctx, "storage initialized",
		"driver", cfg.Database.Driver,
		"dsn", store.RedactDSN(cfg.Database.DSN))

	svc := reminder.NewService(db, reminder.Config{
		DefaultPageSize: cfg.Reminder.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Reminder.Pagination.MaxPageSize,
		MaxPreview:      cfg.Reminder.MaxPreview,
	})

	serverCfg := apihttp.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	}
	if cfg.HTTP.TLSEnabled {
		serverCfg.TLSCertFile = cfg.HTTP.TLSCertFile
		serverCfg.TLSKeyFile = cfg.HTTP.TLSKeyFile
	}
	server := apihttp.NewAPIServer(handler.NewRouter(svc), db, serverCfg)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr = <-errCh:
		slog.Error("HTTP server failed", "error", serveErr)
	}

	// Fresh context: the root one is already cancelled.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	newCleanup(shutdownCtx, server, db, providers)()
	slog.Info("server stopped")
	return serveErr
}

func shutdownTelemetry(p *observability.Providers, cfg *config.ServerConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down telemetry", "error", err)
	}
}
