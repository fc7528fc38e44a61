package main

import (
	"context"
	"io"
	"log/slog"
)

// shutdowner is implemented by the HTTP server and the telemetry providers.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup returns the shutdown hook: stop accepting requests, close the
// store, then flush telemetry so the shutdown logs are exported too.
func newCleanup(ctx context.Context, server shutdowner, store io.Closer, telemetry shutdowner) func() {
	return func() {
		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				slog.Error("failed to shut down HTTP server", slog.String("error", err.Error()))
			}
		}

		if store != nil {
			if err := store.Close(); err != nil {
				slog.Error("failed to close store", slog.String("error", err.Error()))
			}
		}

		if telemetry != nil {
			if err := telemetry.Shutdown(ctx); err != nil {
				slog.Error("failed to shut down telemetry", slog.String("error", err.Error()))
			}
		}
	}
}
