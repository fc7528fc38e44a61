package worker

import (
	"context"
	"log/slog"
)

// ErrorHandler observes failed evaluation passes for telemetry/alerting.
// Allows custom integration with error tracking services (Sentry, Datadog, etc.).
type ErrorHandler interface {
	// HandleError is called once a pass has failed for good, after attempts tries.
	HandleError(ctx context.Context, err error, attempts int)

	// HandlePanic is called when a pass panics. Includes panic value and stack trace.
	HandlePanic(ctx context.Context, panicVal any, stackTrace string)
}

// DefaultErrorHandler logs errors and panics with structured logging.
type DefaultErrorHandler struct{}

func (h *DefaultErrorHandler) HandleError(ctx context.Context, err error, attempts int) {
	slog.ErrorContext(ctx, "Evaluation pass failed",
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
		slog.Bool("retryable", IsRetryable(err)),
	)
}

func (h *DefaultErrorHandler) HandlePanic(ctx context.Context, panicVal any, stackTrace string) {
	slog.ErrorContext(ctx, "Evaluation pass panicked",
		slog.Any("panic_value", panicVal),
		slog.String("stack_trace", stackTrace),
	)
}
