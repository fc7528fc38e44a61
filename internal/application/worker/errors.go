package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
)

// === Retry Classification ===

// RetryableError wraps transient errors that should be retried.
// Only errors wrapped with Transient() are retried; everything else fails
// the pass and waits for the next scheduled run.
//
// Use for: lost connections, busy databases, per-query timeouts.
// Don't use for: validation errors, not found errors, business logic failures.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string { return e.Err.Error() }
func (e RetryableError) Unwrap() error { return e.Err }

// Transient wraps an error to signal it should be retried.
func Transient(err error) error {
	return RetryableError{Err: err}
}

// IsRetryable returns true if the error should be retried.
func IsRetryable(err error) bool {
	var retryable RetryableError
	return errors.As(err, &retryable)
}

// classify marks storage hiccups as transient. A pass whose own context
// ended is never retried.
func classify(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil || IsPanic(err) || IsRetryable(err) {
		return err
	}
	if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return Transient(err)
	}
	return err
}

// === Panic Handling ===

// PanicError indicates a panic occurred during an evaluation pass.
// Panics are never retried: they indicate programming errors, not transient issues.
type PanicError struct {
	Value      any
	StackTrace string
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsPanic returns true if the error indicates a panic occurred.
func IsPanic(err error) bool {
	var panicErr PanicError
	return errors.As(err, &panicErr)
}
