package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/calendar"
)

const meterName = "github.com/rezkam/cadence/internal/application/worker"

// Default worker settings.
const (
	DefaultSchedule    = "*/15 * * * *"
	DefaultBatchSize   = 100
	DefaultMaxAttempts = 3
)

// Processor fires every reminder that is due on a given day.
type Processor interface {
	ProcessDue(ctx context.Context, today calendar.Date, batch int) (reminder.ProcessResult, error)
}

// Worker runs evaluation passes on a cron schedule.
// Each pass fires every reminder whose pending occurrence has been reached.
type Worker struct {
	processor        Processor
	schedule         string
	batchSize        int
	operationTimeout time.Duration // Timeout for a whole pass
	maxAttempts      int
	retryDelay       time.Duration
	runOnStart       bool
	now              func() time.Time
	errorHandler     ErrorHandler

	fired     metric.Int64Counter
	completed metric.Int64Counter
	passes    metric.Int64Counter
	duration  metric.Float64Histogram
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithSchedule sets the standard five-field cron expression for passes.
func WithSchedule(spec string) Option {
	return func(w *Worker) {
		w.schedule = spec
	}
}

// WithBatchSize sets how many due reminders are loaded per query.
func WithBatchSize(n int) Option {
	return func(w *Worker) {
		w.batchSize = n
	}
}

// WithOperationTimeout sets the timeout for a single pass.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) {
		w.operationTimeout = d
	}
}

// WithRetry sets how many times a transiently failing pass is attempted and
// how long to wait between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(w *Worker) {
		w.maxAttempts = attempts
		w.retryDelay = delay
	}
}

// WithRunOnStart runs a pass as soon as Start is called.
func WithRunOnStart(enabled bool) Option {
	return func(w *Worker) {
		w.runOnStart = enabled
	}
}

// WithClock replaces the clock used to decide which day a pass evaluates.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// WithErrorHandler sets the handler notified of failed passes.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Worker) {
		w.errorHandler = h
	}
}

// WithMeter sets the meter used for worker metrics.
// Defaults to the global meter provider.
func WithMeter(m metric.Meter) Option {
	return func(w *Worker) {
		w.initMetrics(m)
	}
}

// New creates a new Worker around processor.
func New(processor Processor, opts ...Option) *Worker {
	w := &Worker{
		processor:        processor,
		schedule:         DefaultSchedule,
		batchSize:        DefaultBatchSize,
		operationTimeout: time.Minute,
		maxAttempts:      DefaultMaxAttempts,
		retryDelay:       2 * time.Second,
		now:              time.Now,
		errorHandler:     &DefaultErrorHandler{},
	}
	w.initMetrics(otel.Meter(meterName))

	for _, opt := range opts {
		opt(w)
	}
	w.maxAttempts = max(w.maxAttempts, 1)

	return w
}

func (w *Worker) initMetrics(m metric.Meter) {
	var err error
	if w.fired, err = m.Int64Counter("cadence.reminders.fired",
		metric.WithDescription("Reminder occurrences recorded as fired"),
		metric.WithUnit("{occurrence}")); err != nil {
		slog.Warn("failed to create metric", "name", "cadence.reminders.fired", "error", err)
		w.fired = noop.Int64Counter{}
	}
	if w.completed, err = m.Int64Counter("cadence.reminders.completed",
		metric.WithDescription("Reminders whose rule was exhausted"),
		metric.WithUnit("{reminder}")); err != nil {
		slog.Warn("failed to create metric", "name", "cadence.reminders.completed", "error", err)
		w.completed = noop.Int64Counter{}
	}
	if w.passes, err = m.Int64Counter("cadence.worker.passes",
		metric.WithDescription("Evaluation passes by outcome"),
		metric.WithUnit("{pass}")); err != nil {
		slog.Warn("failed to create metric", "name", "cadence.worker.passes", "error", err)
		w.passes = noop.Int64Counter{}
	}
	if w.duration, err = m.Float64Histogram("cadence.worker.pass.duration",
		metric.WithDescription("Duration of evaluation passes"),
		metric.WithUnit("s")); err != nil {
		slog.Warn("failed to create metric", "name", "cadence.worker.pass.duration", "error", err)
		w.duration = noop.Float64Histogram{}
	}
}

// Start schedules passes and blocks until ctx is cancelled. On shutdown:
// 1. Stops scheduling new passes
// 2. Waits for an in-flight pass to complete
// 3. Returns nil
func (w *Worker) Start(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(w.schedule, w.runScheduled); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", w.schedule, err)
	}

	slog.InfoContext(ctx, "Reminder worker started", "schedule", w.schedule, "batch_size", w.batchSize)

	if w.runOnStart {
		w.runScheduled()
	}

	c.Start()
	<-ctx.Done()

	slog.InfoContext(ctx, "Shutdown requested, waiting for in-flight pass...")
	<-c.Stop().Done()
	slog.InfoContext(ctx, "Reminder worker stopped gracefully")
	return nil
}

// runScheduled runs one pass detached from the caller so shutdown never
// interrupts a pass half way.
func (w *Worker) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), w.operationTimeout)
	defer cancel()

	// Failures are already reported to the error handler.
	_, _ = w.RunOnce(ctx)
}

// RunOnce executes a single evaluation pass for today's date, retrying
// transient failures. Fired reminders are not fired again by a retry.
func (w *Worker) RunOnce(ctx context.Context) (reminder.ProcessResult, error) {
	today := calendar.FromTime(w.now().UTC())
	started := time.Now().UTC()

	var total reminder.ProcessResult
	var err error
	attempt := 0
	for {
		attempt++

		var result reminder.ProcessResult
		result, err = w.processWithRecovery(ctx, today)
		total = addResults(total, result)
		err = classify(ctx, err)

		if err == nil || IsPanic(err) || !IsRetryable(err) || attempt >= w.maxAttempts {
			break
		}

		slog.WarnContext(ctx, "Evaluation pass failed, retrying",
			"attempt", attempt,
			"error", err)
		select {
		case <-time.After(w.retryDelay):
		case <-ctx.Done():
			err = ctx.Err()
		}
		if ctx.Err() != nil {
			break
		}
	}

	w.record(ctx, total, err, time.Since(started))

	if err != nil {
		if !IsPanic(err) {
			w.errorHandler.HandleError(ctx, err, attempt)
		}
		return total, err
	}

	slog.InfoContext(ctx, "Evaluation pass finished",
		"date", today.String(),
		"scanned", total.Scanned,
		"fired", total.Fired,
		"completed", total.Completed,
		"conflicts", total.Conflicts)
	return total, nil
}

// processWithRecovery runs a pass with panic recovery.
// If the pass panics, captures stack trace and converts to PanicError.
func (w *Worker) processWithRecovery(ctx context.Context, today calendar.Date) (result reminder.ProcessResult, err error) {
	defer func() {
		r := recover()
		if r != nil {
			stackTrace := string(debug.Stack())
			w.errorHandler.HandlePanic(ctx, r, stackTrace)
			err = PanicError{Value: r, StackTrace: stackTrace}
		}
	}()
	return w.processor.ProcessDue(ctx, today, w.batchSize)
}

func (w *Worker) record(ctx context.Context, r reminder.ProcessResult, err error, elapsed time.Duration) {
	outcome := "success"
	switch {
	case IsPanic(err):
		outcome = "panic"
	case err != nil:
		outcome = "error"
	}

	w.fired.Add(ctx, int64(r.Fired))
	w.completed.Add(ctx, int64(r.Completed))
	w.passes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	w.duration.Record(ctx, elapsed.Seconds())
}

func addResults(a, b reminder.ProcessResult) reminder.ProcessResult {
	return reminder.ProcessResult{
		Scanned:   a.Scanned + b.Scanned,
		Fired:     a.Fired + b.Fired,
		Completed: a.Completed + b.Completed,
		Conflicts: a.Conflicts + b.Conflicts,
	}
}
