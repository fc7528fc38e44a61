package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
)

// DefaultBatchSize is used when ProcessDue is called with a non-positive batch.
const DefaultBatchSize = 100

// ProcessResult summarises one evaluation pass.
type ProcessResult struct {
	Scanned   int // Due reminders loaded
	Fired     int // Firings recorded
	Completed int // Reminders that finished during the pass
	Conflicts int // Reminders skipped after a repeated version conflict
}

// ProcessDue fires every reminder whose pending occurrence is on or before
// today. Each reminder catches up at most MaxCatchUp occurrences per pass.
// A failing reminder does not stop the pass; all failures are returned joined.
func (s *Service) ProcessDue(ctx context.Context, today calendar.Date, batch int) (ProcessResult, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	var (
		result ProcessResult
		errs   []error
		after  string
	)
	for {
		if err := ctx.Err(); err != nil {
			return result, errors.Join(append(errs, err)...)
		}

		due, err := s.repo.FindDueReminders(ctx, domain.DueParams{Today: today, AfterID: after, Limit: batch})
		if err != nil {
			return result, errors.Join(append(errs, fmt.Errorf("failed to find due reminders: %w", err))...)
		}
		result.Scanned += len(due)

		for _, r := range due {
			out, err := s.fireWithRetry(ctx, r, today)
			switch {
			case errors.Is(err, domain.ErrVersionConflict):
				result.Conflicts++
				slog.WarnContext(ctx, "reminder changed during evaluation, skipping",
					"reminder_id", r.ID)
			case err != nil:
				errs = append(errs, fmt.Errorf("reminder %s: %w", r.ID, err))
			default:
				result.Fired += out.fired
				if out.completed {
					result.Completed++
				}
			}
		}

		if len(due) < batch {
			break
		}
		after = due[len(due)-1].ID
	}

	return result, errors.Join(errs...)
}

type fireOutcome struct {
	fired     int
	completed bool
}

// fireWithRetry reloads the reminder once if it changed since it was listed.
func (s *Service) fireWithRetry(ctx context.Context, r *domain.Reminder, today calendar.Date) (fireOutcome, error) {
	out, err := s.fireDue(ctx, r, today)
	if !errors.Is(err, domain.ErrVersionConflict) {
		return out, err
	}

	fresh, err := s.repo.FindReminderByID(ctx, r.ID)
	if errors.Is(err, domain.ErrReminderNotFound) {
		return fireOutcome{}, nil
	}
	if err != nil {
		return fireOutcome{}, err
	}
	return s.fireDue(ctx, fresh, today)
}

// fireDue records a firing for each due occurrence of r, advancing its
// progress after each one, and stores the result in a single transaction.
func (s *Service) fireDue(ctx context.Context, r *domain.Reminder, today calendar.Date) (fireOutcome, error) {
	var out fireOutcome
	if !r.DueOn(today) {
		return out, nil
	}

	err := s.repo.Atomic(ctx, func(tx Repository) error {
		out = fireOutcome{}
		next := *r
		firedAt := s.config.Now().UTC()

		for next.DueOn(today) && out.fired < s.config.MaxCatchUp {
			idObj, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate id: %w", err)
			}
			firing := &domain.Firing{
				ID:             idObj.String(),
				ReminderID:     next.ID,
				OccurrenceDate: next.Pending().MustGet(),
				FiredAt:        firedAt,
			}
			if err := tx.RecordFiring(ctx, firing); err != nil {
				return fmt.Errorf("failed to record firing: %w", err)
			}
			next.Progress = next.Rule.Advance(next.Progress, today)
			out.fired++
		}

		next.UpdatedAt = firedAt
		if _, err := tx.UpdateReminder(ctx, &next); err != nil {
			return err
		}
		out.completed = next.Progress.Done
		return nil
	})
	if err != nil {
		return fireOutcome{}, err
	}

	slog.DebugContext(ctx, "reminder fired",
		"reminder_id", r.ID,
		"occurrences", out.fired,
		"completed", out.completed)
	return out, nil
}
