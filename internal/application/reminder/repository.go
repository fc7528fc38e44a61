package reminder

import (
	"context"

	"github.com/rezkam/cadence/internal/domain"
)

// Repository defines storage operations for reminders.
// All create/update operations return the entity as persisted, including version.
type Repository interface {
	// CreateReminder stores a new reminder.
	// Returns the created reminder with version populated by persistence layer.
	CreateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error)

	// FindReminderByID retrieves a reminder by its ID.
	// Returns domain.ErrReminderNotFound if reminder doesn't exist.
	FindReminderByID(ctx context.Context, id string) (*domain.Reminder, error)

	// ListReminders retrieves reminders newest first with pagination.
	ListReminders(ctx context.Context, params domain.ListRemindersParams) (*domain.PagedReminders, error)

	// UpdateReminder overwrites title, rule and progress when r.Version matches
	// the stored version. Returns the updated reminder with new version.
	// Returns domain.ErrReminderNotFound if reminder doesn't exist.
	// Returns domain.ErrVersionConflict if the version doesn't match.
	UpdateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error)

	// DeleteReminder deletes a reminder and its firings.
	// Returns domain.ErrReminderNotFound if reminder doesn't exist.
	DeleteReminder(ctx context.Context, id string) error

	// FindDueReminders returns up to params.Limit unfinished reminders whose
	// pending occurrence is on or before params.Today, ordered by ID and
	// starting after params.AfterID.
	FindDueReminders(ctx context.Context, params domain.DueParams) ([]*domain.Reminder, error)

	// RecordFiring stores a firing. Recording the same reminder and
	// occurrence date twice is a no-op.
	RecordFiring(ctx context.Context, f *domain.Firing) error

	// ListFirings returns the most recent firings of a reminder, newest first.
	ListFirings(ctx context.Context, reminderID string, limit int) ([]*domain.Firing, error)

	// Atomic runs fn inside a transaction. fn's repository is bound to it.
	Atomic(ctx context.Context, fn func(tx Repository) error) error
}
