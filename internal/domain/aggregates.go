package domain

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/recurring"
)

// Reminder is an aggregate root representing a scheduled item that repeats
// according to a recurrence rule.
//
// The reminder owns the rule's progress. Progress.LastOccurrence is the
// occurrence currently pending: it becomes due once the calendar reaches it,
// is recorded as a Firing, and is then advanced to the next one.
type Reminder struct {
	ID    string
	Title string

	Rule     recurring.Rule
	Progress recurring.Progress

	// Timestamps
	CreatedAt time.Time
	UpdatedAt time.Time

	// Optimistic locking version for concurrent update protection
	Version int
}

// Etag returns the entity tag for this reminder.
// The etag is based on the version number and is used for optimistic concurrency control.
func (r *Reminder) Etag() string {
	return fmt.Sprintf("%d", r.Version)
}

// Pending returns the occurrence waiting to fire, or None once the rule is exhausted.
func (r *Reminder) Pending() mo.Option[calendar.Date] {
	if r.Progress.Done {
		return mo.None[calendar.Date]()
	}
	return r.Progress.LastOccurrence
}

// DueOn reports whether the pending occurrence is on or before today.
func (r *Reminder) DueOn(today calendar.Date) bool {
	next, ok := r.Pending().Get()
	return ok && !next.After(today)
}

// Firing records that a reminder occurrence became due.
type Firing struct {
	ID             string
	ReminderID     string
	OccurrenceDate calendar.Date
	FiredAt        time.Time
}
