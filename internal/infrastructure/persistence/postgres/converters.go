package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/persistence"
	"github.com/rezkam/cadence/internal/recurring"
)

// === pgtype Conversion Helpers ===

// parseID converts a reminder ID to a UUID, reporting malformed IDs as domain.ErrInvalidID.
func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return u, nil
}

// timeToPgtype converts time.Time to pgtype.Timestamptz.
func timeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// pgtypeToTime converts pgtype.Timestamptz to time.Time (zero if invalid).
// Always returns time in UTC location for consistent timezone handling.
func pgtypeToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

// dateToPgtype converts a calendar date to pgtype.Date.
func dateToPgtype(d calendar.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// optionalDateToPgtype stores None as NULL.
func optionalDateToPgtype(d mo.Option[calendar.Date]) pgtype.Date {
	v, ok := d.Get()
	if !ok {
		return pgtype.Date{Valid: false}
	}
	return dateToPgtype(v)
}

// pgtypeToDate converts pgtype.Date to a calendar date, NULL becoming None.
// The day is read in the value's own location.
func pgtypeToDate(d pgtype.Date) mo.Option[calendar.Date] {
	if !d.Valid {
		return mo.None[calendar.Date]()
	}
	return mo.Some(calendar.FromTime(d.Time))
}

// === Row Conversion ===

// reminderRow mirrors the reminders table.
type reminderRow struct {
	ID              uuid.UUID
	Title           string
	Rule            []byte
	LastOccurrence  pgtype.Date
	OccurrenceCount int32
	IsDone          bool
	Version         int32
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

const reminderColumns = `id, title, rule, last_occurrence_date, occurrence_count, is_done, version, created_at, updated_at`

func (r *reminderRow) scanTargets() []any {
	return []any{
		&r.ID, &r.Title, &r.Rule, &r.LastOccurrence, &r.OccurrenceCount,
		&r.IsDone, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (r reminderRow) toDomain() (*domain.Reminder, error) {
	rule, err := persistence.UnmarshalRule(r.Rule)
	if err != nil {
		return nil, fmt.Errorf("reminder %s: %w", r.ID, err)
	}

	return &domain.Reminder{
		ID:    r.ID.String(),
		Title: r.Title,
		Rule:  rule,
		Progress: recurring.Progress{
			LastOccurrence: pgtypeToDate(r.LastOccurrence),
			Count:          int(r.OccurrenceCount),
			Done:           r.IsDone,
		},
		CreatedAt: pgtypeToTime(r.CreatedAt),
		UpdatedAt: pgtypeToTime(r.UpdatedAt),
		Version:   int(r.Version),
	}, nil
}
