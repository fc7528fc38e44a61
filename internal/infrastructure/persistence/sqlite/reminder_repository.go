package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/persistence"
	"github.com/rezkam/cadence/internal/recurring"
)

// timeLayout is fixed width so stored timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const reminderColumns = `id, title, rule, last_occurrence_date, occurrence_count, is_done, version, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func optionalDate(d mo.Option[calendar.Date]) sql.NullString {
	v, ok := d.Get()
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}

func scanReminder(row scanner) (*domain.Reminder, error) {
	var (
		id, title, rule      string
		last                 sql.NullString
		count, version       int
		done                 bool
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &title, &rule, &last, &count, &done, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r := &domain.Reminder{
		ID:       id,
		Title:    title,
		Progress: recurring.Progress{Count: count, Done: done},
		Version:  version,
	}

	var err error
	if r.Rule, err = persistence.UnmarshalRule([]byte(rule)); err != nil {
		return nil, fmt.Errorf("reminder %s: %w", id, err)
	}
	if last.Valid {
		d, err := calendar.Parse(last.String)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: %w", id, err)
		}
		r.Progress.LastOccurrence = mo.Some(d)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) queryReminders(ctx context.Context, query string, args ...any) ([]*domain.Reminder, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []*domain.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, wrapErr(rows.Err())
}

// CreateReminder stores a new reminder with version 1.
func (s *Store) CreateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	if err := checkID(r.ID); err != nil {
		return nil, err
	}
	rule, err := persistence.MarshalRule(r.Rule)
	if err != nil {
		return nil, err
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO reminders (id, title, rule, last_occurrence_date, occurrence_count, is_done, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		r.ID, r.Title, string(rule), optionalDate(r.Progress.LastOccurrence),
		r.Progress.Count, r.Progress.Done, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", wrapErr(err))
	}

	return s.FindReminderByID(ctx, r.ID)
}

// FindReminderByID retrieves a reminder by its ID.
func (s *Store) FindReminderByID(ctx context.Context, id string) (*domain.Reminder, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r, err := scanReminder(s.conn.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reminder %s", domain.ErrReminderNotFound, id)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", wrapErr(err))
	}
	return r, nil
}

// ListReminders retrieves reminders newest first with pagination.
func (s *Store) ListReminders(ctx context.Context, params domain.ListRemindersParams) (*domain.PagedReminders, error) {
	var total int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM reminders`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", wrapErr(err))
	}

	page, err := s.queryReminders(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	if page == nil {
		page = []*domain.Reminder{}
	}

	return &domain.PagedReminders{
		Reminders:  page,
		TotalCount: total,
		HasMore:    params.Offset+len(page) < total,
	}, nil
}

// UpdateReminder overwrites title, rule and progress when the stored version
// equals r.Version.
func (s *Store) UpdateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	if err := checkID(r.ID); err != nil {
		return nil, err
	}
	rule, err := persistence.MarshalRule(r.Rule)
	if err != nil {
		return nil, err
	}

	res, err := s.conn.ExecContext(ctx, `
		UPDATE reminders
		SET title = ?,
		    rule = ?,
		    last_occurrence_date = ?,
		    occurrence_count = ?,
		    is_done = ?,
		    updated_at = ?,
		    version = version + 1
		WHERE id = ? AND version = ?`,
		r.Title, string(rule), optionalDate(r.Progress.LastOccurrence),
		r.Progress.Count, r.Progress.Done, formatTime(r.UpdatedAt),
		r.ID, r.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", wrapErr(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	if n == 0 {
		// Distinguish between not-found and version-conflict
		var current int
		err := s.conn.QueryRowContext(ctx, `SELECT version FROM reminders WHERE id = ?`, r.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reminder %s", domain.ErrReminderNotFound, r.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check reminder existence: %w", wrapErr(err))
		}
		return nil, fmt.Errorf("%w: expected version %d, current version %d",
			domain.ErrVersionConflict, r.Version, current)
	}

	return s.FindReminderByID(ctx, r.ID)
}

// DeleteReminder deletes a reminder; its firings are removed by cascade.
func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	res, err := s.conn.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", wrapErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: reminder %s", domain.ErrReminderNotFound, id)
	}
	return nil
}

// Truncate removes every reminder and firing. Intended for tests.
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM reminder_firings`); err != nil {
		return wrapErr(err)
	}
	_, err := s.conn.ExecContext(ctx, `DELETE FROM reminders`)
	return wrapErr(err)
}

// FindDueReminders returns unfinished reminders whose pending occurrence is on
// or before params.Today, in ID order after params.AfterID.
// ISO dates compare correctly as text.
func (s *Store) FindDueReminders(ctx context.Context, params domain.DueParams) ([]*domain.Reminder, error) {
	due, err := s.queryReminders(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE is_done = 0
		  AND last_occurrence_date <= ?
		  AND id > ?
		ORDER BY id
		LIMIT ?`,
		params.Today.String(), params.AfterID, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	return due, nil
}

// RecordFiring stores a firing, ignoring a repeat of the same occurrence.
func (s *Store) RecordFiring(ctx context.Context, f *domain.Firing) error {
	if err := checkID(f.ReminderID); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO reminder_firings (id, reminder_id, occurrence_date, fired_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (reminder_id, occurrence_date) DO NOTHING`,
		f.ID, f.ReminderID, f.OccurrenceDate.String(), formatTime(f.FiredAt))
	if err != nil {
		return fmt.Errorf("failed to record firing: %w", wrapErr(err))
	}
	return nil
}

// ListFirings returns the most recent firings of a reminder, newest occurrence first.
func (s *Store) ListFirings(ctx context.Context, reminderID string, limit int) ([]*domain.Firing, error) {
	if err := checkID(reminderID); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, reminder_id, occurrence_date, fired_at
		FROM reminder_firings
		WHERE reminder_id = ?
		ORDER BY occurrence_date DESC
		LIMIT ?`,
		reminderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list firings: %w", wrapErr(err))
	}
	defer rows.Close()

	firings := []*domain.Firing{}
	for rows.Next() {
		var id, rid, occurred, firedAt string
		if err := rows.Scan(&id, &rid, &occurred, &firedAt); err != nil {
			return nil, fmt.Errorf("failed to scan firing: %w", err)
		}
		d, err := calendar.Parse(occurred)
		if err != nil {
			return nil, fmt.Errorf("firing %s: %w", id, err)
		}
		at, err := parseTime(firedAt)
		if err != nil {
			return nil, err
		}
		firings = append(firings, &domain.Firing{ID: id, ReminderID: rid, OccurrenceDate: d, FiredAt: at})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list firings: %w", wrapErr(err))
	}
	return firings, nil
}
