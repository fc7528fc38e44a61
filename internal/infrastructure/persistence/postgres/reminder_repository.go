package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/persistence"
)

// checkRowsAffected validates that an UPDATE/DELETE operation affected exactly one row.
// Returns domain.ErrReminderNotFound if rowsAffected == 0.
func checkRowsAffected(rowsAffected int64, id string) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%w: reminder %s", domain.ErrReminderNotFound, id)
	}
	return nil
}

// CreateReminder stores a new reminder with version 1.
func (s *Store) CreateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return nil, err
	}
	rule, err := persistence.MarshalRule(r.Rule)
	if err != nil {
		return nil, err
	}

	var row reminderRow
	err = s.db.QueryRow(ctx, `
		INSERT INTO reminders (id, title, rule, last_occurrence_date, occurrence_count, is_done, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
		RETURNING `+reminderColumns,
		id, r.Title, rule,
		optionalDateToPgtype(r.Progress.LastOccurrence), r.Progress.Count, r.Progress.Done,
		timeToPgtype(r.CreatedAt), timeToPgtype(r.UpdatedAt),
	).Scan(row.scanTargets()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", wrapErr(err))
	}

	return row.toDomain()
}

// FindReminderByID retrieves a reminder by its ID.
func (s *Store) FindReminderByID(ctx context.Context, id string) (*domain.Reminder, error) {
	rid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var row reminderRow
	err = s.db.QueryRow(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, rid).
		Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reminder %s", domain.ErrReminderNotFound, id)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", wrapErr(err))
	}

	return row.toDomain()
}

// ListReminders retrieves reminders newest first with pagination.
// The total is read in the same statement so the page and count agree.
func (s *Store) ListReminders(ctx context.Context, params domain.ListRemindersParams) (*domain.PagedReminders, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reminderColumns+`, COUNT(*) OVER () AS total_count
		FROM reminders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", wrapErr(err))
	}
	defer rows.Close()

	result := &domain.PagedReminders{Reminders: []*domain.Reminder{}}
	var total int64
	for rows.Next() {
		var row reminderRow
		if err := rows.Scan(append(row.scanTargets(), &total)...); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		r, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result.Reminders = append(result.Reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", wrapErr(err))
	}

	if len(result.Reminders) == 0 && params.Offset > 0 {
		// The window count is unavailable past the last page.
		if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM reminders`).Scan(&total); err != nil {
			return nil, fmt.Errorf("failed to count reminders: %w", wrapErr(err))
		}
	}

	result.TotalCount = int(total)
	result.HasMore = params.Offset+len(result.Reminders) < result.TotalCount
	return result, nil
}

// UpdateReminder overwrites title, rule and progress when the stored version
// equals r.Version.
func (s *Store) UpdateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return nil, err
	}
	rule, err := persistence.MarshalRule(r.Rule)
	if err != nil {
		return nil, err
	}

	var row reminderRow
	err = s.db.QueryRow(ctx, `
		UPDATE reminders
		SET title = $3,
		    rule = $4,
		    last_occurrence_date = $5,
		    occurrence_count = $6,
		    is_done = $7,
		    updated_at = $8,
		    version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING `+reminderColumns,
		id, r.Version, r.Title, rule,
		optionalDateToPgtype(r.Progress.LastOccurrence), r.Progress.Count, r.Progress.Done,
		timeToPgtype(r.UpdatedAt),
	).Scan(row.scanTargets()...)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to update reminder: %w", wrapErr(err))
		}

		// Distinguish between not-found and version-conflict
		var current int
		lookupErr := s.db.QueryRow(ctx, `SELECT version FROM reminders WHERE id = $1`, id).Scan(&current)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reminder %s", domain.ErrReminderNotFound, r.ID)
		}
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to check reminder existence: %w", wrapErr(lookupErr))
		}
		return nil, fmt.Errorf("%w: expected version %d, current version %d",
			domain.ErrVersionConflict, r.Version, current)
	}

	return row.toDomain()
}

// DeleteReminder deletes a reminder; its firings are removed by cascade.
func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	rid, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, rid)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", wrapErr(err))
	}
	return checkRowsAffected(tag.RowsAffected(), id)
}

// FindDueReminders returns unfinished reminders whose pending occurrence is on
// or before params.Today, in ID order after params.AfterID.
func (s *Store) FindDueReminders(ctx context.Context, params domain.DueParams) ([]*domain.Reminder, error) {
	after := uuid.Nil
	if params.AfterID != "" {
		var err error
		if after, err = parseID(params.AfterID); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE NOT is_done
		  AND last_occurrence_date <= $1
		  AND id > $2
		ORDER BY id
		LIMIT $3`,
		dateToPgtype(params.Today), after, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", wrapErr(err))
	}
	defer rows.Close()

	var due []*domain.Reminder
	for rows.Next() {
		var row reminderRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		r, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		due = append(due, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", wrapErr(err))
	}
	return due, nil
}

// RecordFiring stores a firing, ignoring a repeat of the same occurrence.
func (s *Store) RecordFiring(ctx context.Context, f *domain.Firing) error {
	id, err := parseID(f.ID)
	if err != nil {
		return err
	}
	reminderID, err := parseID(f.ReminderID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO reminder_firings (id, reminder_id, occurrence_date, fired_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (reminder_id, occurrence_date) DO NOTHING`,
		id, reminderID, dateToPgtype(f.OccurrenceDate), timeToPgtype(f.FiredAt))
	if err != nil {
		return fmt.Errorf("failed to record firing: %w", wrapErr(err))
	}
	return nil
}

// ListFirings returns the most recent firings of a reminder, newest occurrence first.
func (s *Store) ListFirings(ctx context.Context, reminderID string, limit int) ([]*domain.Firing, error) {
	rid, err := parseID(reminderID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, reminder_id, occurrence_date, fired_at
		FROM reminder_firings
		WHERE reminder_id = $1
		ORDER BY occurrence_date DESC
		LIMIT $2`,
		rid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list firings: %w", wrapErr(err))
	}
	defer rows.Close()

	firings := []*domain.Firing{}
	for rows.Next() {
		var (
			id, rem  uuid.UUID
			occurred pgtype.Date
			firedAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &rem, &occurred, &firedAt); err != nil {
			return nil, fmt.Errorf("failed to scan firing: %w", err)
		}
		firings = append(firings, &domain.Firing{
			ID:             id.String(),
			ReminderID:     rem.String(),
			OccurrenceDate: pgtypeToDate(occurred).MustGet(),
			FiredAt:        pgtypeToTime(firedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list firings: %w", wrapErr(err))
	}
	return firings, nil
}
