// Package compliance holds the behaviour every reminder store must share.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurring"
)

var created = time.Date(2024, time.May, 16, 8, 0, 0, 0, time.UTC)

func day(d int) calendar.Date {
	return calendar.MustNew(2024, time.May, d)
}

func newReminder(title string, pending calendar.Date, createdAt time.Time) *domain.Reminder {
	return &domain.Reminder{
		ID:    uuid.Must(uuid.NewV7()).String(),
		Title: title,
		Rule: recurring.Rule{
			Pattern: recurring.Pattern{
				Kind:    recurring.DowOfMonth,
				Offset:  mo.Some(1),
				Weekday: mo.Some(time.Wednesday),
			},
			Cadence: recurring.Cadence{
				Kind:           recurring.CadenceMonthly,
				Period:         1,
				FinalDate:      mo.Some(calendar.MustNew(2025, time.December, 31)),
				MaxOccurrences: mo.Some(12),
			},
		},
		Progress: recurring.Progress{
			LastOccurrence: mo.Some(pending),
			Count:          1,
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func newFiring(reminderID string, occurrence calendar.Date) *domain.Firing {
	return &domain.Firing{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ReminderID:     reminderID,
		OccurrenceDate: occurrence,
		FiredAt:        created.Add(time.Hour),
	}
}

// RunRepositoryComplianceTest runs a standard set of tests against a reminder.Repository.
// setup returns a fresh (empty) repository and a teardown func.
func RunRepositoryComplianceTest(t *testing.T, setup func() (reminder.Repository, func())) {
	t.Run("CreateAndFind", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Team sync", day(8), created)
		stored, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Version)

		found, err := repo.FindReminderByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, found.ID)
		assert.Equal(t, "Team sync", found.Title)
		assert.Equal(t, r.Rule, found.Rule)
		assert.Equal(t, r.Progress, found.Progress)
		assert.True(t, created.Equal(found.CreatedAt))
		assert.Equal(t, time.UTC, found.CreatedAt.Location())
		assert.Equal(t, 1, found.Version)
	})

	t.Run("FindMissing", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()

		_, err := repo.FindReminderByID(context.Background(), uuid.Must(uuid.NewV7()).String())
		assert.ErrorIs(t, err, domain.ErrReminderNotFound)
	})

	t.Run("DoneProgressWithoutOccurrence", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Expired", day(1), created)
		r.Progress = recurring.Progress{Count: 1, Done: true}
		_, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)

		found, err := repo.FindReminderByID(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, found.Progress.LastOccurrence.IsAbsent())
		assert.True(t, found.Progress.Done)
	})

	t.Run("UpdateBumpsVersion", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Team sync", day(8), created)
		stored, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)

		stored.Title = "Standup"
		stored.Progress = recurring.Progress{LastOccurrence: mo.Some(calendar.MustNew(2024, time.June, 12)), Count: 2}
		stored.UpdatedAt = created.Add(24 * time.Hour)

		updated, err := repo.UpdateReminder(ctx, stored)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "Standup", updated.Title)
		assert.Equal(t, stored.Progress, updated.Progress)
		assert.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
	})

	t.Run("UpdateStaleVersion", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		stored, err := repo.CreateReminder(ctx, newReminder("Team sync", day(8), created))
		require.NoError(t, err)

		first := *stored
		_, err = repo.UpdateReminder(ctx, &first)
		require.NoError(t, err)

		second := *stored
		_, err = repo.UpdateReminder(ctx, &second)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("ConcurrentUpdatesOneWins", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		stored, err := repo.CreateReminder(ctx, newReminder("Team sync", day(8), created))
		require.NoError(t, err)

		const writers = 8
		errs := make(chan error, writers)
		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r := *stored
				r.Title = fmt.Sprintf("writer %d", i)
				_, err := repo.UpdateReminder(ctx, &r)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		wins := 0
		for err := range errs {
			if err == nil {
				wins++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrVersionConflict)
		}
		assert.Equal(t, 1, wins)

		found, err := repo.FindReminderByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()

		r := newReminder("Ghost", day(8), created)
		r.Version = 1
		_, err := repo.UpdateReminder(context.Background(), r)
		assert.ErrorIs(t, err, domain.ErrReminderNotFound)
	})

	t.Run("DeleteRemovesFirings", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Team sync", day(8), created)
		_, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)
		require.NoError(t, repo.RecordFiring(ctx, newFiring(r.ID, day(8))))

		require.NoError(t, repo.DeleteReminder(ctx, r.ID))

		_, err = repo.FindReminderByID(ctx, r.ID)
		assert.ErrorIs(t, err, domain.ErrReminderNotFound)
		firings, err := repo.ListFirings(ctx, r.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, firings)

		assert.ErrorIs(t, repo.DeleteReminder(ctx, r.ID), domain.ErrReminderNotFound)
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		var ids []string
		for i := range 5 {
			r := newReminder("r", day(8), created.Add(time.Duration(i)*time.Minute))
			_, err := repo.CreateReminder(ctx, r)
			require.NoError(t, err)
			ids = append(ids, r.ID)
		}
		slices.Reverse(ids)

		page, err := repo.ListReminders(ctx, domain.ListRemindersParams{Limit: 2, Offset: 0})
		require.NoError(t, err)
		assert.Equal(t, 5, page.TotalCount)
		assert.True(t, page.HasMore)
		require.Len(t, page.Reminders, 2)
		assert.Equal(t, ids[0], page.Reminders[0].ID)
		assert.Equal(t, ids[1], page.Reminders[1].ID)

		last, err := repo.ListReminders(ctx, domain.ListRemindersParams{Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.False(t, last.HasMore)
		require.Len(t, last.Reminders, 1)
		assert.Equal(t, ids[4], last.Reminders[0].ID)

		beyond, err := repo.ListReminders(ctx, domain.ListRemindersParams{Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, beyond.Reminders)
		assert.Equal(t, 5, beyond.TotalCount)
		assert.False(t, beyond.HasMore)
	})

	t.Run("FindDueReminders", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		overdue := newReminder("overdue", day(10), created)
		today := newReminder("today", day(16), created)
		future := newReminder("future", day(17), created)
		done := newReminder("done", day(1), created)
		done.Progress.Done = true
		for _, r := range []*domain.Reminder{overdue, today, future, done} {
			_, err := repo.CreateReminder(ctx, r)
			require.NoError(t, err)
		}

		due, err := repo.FindDueReminders(ctx, domain.DueParams{Today: day(16), Limit: 10})
		require.NoError(t, err)

		var got []string
		for _, r := range due {
			got = append(got, r.ID)
		}
		want := []string{overdue.ID, today.ID}
		slices.Sort(want)
		assert.Equal(t, want, got, "due reminders in id order")

		page, err := repo.FindDueReminders(ctx, domain.DueParams{Today: day(16), Limit: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, want[0], page[0].ID)

		next, err := repo.FindDueReminders(ctx, domain.DueParams{Today: day(16), AfterID: page[0].ID, Limit: 1})
		require.NoError(t, err)
		require.Len(t, next, 1)
		assert.Equal(t, want[1], next[0].ID)

		rest, err := repo.FindDueReminders(ctx, domain.DueParams{Today: day(16), AfterID: next[0].ID, Limit: 1})
		require.NoError(t, err)
		assert.Empty(t, rest)
	})

	t.Run("RecordFiringIsIdempotent", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Team sync", day(8), created)
		_, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)

		require.NoError(t, repo.RecordFiring(ctx, newFiring(r.ID, day(8))))
		require.NoError(t, repo.RecordFiring(ctx, newFiring(r.ID, day(8))))
		require.NoError(t, repo.RecordFiring(ctx, newFiring(r.ID, day(9))))
		require.NoError(t, repo.RecordFiring(ctx, newFiring(r.ID, day(10))))

		firings, err := repo.ListFirings(ctx, r.ID, 10)
		require.NoError(t, err)
		require.Len(t, firings, 3)
		assert.Equal(t, day(10), firings[0].OccurrenceDate)
		assert.Equal(t, day(9), firings[1].OccurrenceDate)
		assert.Equal(t, day(8), firings[2].OccurrenceDate)
		assert.Equal(t, r.ID, firings[0].ReminderID)
		assert.True(t, created.Add(time.Hour).Equal(firings[0].FiredAt))

		limited, err := repo.ListFirings(ctx, r.ID, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("AtomicRollsBack", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Team sync", day(8), created)
		stored, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = repo.Atomic(ctx, func(tx reminder.Repository) error {
			if err := tx.RecordFiring(ctx, newFiring(r.ID, day(8))); err != nil {
				return err
			}
			next := *stored
			next.Progress.Count = 2
			if _, err := tx.UpdateReminder(ctx, &next); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		found, err := repo.FindReminderByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Version)
		assert.Equal(t, 1, found.Progress.Count)

		firings, err := repo.ListFirings(ctx, r.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, firings)
	})

	t.Run("AtomicCommits", func(t *testing.T) {
		repo, teardown := setup()
		defer teardown()
		ctx := context.Background()

		r := newReminder("Team sync", day(8), created)
		_, err := repo.CreateReminder(ctx, r)
		require.NoError(t, err)

		err = repo.Atomic(ctx, func(tx reminder.Repository) error {
			return tx.RecordFiring(ctx, newFiring(r.ID, day(8)))
		})
		require.NoError(t, err)

		firings, err := repo.ListFirings(ctx, r.ID, 10)
		require.NoError(t, err)
		assert.Len(t, firings, 1)
	})
}
