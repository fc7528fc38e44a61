package reminder

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
)

// memRepo is an in-memory Repository used by service tests.
// Hooks let a test inject failures into individual calls.
type memRepo struct {
	mu        sync.Mutex
	reminders map[string]domain.Reminder
	firings   []*domain.Firing

	capturedListParams domain.ListRemindersParams
	findDueCalls       int

	beforeUpdate func(r *domain.Reminder) error
	beforeFiring func(f *domain.Firing) error
}

func newMemRepo() *memRepo {
	return &memRepo{reminders: make(map[string]domain.Reminder)}
}

func (m *memRepo) CreateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *r
	stored.Version = 1
	m.reminders[r.ID] = stored
	return &stored, nil
}

func (m *memRepo) FindReminderByID(ctx context.Context, id string) (*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reminders[id]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	return &r, nil
}

func (m *memRepo) ListReminders(ctx context.Context, params domain.ListRemindersParams) (*domain.PagedReminders, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.capturedListParams = params
	all := m.sorted(func(a, b domain.Reminder) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	start := min(params.Offset, len(all))
	end := min(start+params.Limit, len(all))
	page := make([]*domain.Reminder, 0, end-start)
	for i := start; i < end; i++ {
		page = append(page, &all[i])
	}
	return &domain.PagedReminders{
		Reminders:  page,
		TotalCount: len(all),
		HasMore:    end < len(all),
	}, nil
}

func (m *memRepo) UpdateReminder(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	if m.beforeUpdate != nil {
		if err := m.beforeUpdate(r); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.reminders[r.ID]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	if current.Version != r.Version {
		return nil, domain.ErrVersionConflict
	}

	stored := *r
	stored.Version = current.Version + 1
	m.reminders[r.ID] = stored
	return &stored, nil
}

func (m *memRepo) DeleteReminder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reminders[id]; !ok {
		return domain.ErrReminderNotFound
	}
	delete(m.reminders, id)
	m.firings = slices.DeleteFunc(m.firings, func(f *domain.Firing) bool { return f.ReminderID == id })
	return nil
}

func (m *memRepo) FindDueReminders(ctx context.Context, params domain.DueParams) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findDueCalls++
	var due []*domain.Reminder
	for _, r := range m.sorted(func(a, b domain.Reminder) int { return cmp.Compare(a.ID, b.ID) }) {
		if r.ID <= params.AfterID || !r.DueOn(params.Today) {
			continue
		}
		due = append(due, &r)
		if len(due) == params.Limit {
			break
		}
	}
	return due, nil
}

func (m *memRepo) RecordFiring(ctx context.Context, f *domain.Firing) error {
	if m.beforeFiring != nil {
		if err := m.beforeFiring(f); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.firings {
		if existing.ReminderID == f.ReminderID && existing.OccurrenceDate == f.OccurrenceDate {
			return nil
		}
	}
	m.firings = append(m.firings, f)
	return nil
}

func (m *memRepo) ListFirings(ctx context.Context, reminderID string, limit int) ([]*domain.Firing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Firing
	for i := len(m.firings) - 1; i >= 0 && len(out) < limit; i-- {
		if m.firings[i].ReminderID == reminderID {
			out = append(out, m.firings[i])
		}
	}
	return out, nil
}

func (m *memRepo) Atomic(ctx context.Context, fn func(tx Repository) error) error {
	return fn(m)
}

func (m *memRepo) sorted(cmpFn func(a, b domain.Reminder) int) []domain.Reminder {
	all := make([]domain.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		all = append(all, r)
	}
	slices.SortFunc(all, cmpFn)
	return all
}

func (m *memRepo) firedDates(reminderID string) []calendar.Date {
	m.mu.Lock()
	defer m.mu.Unlock()

	var dates []calendar.Date
	for _, f := range m.firings {
		if f.ReminderID == reminderID {
			dates = append(dates, f.OccurrenceDate)
		}
	}
	return dates
}

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 30, 0, 0, time.UTC) }
}

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.MustNew(y, m, d)
}
