package reminder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurring"
)

// Default configuration values.
const (
	DefaultPageSize     = 25
	MaxPageSize         = 100
	DefaultPreviewCount = 10
	MaxPreviewCount     = 50
	DefaultMaxCatchUp   = 31
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int

	// MaxPreview caps how many upcoming dates PreviewReminder returns.
	MaxPreview int

	// MaxCatchUp caps how many overdue occurrences one reminder fires per pass.
	MaxCatchUp int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// CreateReminderInput describes a new reminder.
type CreateReminderInput struct {
	Title string
	Rule  domain.RuleRecord

	// StartDate is where the schedule begins. Defaults to today.
	StartDate *calendar.Date

	// Repair fixes an invalid rule instead of rejecting it.
	Repair bool
}

// Service provides business logic for reminders.
// It orchestrates operations using the Repository interface.
type Service struct {
	repo   Repository
	config Config
}

// NewService creates a new reminder service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	if config.MaxPreview <= 0 {
		config.MaxPreview = MaxPreviewCount
	}
	if config.MaxCatchUp <= 0 {
		config.MaxCatchUp = DefaultMaxCatchUp
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Service{
		repo:   repo,
		config: config,
	}
}

// Now returns the service clock in UTC.
func (s *Service) Now() time.Time {
	return s.config.Now().UTC()
}

func (s *Service) today() calendar.Date {
	return calendar.FromTime(s.Now())
}

// CreateReminder creates a reminder whose progress already holds its first occurrence.
func (s *Service) CreateReminder(ctx context.Context, in CreateReminderInput) (*domain.Reminder, error) {
	title, err := domain.NewTitle(in.Title)
	if err != nil {
		return nil, err // Returns domain error (ErrTitleRequired or ErrTitleTooLong)
	}

	today := s.today()
	start := today
	if in.StartDate != nil {
		start = *in.StartDate
	}

	var rule recurring.Rule
	if in.Repair {
		rule = recurring.Repair(in.Rule.DecodeLenient(), start)
	} else {
		rule, err = in.Rule.Decode()
		if err != nil {
			return nil, err
		}
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.config.Now().UTC()
	r := &domain.Reminder{
		ID:        idObj.String(),
		Title:     title.String(),
		Rule:      rule,
		Progress:  rule.Advance(recurring.Seed(start), today),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Return the persisted entity from repository (includes version from persistence layer)
	created, err := s.repo.CreateReminder(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return created, nil
}

// GetReminder retrieves a reminder by ID.
func (s *Service) GetReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	if id == "" {
		return nil, domain.ErrReminderNotFound
	}

	r, err := s.repo.FindReminderByID(ctx, id)
	if err != nil {
		return nil, err // Repository returns domain errors
	}

	return r, nil
}

// ListReminders retrieves reminders newest first with pagination.
func (s *Service) ListReminders(ctx context.Context, params domain.ListRemindersParams) (*domain.PagedReminders, error) {
	// Reject negative offsets to prevent database errors
	if params.Offset < 0 {
		params.Offset = 0
	}

	params.Limit = s.pageSize(params.Limit)

	result, err := s.repo.ListReminders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	return result, nil
}

func (s *Service) pageSize(limit int) int {
	if limit <= 0 {
		return s.config.DefaultPageSize
	}
	return min(limit, s.config.MaxPageSize)
}

// UpdateReminder updates a reminder using field mask and optional etag for OCC.
// Changing the rule or the start date restarts the schedule from the start
// date, or from today when only the rule changes.
// If etag is provided and doesn't match, returns domain.ErrVersionConflict.
func (s *Service) UpdateReminder(ctx context.Context, params domain.UpdateReminderParams) (*domain.Reminder, error) {
	if params.ReminderID == "" {
		return nil, domain.ErrReminderNotFound
	}

	expected := 0
	if params.Etag != nil {
		version, err := strconv.Atoi(*params.Etag)
		if err != nil || version < 1 {
			return nil, domain.ErrInvalidEtagFormat
		}
		expected = version
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	var title domain.Title
	if params.Has(domain.FieldTitle) {
		t, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		title = t
	}

	var rule recurring.Rule
	if params.Has(domain.FieldRule) {
		r, err := params.Rule.Decode()
		if err != nil {
			return nil, err
		}
		rule = r
	}

	var updated *domain.Reminder
	err := s.repo.Atomic(ctx, func(tx Repository) error {
		existing, err := tx.FindReminderByID(ctx, params.ReminderID)
		if err != nil {
			return err
		}
		if expected != 0 && existing.Version != expected {
			return domain.ErrVersionConflict
		}

		next := *existing
		if params.Has(domain.FieldTitle) {
			next.Title = title.String()
		}
		if params.Has(domain.FieldRule) {
			next.Rule = rule
		}
		if params.RestartsSchedule() {
			today := s.today()
			start := today
			if params.StartDate != nil {
				start = *params.StartDate
			}
			next.Progress = next.Rule.Advance(recurring.Seed(start), today)
		}
		next.UpdatedAt = s.config.Now().UTC()

		updated, err = tx.UpdateReminder(ctx, &next)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteReminder deletes a reminder and its firing history.
func (s *Service) DeleteReminder(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrReminderNotFound
	}
	return s.repo.DeleteReminder(ctx, id)
}

// AdvanceReminder skips the pending occurrence without recording a firing.
// A finished reminder is returned unchanged.
func (s *Service) AdvanceReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	r, err := s.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Progress.Done {
		return r, nil
	}

	r.Progress = r.Rule.Advance(r.Progress, s.today())
	r.UpdatedAt = s.config.Now().UTC()

	return s.repo.UpdateReminder(ctx, r)
}

// PreviewReminder returns up to n upcoming occurrences of a reminder,
// starting with the pending one. Nothing is persisted.
func (s *Service) PreviewReminder(ctx context.Context, id string, n int) ([]calendar.Date, error) {
	r, err := s.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	return Upcoming(r.Rule, r.Progress, s.today(), s.previewCount(n)), nil
}

func (s *Service) previewCount(n int) int {
	if n <= 0 {
		return min(DefaultPreviewCount, s.config.MaxPreview)
	}
	return min(n, s.config.MaxPreview)
}

// ListFirings returns the firing history of a reminder, newest first.
func (s *Service) ListFirings(ctx context.Context, id string, limit int) ([]*domain.Firing, error) {
	if _, err := s.GetReminder(ctx, id); err != nil {
		return nil, err
	}

	firings, err := s.repo.ListFirings(ctx, id, s.pageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list firings: %w", err)
	}
	return firings, nil
}
