package handler

import (
	"time"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
)

// ReminderDTO is the JSON form of a reminder.
type ReminderDTO struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Rule           domain.RuleRecord     `json:"rule"`
	Progress       domain.ProgressRecord `json:"progress"`
	NextOccurrence *string               `json:"next_occurrence"`
	Etag           string                `json:"etag"`
	CreateTime     time.Time             `json:"create_time"`
	UpdateTime     time.Time             `json:"update_time"`
}

// FiringDTO is the JSON form of a firing.
type FiringDTO struct {
	ID             string    `json:"id"`
	OccurrenceDate string    `json:"occurrence_date"`
	FireTime       time.Time `json:"fire_time"`
}

// CreateReminderRequest is the body of POST /v1/reminders.
type CreateReminderRequest struct {
	Title     string             `json:"title"`
	Rule      *domain.RuleRecord `json:"rule"`
	StartDate string             `json:"start_date,omitempty"`
	Repair    bool               `json:"repair,omitempty"`
}

// UpdateReminderRequest is the body of PATCH /v1/reminders/{id}.
type UpdateReminderRequest struct {
	Reminder   ReminderPatch `json:"reminder"`
	UpdateMask []string      `json:"update_mask"`
}

// ReminderPatch carries the fields named in an update mask.
type ReminderPatch struct {
	Title     *string            `json:"title,omitempty"`
	Rule      *domain.RuleRecord `json:"rule,omitempty"`
	StartDate *string            `json:"start_date,omitempty"`
	Etag      *string            `json:"etag,omitempty"`
}

// RuleRequest is the body of the rule tooling endpoints.
type RuleRequest struct {
	Rule          *domain.RuleRecord `json:"rule"`
	ReferenceDate string             `json:"reference_date,omitempty"`
	Count         int                `json:"count,omitempty"`
}

func mapReminderToDTO(r *domain.Reminder) ReminderDTO {
	dto := ReminderDTO{
		ID:         r.ID,
		Title:      r.Title,
		Rule:       domain.EncodeRule(r.Rule),
		Progress:   domain.EncodeProgress(r.Progress),
		Etag:       r.Etag(),
		CreateTime: r.CreatedAt,
		UpdateTime: r.UpdatedAt,
	}
	if next, ok := r.Pending().Get(); ok {
		s := next.String()
		dto.NextOccurrence = &s
	}
	return dto
}

func mapFiringToDTO(f *domain.Firing) FiringDTO {
	return FiringDTO{
		ID:             f.ID,
		OccurrenceDate: f.OccurrenceDate.String(),
		FireTime:       f.FiredAt,
	}
}

func datesToStrings(dates []calendar.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}
