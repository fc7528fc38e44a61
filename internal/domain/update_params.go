package domain

import (
	"fmt"

	"github.com/rezkam/cadence/internal/calendar"
)

// Field names for Reminder update masks.
const (
	FieldTitle     = "title"
	FieldRule      = "rule"
	FieldStartDate = "start_date"
)

var updateReminderValidFields = map[string]struct{}{
	FieldTitle:     {},
	FieldRule:      {},
	FieldStartDate: {},
}

// UpdateReminderParams contains parameters for updating a reminder with field mask support.
// Uses client-side optimistic concurrency control via etag (AIP-154).
type UpdateReminderParams struct {
	ReminderID string

	// Etag for optimistic concurrency control.
	// Format: numeric string, e.g., "1", "2".
	// If provided and doesn't match current version, returns ErrVersionConflict.
	Etag *string

	// UpdateMask specifies which fields to update.
	// Only fields in this list will be modified.
	UpdateMask []string

	// Field values (only applied if field is in UpdateMask).
	// Changing the rule or start date restarts progress.
	Title     *string
	Rule      *RuleRecord
	StartDate *calendar.Date
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateReminderParams) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	maskSet := make(map[string]bool, len(p.UpdateMask))
	for _, field := range p.UpdateMask {
		if _, ok := updateReminderValidFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		maskSet[field] = true
	}

	if maskSet[FieldTitle] && p.Title == nil {
		return ErrTitleRequired
	}
	if maskSet[FieldRule] && p.Rule == nil {
		return ErrRuleRequired
	}
	if maskSet[FieldStartDate] && p.StartDate == nil {
		return fmt.Errorf("%w: start_date", ErrInvalidDate)
	}
	return nil
}

// Has reports whether field is in the update mask.
func (p UpdateReminderParams) Has(field string) bool {
	for _, f := range p.UpdateMask {
		if f == field {
			return true
		}
	}
	return false
}

// RestartsSchedule reports whether the update changes when the reminder fires.
func (p UpdateReminderParams) RestartsSchedule() bool {
	return p.Has(FieldRule) || p.Has(FieldStartDate)
}
