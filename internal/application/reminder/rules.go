package reminder

import (
	"fmt"

	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurring"
)

// ValidateRule reports the first problem with rec, or nil.
func ValidateRule(rec domain.RuleRecord) error {
	_, err := rec.Decode()
	return err
}

// RepairRule returns the nearest valid rule to rec. Missing fields are
// derived from ref.
func RepairRule(rec domain.RuleRecord, ref calendar.Date) domain.RuleRecord {
	return domain.EncodeRule(recurring.Repair(rec.DecodeLenient(), ref))
}

// NextOccurrence validates rec and returns the occurrence following ref after
// count earlier occurrences.
func NextOccurrence(rec domain.RuleRecord, ref calendar.Date, count int) (mo.Option[calendar.Date], error) {
	if count < 0 {
		return mo.None[calendar.Date](), fmt.Errorf("%w: negative occurrence_count", domain.ErrInvalidProgress)
	}

	rule, err := rec.Decode()
	if err != nil {
		return mo.None[calendar.Date](), err
	}
	return rule.NextOccurrence(ref, count), nil
}

// PreviewRule validates rec and lists its first n occurrences on or after from.
func PreviewRule(rec domain.RuleRecord, from calendar.Date, n int) ([]calendar.Date, error) {
	rule, err := rec.Decode()
	if err != nil {
		return nil, err
	}
	return Upcoming(rule, recurring.Seed(from), from, n), nil
}
