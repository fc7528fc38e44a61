package domain

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/ptr"
	"github.com/rezkam/cadence/internal/recurring"
)

// RuleRecord is the persisted and transported form of a recurrence rule.
// Enum values are string tags, months are 0..11 and dates are YYYY-MM-DD.
// Nil fields are absent.
type RuleRecord struct {
	Type      PatternTag    `json:"type" yaml:"type"`
	Offset    *int          `json:"offset,omitempty" yaml:"offset,omitempty"`
	DayOfWeek *int          `json:"day_of_week,omitempty" yaml:"day_of_week,omitempty"`
	Month     *int          `json:"month,omitempty" yaml:"month,omitempty"`
	StartDate string        `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	Repeat    *RepeatRecord `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// RepeatRecord is the persisted form of a cadence.
type RepeatRecord struct {
	Type           RepeatTag `json:"type" yaml:"type"`
	Period         *int      `json:"period,omitempty" yaml:"period,omitempty"`
	FinalDate      string    `json:"final_date,omitempty" yaml:"final_date,omitempty"`
	MaxOccurrences *int      `json:"max_occurrences,omitempty" yaml:"max_occurrences,omitempty"`
}

// ProgressRecord is the persisted form of recurring.Progress.
type ProgressRecord struct {
	LastOccurrenceDate string `json:"last_occurrence_date,omitempty" yaml:"last_occurrence_date,omitempty"`
	OccurrenceCount    int    `json:"occurrence_count" yaml:"occurrence_count"`
	IsDone             bool   `json:"is_done" yaml:"is_done"`
}

// Decode converts rec into a rule and validates it. Unknown tags and
// unparseable dates are reported as *recurring.ValidationError with the
// matching code.
func (rec RuleRecord) Decode() (recurring.Rule, error) {
	kind, ok := rec.Type.Kind()
	if !ok {
		return recurring.Rule{}, &recurring.ValidationError{Code: recurring.CodeInvalidPatternKind, Field: "type"}
	}

	pattern := rec.pattern(kind)
	if rec.StartDate != "" {
		d, err := calendar.Parse(rec.StartDate)
		if err != nil {
			return recurring.Rule{}, &recurring.ValidationError{Code: recurring.CodeStartDateRequired, Field: "start_date"}
		}
		pattern.Date = mo.Some(d)
	}

	cadence := recurring.NoRepeat()
	if rec.Repeat != nil {
		ck, ok := rec.Repeat.Type.Kind()
		if !ok {
			return recurring.Rule{}, &recurring.ValidationError{Code: recurring.CodeInvalidCadenceKind, Field: "repeat.type"}
		}
		cadence = rec.Repeat.cadence(ck)
		if rec.Repeat.FinalDate != "" {
			d, err := calendar.Parse(rec.Repeat.FinalDate)
			if err != nil {
				return recurring.Rule{}, &recurring.ValidationError{Code: recurring.CodeFinalDateInvalid, Field: "repeat.final_date"}
			}
			cadence.FinalDate = mo.Some(d)
		}
	}

	rule := recurring.Rule{Pattern: pattern, Cadence: cadence}
	if err := recurring.Validate(rule); err != nil {
		return recurring.Rule{}, err
	}
	return rule, nil
}

// DecodeLenient converts rec into a rule without validating, dropping
// anything it cannot interpret. Pass the result to recurring.Repair.
func (rec RuleRecord) DecodeLenient() recurring.Rule {
	kind, ok := rec.Type.Kind()
	if !ok {
		kind = recurring.PatternUnspecified
	}

	pattern := rec.pattern(kind)
	if d, err := calendar.Parse(rec.StartDate); err == nil {
		pattern.Date = mo.Some(d)
	}

	cadence := recurring.NoRepeat()
	if rec.Repeat != nil {
		if ck, ok := rec.Repeat.Type.Kind(); ok {
			cadence = rec.Repeat.cadence(ck)
			if d, err := calendar.Parse(rec.Repeat.FinalDate); err == nil {
				cadence.FinalDate = mo.Some(d)
			}
		}
	}

	return recurring.Rule{Pattern: pattern, Cadence: cadence}
}

func (rec RuleRecord) pattern(kind recurring.PatternKind) recurring.Pattern {
	p := recurring.Pattern{Kind: kind}
	if rec.Offset != nil {
		p.Offset = mo.Some(*rec.Offset)
	}
	if rec.DayOfWeek != nil {
		p.Weekday = mo.Some(time.Weekday(*rec.DayOfWeek))
	}
	if rec.Month != nil {
		p.Month = mo.Some(time.Month(*rec.Month + 1))
	}
	return p
}

func (rec RepeatRecord) cadence(kind recurring.CadenceKind) recurring.Cadence {
	c := recurring.Cadence{Kind: kind, Period: ptr.Deref(rec.Period, 0)}
	if rec.MaxOccurrences != nil {
		c.MaxOccurrences = mo.Some(*rec.MaxOccurrences)
	}
	return c
}

// EncodeRule converts a rule into its persisted form.
func EncodeRule(r recurring.Rule) RuleRecord {
	rec := RuleRecord{Type: PatternTagOf(r.Pattern.Kind)}

	if v, ok := r.Pattern.Offset.Get(); ok {
		rec.Offset = ptr.To(v)
	}
	if v, ok := r.Pattern.Weekday.Get(); ok {
		rec.DayOfWeek = ptr.To(int(v))
	}
	if v, ok := r.Pattern.Month.Get(); ok {
		rec.Month = ptr.To(int(v) - 1)
	}
	if v, ok := r.Pattern.Date.Get(); ok {
		rec.StartDate = v.String()
	}

	if r.Cadence.Repeats() {
		rep := &RepeatRecord{
			Type:   RepeatTagOf(r.Cadence.Kind),
			Period: ptr.To(r.Cadence.Period),
		}
		if v, ok := r.Cadence.FinalDate.Get(); ok {
			rep.FinalDate = v.String()
		}
		if v, ok := r.Cadence.MaxOccurrences.Get(); ok {
			rep.MaxOccurrences = ptr.To(v)
		}
		rec.Repeat = rep
	}
	return rec
}

// EncodeProgress converts progress into its persisted form.
func EncodeProgress(p recurring.Progress) ProgressRecord {
	rec := ProgressRecord{OccurrenceCount: p.Count, IsDone: p.Done}
	if v, ok := p.LastOccurrence.Get(); ok {
		rec.LastOccurrenceDate = v.String()
	}
	return rec
}

// Decode converts rec back into progress.
func (rec ProgressRecord) Decode() (recurring.Progress, error) {
	p := recurring.Progress{Count: rec.OccurrenceCount, Done: rec.IsDone}
	if rec.LastOccurrenceDate != "" {
		d, err := calendar.Parse(rec.LastOccurrenceDate)
		if err != nil {
			return recurring.Progress{}, fmt.Errorf("%w: last_occurrence_date %q", ErrInvalidProgress, rec.LastOccurrenceDate)
		}
		p.LastOccurrence = mo.Some(d)
	}
	if p.Count < 0 {
		return recurring.Progress{}, fmt.Errorf("%w: negative occurrence_count", ErrInvalidProgress)
	}
	return p, nil
}
