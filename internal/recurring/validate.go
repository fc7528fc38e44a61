package recurring

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRule is wrapped by every ValidationError.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// Stable machine-readable validation codes.
const (
	CodeOffsetRange           = "offset_invalid_min_max"
	CodeDayOfWeekInvalid      = "dayOfWeek_invalid"
	CodeMonthInvalid          = "month_invalid"
	CodeStartDateRequired     = "startDate_required"
	CodeInvalidPatternKind    = "invalidOccurrenceType"
	CodeInvalidCadenceKind    = "invalidRepeatType"
	CodePeriodRequired        = "period_required"
	CodePeriodInvalid         = "period_invalid"
	CodeFinalDateInvalid      = "finalDate_invalid"
	CodeMaxOccurrencesInvalid = "maxOccurrences_invalid"
)

// ValidationError reports the first problem found in a rule.
// Min and Max are set for range errors.
type ValidationError struct {
	Code  string
	Field string
	Min   int
	Max   int
}

func (e *ValidationError) Error() string {
	if e.Code == CodeOffsetRange {
		return fmt.Sprintf("%s: %s must be between %d and %d", e.Code, e.Field, e.Min, e.Max)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRule
}

// Validate checks r's fields against its pattern kind and cadence.
// It returns nil or a *ValidationError.
func Validate(r Rule) error {
	if err := validatePattern(r.Pattern); err != nil {
		return err
	}
	return validateCadence(r.Pattern.Kind, r.Cadence)
}

func validatePattern(p Pattern) error {
	if !p.Kind.Valid() {
		return &ValidationError{Code: CodeInvalidPatternKind, Field: "type"}
	}
	t := p.Kind.traits()

	if t.hasOffset {
		offset, ok := p.Offset.Get()
		if !ok || offset < 0 || offset > t.maxOffset {
			return &ValidationError{Code: CodeOffsetRange, Field: "offset", Min: 0, Max: t.maxOffset}
		}
	}
	if t.hasWeekday {
		wd, ok := p.Weekday.Get()
		if !ok || !validWeekday(wd) {
			return &ValidationError{Code: CodeDayOfWeekInvalid, Field: "day_of_week"}
		}
	}
	if t.hasMonth {
		m, ok := p.Month.Get()
		if !ok || !validMonth(m) {
			return &ValidationError{Code: CodeMonthInvalid, Field: "month"}
		}
	}
	if t.hasDate {
		d, ok := p.Date.Get()
		if !ok || d.IsZero() {
			return &ValidationError{Code: CodeStartDateRequired, Field: "start_date"}
		}
	}
	return nil
}

func validateCadence(kind PatternKind, c Cadence) error {
	if !c.Kind.Valid() || !kind.AllowsCadence(c.Kind) {
		return &ValidationError{Code: CodeInvalidCadenceKind, Field: "repeat.type"}
	}
	if !c.Repeats() {
		return nil
	}

	switch {
	case c.Period == 0:
		return &ValidationError{Code: CodePeriodRequired, Field: "repeat.period"}
	case c.Period < 0:
		return &ValidationError{Code: CodePeriodInvalid, Field: "repeat.period"}
	}
	if final, ok := c.FinalDate.Get(); ok && final.IsZero() {
		return &ValidationError{Code: CodeFinalDateInvalid, Field: "repeat.final_date"}
	}
	if limit, ok := c.MaxOccurrences.Get(); ok && limit < 0 {
		return &ValidationError{Code: CodeMaxOccurrencesInvalid, Field: "repeat.max_occurrences"}
	}
	return nil
}

func validWeekday(wd time.Weekday) bool {
	return wd >= time.Sunday && wd <= time.Saturday
}

func validMonth(m time.Month) bool {
	return m >= time.January && m <= time.December
}
