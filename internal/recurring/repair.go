package recurring

import (
	"math"

	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
)

// Repair returns a copy of r that passes Validate. Every missing or invalid
// field is replaced with a value derived from ref, so a bare pattern kind
// becomes a rule anchored on ref. Fields the kind does not use are dropped.
func Repair(r Rule, ref calendar.Date) Rule {
	if !r.Pattern.Kind.Valid() {
		return Rule{
			Pattern: Pattern{Kind: OnDate, Date: mo.Some(ref)},
			Cadence: NoRepeat(),
		}
	}

	return Rule{
		Pattern: repairPattern(r.Pattern, ref),
		Cadence: repairCadence(r.Pattern.Kind, r.Cadence),
	}
}

func repairPattern(p Pattern, ref calendar.Date) Pattern {
	t := p.Kind.traits()
	out := Pattern{Kind: p.Kind}

	if t.hasWeekday {
		out.Weekday = p.Weekday
		if wd, ok := p.Weekday.Get(); !ok || !validWeekday(wd) {
			out.Weekday = mo.Some(ref.Weekday())
		}
	}
	if t.hasMonth {
		out.Month = p.Month
		if m, ok := p.Month.Get(); !ok || !validMonth(m) {
			out.Month = mo.Some(ref.Month())
		}
	}
	if t.hasDate {
		out.Date = p.Date
		if d, ok := p.Date.Get(); !ok || d.IsZero() {
			out.Date = mo.Some(ref)
		}
	}
	if t.hasOffset {
		out.Offset = p.Offset
		if o, ok := p.Offset.Get(); !ok || o < 0 || o > t.maxOffset {
			out.Offset = mo.Some(min(max(defaultOffset(p.Kind, ref), 0), t.maxOffset))
		}
	}
	return out
}

// defaultOffset is the offset that makes kind resolve near ref. The month
// weekday forms round the week ordinal; the year weekday forms floor it.
func defaultOffset(kind PatternKind, ref calendar.Date) int {
	day := ref.Day()
	last := ref.DaysInMonth()
	yday := ref.YearDay()
	daysInYear := calendar.DaysInYear(ref.Year())

	switch kind {
	case DayOfMonth, DayOfSpecificMonth:
		return day - 1
	case DayEndOfMonth, DayEndOfSpecificMonth:
		return last - day
	case DowOfMonth, DowOfSpecificMonth:
		return roundDiv(day-1, 7)
	case DowEndOfMonth, DowEndOfSpecificMonth:
		return roundDiv(last-day, 7)
	case DayOfYear:
		return yday - 1
	case DayEndOfYear:
		return daysInYear - yday
	case DowOfYear:
		return (yday - 1) / 7
	case DowEndOfYear:
		return (daysInYear - yday) / 7
	default:
		return 0
	}
}

func roundDiv(a, b int) int {
	return int(math.Round(float64(a) / float64(b)))
}

func repairCadence(kind PatternKind, c Cadence) Cadence {
	if !c.Kind.Valid() || !kind.AllowsCadence(c.Kind) || !c.Repeats() {
		return NoRepeat()
	}

	out := c
	if out.Period < 1 {
		out.Period = 1
	}
	if final, ok := c.FinalDate.Get(); ok && final.IsZero() {
		out.FinalDate = mo.None[calendar.Date]()
	}
	if limit, ok := c.MaxOccurrences.Get(); ok && limit < 0 {
		out.MaxOccurrences = mo.None[int]()
	}
	return out
}
