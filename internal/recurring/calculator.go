package recurring

import (
	"fmt"

	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
)

// CadenceKind is the unit a rule repeats by.
type CadenceKind int

const (
	CadenceNone CadenceKind = iota
	CadenceDaily
	CadenceWeekly
	CadenceMonthly
	CadenceYearly
)

func (c CadenceKind) String() string {
	switch c {
	case CadenceNone:
		return "None"
	case CadenceDaily:
		return "Daily"
	case CadenceWeekly:
		return "Weekly"
	case CadenceMonthly:
		return "Monthly"
	case CadenceYearly:
		return "Yearly"
	default:
		return fmt.Sprintf("CadenceKind(%d)", int(c))
	}
}

// Valid reports whether c is one of the declared cadence kinds.
func (c CadenceKind) Valid() bool {
	return c >= CadenceNone && c <= CadenceYearly
}

// Cadence describes how often a rule repeats and when it stops.
type Cadence struct {
	Kind   CadenceKind
	Period int

	// FinalDate is inclusive: an occurrence on it is still produced.
	FinalDate mo.Option[calendar.Date]

	// MaxOccurrences caps how many occurrences are produced in total.
	MaxOccurrences mo.Option[int]
}

// NoRepeat is a cadence that produces a single occurrence.
func NoRepeat() Cadence {
	return Cadence{Kind: CadenceNone, Period: 1}
}

// Repeats reports whether c produces more than one occurrence.
func (c Cadence) Repeats() bool {
	return c.Kind != CadenceNone
}

// Step advances d by period*k units of the cadence. Months and years clip the
// day into the destination month. A non-repeating cadence has no step.
func (c Cadence) Step(d calendar.Date, k int) mo.Option[calendar.Date] {
	n := max(c.Period, 1) * k

	switch c.Kind {
	case CadenceNone:
		return mo.None[calendar.Date]()
	case CadenceDaily:
		return mo.Some(d.AddDays(n))
	case CadenceWeekly:
		return mo.Some(d.AddDays(7 * n))
	case CadenceMonthly:
		return mo.Some(d.AddMonths(n))
	case CadenceYearly:
		return mo.Some(d.AddYears(n))
	default:
		panic(fmt.Sprintf("recurring: unhandled cadence kind %v", c.Kind))
	}
}

// exhausted reports whether count occurrences already meet the cap.
func (c Cadence) exhausted(count int) bool {
	limit, ok := c.MaxOccurrences.Get()
	return ok && count >= limit
}

// pastFinal reports whether d falls after the final date.
func (c Cadence) pastFinal(d calendar.Date) bool {
	final, ok := c.FinalDate.Get()
	return ok && d.After(final)
}
