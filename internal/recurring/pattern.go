package recurring

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
)

// PatternKind selects which date within a period a rule resolves to.
type PatternKind int

const (
	PatternUnspecified PatternKind = iota

	// DayOfWeek: a weekday within the current week.
	DayOfWeek

	// Month window kinds.
	DayOfMonth
	DayEndOfMonth
	DowOfMonth
	DowEndOfMonth

	// Fixed-month kinds, resolved within the reference year.
	DayOfSpecificMonth
	DayEndOfSpecificMonth
	DowOfSpecificMonth
	DowEndOfSpecificMonth

	// Year window kinds.
	DayOfYear
	DayEndOfYear
	DowOfYear
	DowEndOfYear

	// OnDate: a fixed start date, optionally repeated from itself.
	OnDate
)

// PatternKinds lists every valid kind in declaration order.
var PatternKinds = []PatternKind{
	DayOfWeek,
	DayOfMonth, DayEndOfMonth, DowOfMonth, DowEndOfMonth,
	DayOfSpecificMonth, DayEndOfSpecificMonth, DowOfSpecificMonth, DowEndOfSpecificMonth,
	DayOfYear, DayEndOfYear, DowOfYear, DowEndOfYear,
	OnDate,
}

func (k PatternKind) String() string {
	switch k {
	case PatternUnspecified:
		return "Unspecified"
	case DayOfWeek:
		return "DayOfWeek"
	case DayOfMonth:
		return "DayOfMonth"
	case DayEndOfMonth:
		return "DayEndOfMonth"
	case DowOfMonth:
		return "DowOfMonth"
	case DowEndOfMonth:
		return "DowEndOfMonth"
	case DayOfSpecificMonth:
		return "DayOfSpecificMonth"
	case DayEndOfSpecificMonth:
		return "DayEndOfSpecificMonth"
	case DowOfSpecificMonth:
		return "DowOfSpecificMonth"
	case DowEndOfSpecificMonth:
		return "DowEndOfSpecificMonth"
	case DayOfYear:
		return "DayOfYear"
	case DayEndOfYear:
		return "DayEndOfYear"
	case DowOfYear:
		return "DowOfYear"
	case DowEndOfYear:
		return "DowEndOfYear"
	case OnDate:
		return "OnDate"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k PatternKind) Valid() bool {
	return k >= DayOfWeek && k <= OnDate
}

// guardUnit is how far the window moves when a non-repeating anchor lands before the reference.
type guardUnit int

const (
	guardWeek guardUnit = iota
	guardMonth
	guardYear
	guardNone
)

// traits describes the fields and cadences a kind accepts.
type traits struct {
	hasOffset  bool
	maxOffset  int
	hasWeekday bool
	hasMonth   bool
	hasDate    bool
	cadences   []CadenceKind
	guard      guardUnit
}

var (
	weeklyCadences  = []CadenceKind{CadenceNone, CadenceWeekly}
	monthlyCadences = []CadenceKind{CadenceNone, CadenceMonthly}
	yearlyCadences  = []CadenceKind{CadenceNone, CadenceYearly}
	allCadences     = []CadenceKind{CadenceNone, CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly}
)

// traits panics on an unknown kind: callers must validate first.
func (k PatternKind) traits() traits {
	switch k {
	case DayOfWeek:
		return traits{hasWeekday: true, cadences: weeklyCadences, guard: guardWeek}
	case DayOfMonth, DayEndOfMonth:
		return traits{hasOffset: true, maxOffset: 30, cadences: monthlyCadences, guard: guardMonth}
	case DowOfMonth, DowEndOfMonth:
		return traits{hasOffset: true, maxOffset: 4, hasWeekday: true, cadences: monthlyCadences, guard: guardMonth}
	case DayOfSpecificMonth, DayEndOfSpecificMonth:
		return traits{hasOffset: true, maxOffset: 30, hasMonth: true, cadences: yearlyCadences, guard: guardYear}
	case DowOfSpecificMonth, DowEndOfSpecificMonth:
		return traits{hasOffset: true, maxOffset: 4, hasWeekday: true, hasMonth: true, cadences: yearlyCadences, guard: guardYear}
	case DayOfYear, DayEndOfYear:
		return traits{hasOffset: true, maxOffset: 365, cadences: yearlyCadences, guard: guardYear}
	case DowOfYear, DowEndOfYear:
		return traits{hasOffset: true, maxOffset: 52, hasWeekday: true, cadences: yearlyCadences, guard: guardYear}
	case OnDate:
		return traits{hasDate: true, cadences: allCadences, guard: guardNone}
	default:
		panic(fmt.Sprintf("recurring: unhandled pattern kind %v", k))
	}
}

// OffsetRange returns the inclusive offset bounds of k and whether k uses an offset at all.
func (k PatternKind) OffsetRange() (lo, hi int, ok bool) {
	t := k.traits()
	return 0, t.maxOffset, t.hasOffset
}

// AllowsCadence reports whether a rule of kind k may repeat with cadence kind c.
func (k PatternKind) AllowsCadence(c CadenceKind) bool {
	for _, allowed := range k.traits().cadences {
		if allowed == c {
			return true
		}
	}
	return false
}

// Pattern is the "which date within the period" half of a rule.
// Only the fields meaningful for Kind are read; the rest are ignored.
type Pattern struct {
	Kind    PatternKind
	Offset  mo.Option[int]
	Weekday mo.Option[time.Weekday]
	Month   mo.Option[time.Month]
	Date    mo.Option[calendar.Date]
}
