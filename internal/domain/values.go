package domain

import (
	"strings"

	"github.com/rezkam/cadence/internal/recurring"
)

// PatternTag is the persisted name of a recurrence pattern kind.
// Value object - immutable string enum.
type PatternTag string

const (
	PatternDayOfWeek             PatternTag = "DAY_OF_WEEK"
	PatternDayOfMonth            PatternTag = "DAY_OF_MONTH"
	PatternDayEndOfMonth         PatternTag = "DAY_END_OF_MONTH"
	PatternDowOfMonth            PatternTag = "DOW_OF_MONTH"
	PatternDowEndOfMonth         PatternTag = "DOW_END_OF_MONTH"
	PatternDayOfSpecificMonth    PatternTag = "DAY_OF_SPECIFIC_MONTH"
	PatternDayEndOfSpecificMonth PatternTag = "DAY_END_OF_SPECIFIC_MONTH"
	PatternDowOfSpecificMonth    PatternTag = "DOW_OF_SPECIFIC_MONTH"
	PatternDowEndOfSpecificMonth PatternTag = "DOW_END_OF_SPECIFIC_MONTH"
	PatternDayOfYear             PatternTag = "DAY_OF_YEAR"
	PatternDayEndOfYear          PatternTag = "DAY_END_OF_YEAR"
	PatternDowOfYear             PatternTag = "DOW_OF_YEAR"
	PatternDowEndOfYear          PatternTag = "DOW_END_OF_YEAR"
	PatternOnDate                PatternTag = "ON_DATE"
)

// RepeatTag is the persisted name of a cadence kind.
// Value object - immutable string enum.
type RepeatTag string

const (
	RepeatNone    RepeatTag = "NONE"
	RepeatDaily   RepeatTag = "DAILY"
	RepeatWeekly  RepeatTag = "WEEKLY"
	RepeatMonthly RepeatTag = "MONTHLY"
	RepeatYearly  RepeatTag = "YEARLY"
)

var patternKinds = map[PatternTag]recurring.PatternKind{
	PatternDayOfWeek:             recurring.DayOfWeek,
	PatternDayOfMonth:            recurring.DayOfMonth,
	PatternDayEndOfMonth:         recurring.DayEndOfMonth,
	PatternDowOfMonth:            recurring.DowOfMonth,
	PatternDowEndOfMonth:         recurring.DowEndOfMonth,
	PatternDayOfSpecificMonth:    recurring.DayOfSpecificMonth,
	PatternDayEndOfSpecificMonth: recurring.DayEndOfSpecificMonth,
	PatternDowOfSpecificMonth:    recurring.DowOfSpecificMonth,
	PatternDowEndOfSpecificMonth: recurring.DowEndOfSpecificMonth,
	PatternDayOfYear:             recurring.DayOfYear,
	PatternDayEndOfYear:          recurring.DayEndOfYear,
	PatternDowOfYear:             recurring.DowOfYear,
	PatternDowEndOfYear:          recurring.DowEndOfYear,
	PatternOnDate:                recurring.OnDate,
}

var cadenceKinds = map[RepeatTag]recurring.CadenceKind{
	RepeatNone:    recurring.CadenceNone,
	RepeatDaily:   recurring.CadenceDaily,
	RepeatWeekly:  recurring.CadenceWeekly,
	RepeatMonthly: recurring.CadenceMonthly,
	RepeatYearly:  recurring.CadenceYearly,
}

// Kind returns the pattern kind named by t. Matching ignores case.
func (t PatternTag) Kind() (recurring.PatternKind, bool) {
	kind, ok := patternKinds[PatternTag(strings.ToUpper(string(t)))]
	return kind, ok
}

// Kind returns the cadence kind named by t. The empty tag means no repeat.
func (t RepeatTag) Kind() (recurring.CadenceKind, bool) {
	if t == "" {
		return recurring.CadenceNone, true
	}
	kind, ok := cadenceKinds[RepeatTag(strings.ToUpper(string(t)))]
	return kind, ok
}

// PatternTagOf returns the persisted name of kind.
func PatternTagOf(kind recurring.PatternKind) PatternTag {
	for tag, k := range patternKinds {
		if k == kind {
			return tag
		}
	}
	return ""
}

// RepeatTagOf returns the persisted name of kind.
func RepeatTagOf(kind recurring.CadenceKind) RepeatTag {
	for tag, k := range cadenceKinds {
		if k == kind {
			return tag
		}
	}
	return ""
}
