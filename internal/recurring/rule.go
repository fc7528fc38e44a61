// Package recurring computes anchor dates for recurrence rules.
//
// A Rule pairs a Pattern (which date inside a week, month or year) with a
// Cadence (how often it repeats and when it stops). The engine is pure: it
// never stores progress and never reads the clock. Callers validate untrusted
// rules with Validate or fix them with Repair before asking for occurrences;
// an unrecognised kind reaching NextOccurrence is a bug and panics.
package recurring

import (
	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
)

// Rule is a complete recurrence definition.
type Rule struct {
	Pattern Pattern
	Cadence Cadence
}

// NextOccurrence returns the occurrence that follows ref given that count
// occurrences were already produced. With count 0 the reference is snapped
// onto the pattern; afterwards ref is the previous occurrence and is stepped
// by one period first. None means the rule is exhausted.
func (r Rule) NextOccurrence(ref calendar.Date, count int) mo.Option[calendar.Date] {
	if r.Pattern.Kind == OnDate {
		return r.nextOnDate(ref, count)
	}

	working := ref
	if count > 0 {
		if r.Cadence.exhausted(count) {
			return mo.None[calendar.Date]()
		}
		stepped, ok := r.Cadence.Step(ref, 1).Get()
		if !ok {
			return mo.None[calendar.Date]()
		}
		working = stepped
	}

	candidate := r.Pattern.anchor(working)
	if !r.Cadence.Repeats() || count == 0 {
		// Backward ordinals may resolve into the previous window, so one
		// retry is not always enough. Two windows ahead is always past ref.
		for window := working; candidate.Before(ref); {
			window = r.Pattern.nextWindow(window)
			candidate = r.Pattern.anchor(window)
		}
	} else {
		// The anchor of the stepped window can still land on or before ref
		// (the 5th-last Monday of a four-Monday month). Keep stepping by
		// whole periods until it moves past ref.
		for !candidate.After(ref) {
			working = r.Cadence.Step(working, 1).MustGet()
			candidate = r.Pattern.anchor(working)
		}
	}

	if r.Cadence.pastFinal(candidate) {
		return mo.None[calendar.Date]()
	}
	return mo.Some(candidate)
}

// nextOnDate measures repetition from the rule's own date, never from ref.
func (r Rule) nextOnDate(ref calendar.Date, count int) mo.Option[calendar.Date] {
	start, ok := r.Pattern.Date.Get()
	if !ok {
		panic("recurring: OnDate rule without a date")
	}

	if !r.Cadence.Repeats() {
		if count > 0 || start.Before(ref) {
			return mo.None[calendar.Date]()
		}
		return mo.Some(start)
	}

	candidate := start
	if count > 0 {
		if r.Cadence.exhausted(count) {
			return mo.None[calendar.Date]()
		}
		candidate = r.Cadence.Step(start, count).MustGet()
	}

	if r.Cadence.pastFinal(candidate) {
		return mo.None[calendar.Date]()
	}
	return mo.Some(candidate)
}
