package recurring

import (
	"github.com/samber/mo"

	"github.com/rezkam/cadence/internal/calendar"
)

// Progress is the caller-owned record of how far a rule has been followed.
// The zero value is a schedule that has not produced anything yet.
type Progress struct {
	LastOccurrence mo.Option[calendar.Date]
	Count          int
	Done           bool
}

// Seed returns a fresh progress whose first occurrence is computed from start.
func Seed(start calendar.Date) Progress {
	return Progress{LastOccurrence: mo.Some(start)}
}

// Advance moves p to the rule's next occurrence. today is used as the
// reference when p has no last occurrence. Once Done is set, Advance returns
// p unchanged.
func (r Rule) Advance(p Progress, today calendar.Date) Progress {
	if p.Done {
		return p
	}

	ref := p.LastOccurrence.OrElse(today)
	next, ok := r.NextOccurrence(ref, p.Count).Get()
	if !ok {
		return Progress{
			LastOccurrence: p.LastOccurrence,
			Count:          max(p.Count, 1),
			Done:           true,
		}
	}

	return Progress{
		LastOccurrence: mo.Some(next),
		Count:          p.Count + 1,
	}
}
