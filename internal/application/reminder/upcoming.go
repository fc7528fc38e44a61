package reminder

import (
	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/recurring"
)

// Upcoming returns up to n occurrences of rule starting at the one p holds.
// A progress that has produced nothing yet is advanced first, using today as
// the reference when it has no last occurrence.
func Upcoming(rule recurring.Rule, p recurring.Progress, today calendar.Date, n int) []calendar.Date {
	if p.Count == 0 {
		p = rule.Advance(p, today)
	}

	dates := make([]calendar.Date, 0, max(n, 0))
	for len(dates) < n && !p.Done {
		d, ok := p.LastOccurrence.Get()
		if !ok {
			break
		}
		dates = append(dates, d)
		p = rule.Advance(p, today)
	}
	return dates
}
