package recurring

import (
	"testing"
	"time"

	"github.com/samber/mo"
)

// TestZeroPeriodStillMovesForward guards against a stepper that never leaves
// its start date when period is 0 or negative.
func TestZeroPeriodStillMovesForward(t *testing.T) {
	done := make(chan bool)

	go func() {
		for _, period := range []int{0, -3} {
			rule := Rule{
				Pattern: Pattern{Kind: OnDate, Date: mo.Some(date(2025, time.January, 1))},
				Cadence: Cadence{Kind: CadenceDaily, Period: period, FinalDate: mo.Some(date(2025, time.January, 6))},
			}

			var p Progress
			for !p.Done {
				p = rule.Advance(p, date(2025, time.January, 1))
			}
			if p.Count != 6 {
				t.Errorf("period %d: expected 6 occurrences, got %d", period, p.Count)
			}
		}
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Test timed out! Infinite loop detected when advancing a rule with a non-positive period")
	}
}
