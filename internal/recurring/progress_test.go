package recurring

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/calendar"
)

func TestAdvance_ExhaustsAfterMaxOccurrences(t *testing.T) {
	start := date(2020, time.January, 1)
	rule := Rule{
		Pattern: Pattern{Kind: OnDate, Date: mo.Some(start)},
		Cadence: Cadence{Kind: CadenceDaily, Period: 10, MaxOccurrences: someInt(2)},
	}

	p := rule.Advance(Progress{}, start)
	assert.Equal(t, Progress{LastOccurrence: mo.Some(start), Count: 1}, p)

	p = rule.Advance(p, start)
	assert.Equal(t, Progress{LastOccurrence: mo.Some(date(2020, time.January, 11)), Count: 2}, p)

	p = rule.Advance(p, start)
	assert.True(t, p.Done)
	assert.Equal(t, mo.Some(date(2020, time.January, 11)), p.LastOccurrence)
	assert.Equal(t, 2, p.Count)
}

func TestAdvance_DoneIsTerminal(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayOfMonth, Offset: someInt(0)},
		Cadence: NoRepeat(),
	}
	today := date(2020, time.May, 20)

	p := rule.Advance(Progress{}, today)
	assert.Equal(t, date(2020, time.June, 1), p.LastOccurrence.MustGet())

	done := rule.Advance(p, today)
	assert.True(t, done.Done)

	for range 3 {
		assert.Equal(t, done, rule.Advance(done, today.AddDays(400)))
	}
}

func TestAdvance_ImmediateExhaustionCountsOne(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: OnDate, Date: mo.Some(date(2020, time.January, 1))},
		Cadence: NoRepeat(),
	}

	p := rule.Advance(Progress{}, date(2021, time.January, 1))

	assert.Equal(t, Progress{Count: 1, Done: true}, p)
}

func TestAdvance_UsesTodayOnlyWithoutLastOccurrence(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayOfWeek, Weekday: someWeekday(time.Monday)},
		Cadence: Cadence{Kind: CadenceWeekly, Period: 1},
	}
	today := date(2024, time.May, 1) // Wednesday

	first := rule.Advance(Progress{}, today)
	assert.Equal(t, date(2024, time.May, 6), first.LastOccurrence.MustGet())

	second := rule.Advance(first, date(2030, time.January, 1))
	assert.Equal(t, date(2024, time.May, 13), second.LastOccurrence.MustGet())
	assert.Equal(t, 2, second.Count)
}

func TestSeed_SnapsStartOntoPattern(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DowEndOfMonth, Offset: someInt(0), Weekday: someWeekday(time.Friday)},
		Cadence: Cadence{Kind: CadenceMonthly, Period: 1},
	}

	p := rule.Advance(Seed(date(2024, time.February, 1)), date(1999, time.January, 1))

	assert.Equal(t, date(2024, time.February, 23), p.LastOccurrence.MustGet())
	assert.Equal(t, 1, p.Count)
}

func advanceDates(rule Rule, start calendar.Date, n int) []calendar.Date {
	p := Seed(start)
	var dates []calendar.Date
	for range n {
		p = rule.Advance(p, start)
		dates = append(dates, p.LastOccurrence.MustGet())
	}
	return dates
}

func TestAdvance_BackwardAnchorInPreviousWindow(t *testing.T) {
	t.Run("day 365 from end of a common year", func(t *testing.T) {
		rule := Rule{
			Pattern: Pattern{Kind: DayEndOfYear, Offset: someInt(365)},
			Cadence: Cadence{Kind: CadenceYearly, Period: 1},
		}

		assert.Equal(t, []calendar.Date{
			date(2021, time.December, 31),
			date(2022, time.December, 31),
			date(2024, time.January, 1),
		}, advanceDates(rule, date(2021, time.June, 1), 3))
	})

	t.Run("fifth-last Monday of a four-Monday month", func(t *testing.T) {
		rule := Rule{
			Pattern: Pattern{Kind: DowEndOfMonth, Offset: someInt(4), Weekday: someWeekday(time.Monday)},
			Cadence: Cadence{Kind: CadenceMonthly, Period: 1},
		}

		assert.Equal(t, []calendar.Date{
			date(2021, time.March, 1),
			date(2021, time.March, 29),
			date(2021, time.May, 3),
			date(2021, time.May, 31),
		}, advanceDates(rule, date(2021, time.February, 1), 4))
	})
}

func TestAdvance_RepeatingScheduleAlwaysMovesForward(t *testing.T) {
	starts := []calendar.Date{
		date(2021, time.February, 1),
		date(2023, time.December, 31),
		date(2024, time.February, 29),
	}

	for _, kind := range PatternKinds {
		t.Run(kind.String(), func(t *testing.T) {
			offsets := []int{0}
			if _, hi, ok := kind.OffsetRange(); ok {
				offsets = []int{0, hi - 1, hi}
			}

			for _, cadence := range kind.traits().cadences {
				if cadence == CadenceNone {
					continue
				}
				for _, offset := range offsets {
					for wd := time.Sunday; wd <= time.Saturday; wd++ {
						for _, start := range starts {
							rule := Rule{
								Pattern: Pattern{
									Kind:    kind,
									Offset:  someInt(offset),
									Weekday: someWeekday(wd),
									Month:   someMonth(time.February),
									Date:    mo.Some(date(2024, time.January, 31)),
								},
								Cadence: Cadence{Kind: cadence, Period: 1},
							}
							require.NoError(t, Validate(rule))

							p := rule.Advance(Seed(start), start)
							for i := range 30 {
								next := rule.Advance(p, start)
								require.False(t, next.Done)
								if !next.LastOccurrence.MustGet().After(p.LastOccurrence.MustGet()) {
									t.Fatalf("%v/%v offset %d weekday %v from %v: step %d went from %v to %v",
										kind, cadence, offset, wd, start, i,
										p.LastOccurrence.MustGet(), next.LastOccurrence.MustGet())
								}
								p = next
							}
						}
					}
				}
			}
		})
	}
}
