package recurring

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/calendar"
)

func someInt(v int) mo.Option[int] { return mo.Some(v) }

func someWeekday(wd time.Weekday) mo.Option[time.Weekday] { return mo.Some(wd) }

func someMonth(m time.Month) mo.Option[time.Month] { return mo.Some(m) }

func requireNext(t *testing.T, r Rule, ref calendar.Date, count int) calendar.Date {
	t.Helper()
	next, ok := r.NextOccurrence(ref, count).Get()
	require.True(t, ok, "expected an occurrence after %v (count %d)", ref, count)
	return next
}

func TestNextOccurrence_LeapDayEveryOtherYear(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayOfSpecificMonth, Month: someMonth(time.February), Offset: someInt(28)},
		Cadence: Cadence{Kind: CadenceYearly, Period: 2},
	}

	first := requireNext(t, rule, date(2020, time.February, 29), 1)
	assert.Equal(t, date(2022, time.February, 28), first)

	second := requireNext(t, rule, first, 2)
	assert.Equal(t, date(2024, time.February, 29), second)
}

func TestNextOccurrence_SecondWednesdayRollsIntoNextMonth(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DowOfMonth, Offset: someInt(1), Weekday: someWeekday(time.Wednesday)},
		Cadence: NoRepeat(),
	}

	assert.Equal(t, date(2020, time.February, 12), requireNext(t, rule, date(2020, time.January, 31), 0))
	assert.Equal(t, date(2020, time.January, 8), requireNext(t, rule, date(2020, time.January, 8), 0))
}

func TestNextOccurrence_WeeklySnapsForwardOnFirstCall(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayOfWeek, Weekday: someWeekday(time.Wednesday)},
		Cadence: Cadence{Kind: CadenceWeekly, Period: 2},
	}

	start := date(2020, time.February, 1)
	require.Equal(t, time.Saturday, start.Weekday())

	first := requireNext(t, rule, start, 0)
	assert.Equal(t, date(2020, time.February, 5), first)

	second := requireNext(t, rule, first, 1)
	assert.Equal(t, date(2020, time.February, 19), second)
}

func TestNextOccurrence_NonRepeatingStopsAfterFirst(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayOfMonth, Offset: someInt(14)},
		Cadence: NoRepeat(),
	}

	assert.Equal(t, date(2020, time.March, 15), requireNext(t, rule, date(2020, time.March, 1), 0))
	assert.True(t, rule.NextOccurrence(date(2020, time.March, 15), 1).IsAbsent())
}

func TestNextOccurrence_FinalDateIsInclusive(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayOfMonth, Offset: someInt(14)},
		Cadence: Cadence{Kind: CadenceMonthly, Period: 1, FinalDate: mo.Some(date(2020, time.March, 15))},
	}

	assert.Equal(t, date(2020, time.March, 15), requireNext(t, rule, date(2020, time.February, 15), 1))
	assert.True(t, rule.NextOccurrence(date(2020, time.March, 15), 2).IsAbsent())
}

func TestNextOccurrence_MaxOccurrences(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayEndOfMonth, Offset: someInt(0)},
		Cadence: Cadence{Kind: CadenceMonthly, Period: 1, MaxOccurrences: someInt(3)},
	}

	assert.Equal(t, date(2021, time.March, 31), requireNext(t, rule, date(2021, time.February, 28), 2))
	assert.True(t, rule.NextOccurrence(date(2021, time.March, 31), 3).IsAbsent())
}

func TestNextOccurrence_EndOfMonthFollowsMonthLength(t *testing.T) {
	rule := Rule{
		Pattern: Pattern{Kind: DayEndOfMonth, Offset: someInt(0)},
		Cadence: Cadence{Kind: CadenceMonthly, Period: 1},
	}

	got := []calendar.Date{}
	ref, count := date(2021, time.January, 31), 1
	for range 3 {
		ref = requireNext(t, rule, ref, count)
		got = append(got, ref)
		count++
	}

	assert.Equal(t, []calendar.Date{
		date(2021, time.February, 28),
		date(2021, time.March, 31),
		date(2021, time.April, 30),
	}, got)
}

func TestNextOccurrence_OnDate(t *testing.T) {
	start := date(2024, time.January, 31)

	t.Run("without repeat", func(t *testing.T) {
		rule := Rule{Pattern: Pattern{Kind: OnDate, Date: mo.Some(start)}, Cadence: NoRepeat()}

		assert.Equal(t, start, requireNext(t, rule, date(2024, time.January, 1), 0))
		assert.Equal(t, start, requireNext(t, rule, start, 0))
		assert.True(t, rule.NextOccurrence(date(2024, time.February, 1), 0).IsAbsent())
		assert.True(t, rule.NextOccurrence(date(2024, time.January, 1), 1).IsAbsent())
	})

	t.Run("repeats from its own date", func(t *testing.T) {
		rule := Rule{
			Pattern: Pattern{Kind: OnDate, Date: mo.Some(start)},
			Cadence: Cadence{Kind: CadenceMonthly, Period: 1},
		}

		// The reference is ignored; the count alone picks the step.
		assert.Equal(t, start, requireNext(t, rule, date(2030, time.June, 1), 0))
		assert.Equal(t, date(2024, time.February, 29), requireNext(t, rule, date(2030, time.June, 1), 1))
		assert.Equal(t, date(2024, time.March, 31), requireNext(t, rule, date(2024, time.February, 29), 2))
	})

	t.Run("max occurrences zero means once", func(t *testing.T) {
		rule := Rule{
			Pattern: Pattern{Kind: OnDate, Date: mo.Some(start)},
			Cadence: Cadence{Kind: CadenceDaily, Period: 1, MaxOccurrences: someInt(0)},
		}

		assert.Equal(t, start, requireNext(t, rule, start, 0))
		assert.True(t, rule.NextOccurrence(start, 1).IsAbsent())
	})
}

func TestNextOccurrence_NeverBeforeReferenceWithoutRepeat(t *testing.T) {
	ref := date(2019, time.December, 20)
	end := date(2021, time.January, 10)

	for _, kind := range PatternKinds {
		if kind == OnDate {
			continue
		}
		for offset := 0; offset <= 52; offset += 4 {
			for wd := time.Sunday; wd <= time.Saturday; wd++ {
				base := Rule{Pattern: Pattern{
					Kind:    kind,
					Offset:  someInt(offset),
					Weekday: someWeekday(wd),
					Month:   someMonth(time.Month(offset%12 + 1)),
				}}
				rule := Repair(base, ref)
				require.NoError(t, Validate(rule))

				for d := ref; d.Before(end); d = d.AddDays(3) {
					next := requireNext(t, rule, d, 0)
					if next.Before(d) {
						t.Fatalf("%v offset %d weekday %v: %v is before reference %v", kind, offset, wd, next, d)
					}
				}
			}
		}
	}
}

func TestNextOccurrence_PanicsOnUnknownKind(t *testing.T) {
	rule := Rule{Pattern: Pattern{Kind: PatternKind(99)}, Cadence: NoRepeat()}

	assert.Panics(t, func() {
		rule.NextOccurrence(date(2020, time.January, 1), 0)
	})
}
