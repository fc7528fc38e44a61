package recurring

import (
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/calendar"
)

// nthWeekdayInMonth returns the n-th wd of month. Positive n counts from the
// 1st, negative n from the last day (-1 is the last wd). The result is not
// clipped, so the 5th Monday of a short month lands in the next month.
func nthWeekdayInMonth(year int, month time.Month, n int, wd time.Weekday) calendar.Date {
	first := calendar.Clip(year, month, 1)
	if n >= 0 {
		return nthForward(first, n, wd)
	}
	return nthBackward(first.LastDayOfMonth(), n, wd)
}

// nthWeekdayInYear is nthWeekdayInMonth over a whole year, January 1 through December 31.
func nthWeekdayInYear(year int, n int, wd time.Weekday) calendar.Date {
	if n >= 0 {
		return nthForward(calendar.MustNew(year, time.January, 1), n, wd)
	}
	return nthBackward(calendar.MustNew(year, time.December, 31), n, wd)
}

func nthForward(start calendar.Date, n int, wd time.Weekday) calendar.Date {
	lead := (int(wd) - int(start.Weekday()) + 7) % 7
	return start.AddDays(lead + (max(n, 1)-1)*7)
}

func nthBackward(end calendar.Date, n int, wd time.Weekday) calendar.Date {
	lag := (int(end.Weekday()) - int(wd) + 7) % 7
	return end.AddDays(-(lag + (-n-1)*7))
}

// sameWeek returns the date in d's Sunday-based week that falls on wd.
func sameWeek(d calendar.Date, wd time.Weekday) calendar.Date {
	return d.AddDays(int(wd) - int(d.Weekday()))
}

func dayFromStart(year int, month time.Month, offset int) calendar.Date {
	return calendar.Clip(year, month, offset+1)
}

func dayFromEnd(year int, month time.Month, offset int) calendar.Date {
	last := calendar.DaysIn(year, month)
	return calendar.Clip(year, month, max(last-offset, 1))
}

// anchor resolves p inside the window that contains w.
func (p Pattern) anchor(w calendar.Date) calendar.Date {
	offset := p.Offset.OrEmpty()
	wd := p.Weekday.OrEmpty()
	month := p.Month.OrElse(w.Month())
	year := w.Year()

	switch p.Kind {
	case DayOfWeek:
		return sameWeek(w, wd)
	case DayOfMonth:
		return dayFromStart(year, w.Month(), offset)
	case DayEndOfMonth:
		return dayFromEnd(year, w.Month(), offset)
	case DowOfMonth:
		return nthWeekdayInMonth(year, w.Month(), offset+1, wd)
	case DowEndOfMonth:
		return nthWeekdayInMonth(year, w.Month(), -offset-1, wd)
	case DayOfSpecificMonth:
		return dayFromStart(year, month, offset)
	case DayEndOfSpecificMonth:
		return dayFromEnd(year, month, offset)
	case DowOfSpecificMonth:
		return nthWeekdayInMonth(year, month, offset+1, wd)
	case DowEndOfSpecificMonth:
		return nthWeekdayInMonth(year, month, -offset-1, wd)
	case DayOfYear:
		return calendar.MustNew(year, time.January, 1).AddDays(offset)
	case DayEndOfYear:
		return calendar.MustNew(year, time.December, 31).AddDays(-offset)
	case DowOfYear:
		return nthWeekdayInYear(year, offset+1, wd)
	case DowEndOfYear:
		return nthWeekdayInYear(year, -offset-1, wd)
	default:
		panic(fmt.Sprintf("recurring: no anchor for pattern kind %v", p.Kind))
	}
}

// nextWindow returns a date inside the window following the one that contains w.
func (p Pattern) nextWindow(w calendar.Date) calendar.Date {
	switch p.Kind.traits().guard {
	case guardWeek:
		return w.AddDays(7)
	case guardMonth:
		return w.FirstDayOfMonth().AddMonths(1)
	case guardYear:
		return calendar.MustNew(w.Year()+1, time.January, 1)
	default:
		panic(fmt.Sprintf("recurring: pattern kind %v has no window", p.Kind))
	}
}
