// Package calendar provides a whole-day Gregorian date value.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the wire format of a Date.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrInvalidDate is returned when a year/month/day triple does not name a real day.
var ErrInvalidDate = errors.New("invalid calendar date")

// Date is an immutable calendar day with no time-of-day or zone.
// The zero value is not a valid date; use IsZero to detect it.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the date for year/month/day, rejecting days the month does not have.
func New(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustNew is like New but panics on an invalid date. Intended for literals and tests.
func MustNew(year int, month time.Month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Clip returns the date for year/month/day with day clamped into [1, last day of month].
// Month overflow is carried into the year.
func Clip(year int, month time.Month, day int) Date {
	year, month = normalizeMonth(year, int(month))
	last := DaysIn(year, month)
	day = max(1, min(day, last))
	return Date{year: year, month: month, day: day}
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the current UTC calendar day.
func Today() Date {
	return FromTime(time.Now().UTC())
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week, Sunday = 0.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// YearDay returns the day of the year, 1 for January 1.
func (d Date) YearDay() int {
	return d.Time().YearDay()
}

// DaysInMonth returns the length of d's month.
func (d Date) DaysInMonth() int {
	return DaysIn(d.year, d.month)
}

// LastDayOfMonth returns the last day of d's month.
func (d Date) LastDayOfMonth() Date {
	return Date{year: d.year, month: d.month, day: d.DaysInMonth()}
}

// FirstDayOfMonth returns the first day of d's month.
func (d Date) FirstDayOfMonth() Date {
	return Date{year: d.year, month: d.month, day: 1}
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths returns d shifted by n months. The day is clipped to the
// destination month, so Jan 31 + 1 month is the last day of February.
func (d Date) AddMonths(n int) Date {
	return Clip(d.year, d.month+time.Month(n), d.day)
}

// AddYears returns d shifted by n years, clipping Feb 29 to Feb 28 in common years.
func (d Date) AddYears(n int) Date {
	return Clip(d.year+n, d.month, d.day)
}

// Compare returns -1, 0 or +1 as d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool  { return d == other }

// DaysUntil returns the signed number of days from d to other (other − d).
func (d Date) DaysUntil(other Date) int {
	return int((other.Time().Unix() - d.Time().Unix()) / secondsPerDay)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsLeapYear reports whether year has a February 29.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// normalizeMonth folds an arbitrary month number into 1..12, carrying into the year.
func normalizeMonth(year, month int) (int, time.Month) {
	m := month - 1
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	return year, time.Month(m + 1)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
