// Package calendar maps a year and a set of annotation rules onto the
// days of a Monday-start week grid.
//
// Everything in this package is a pure computation over immutable values.
// It performs no I/O and never logs; errors are returned to the caller.
package calendar

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// Weekday numbers the days of the week starting at Monday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Time returns the equivalent time.Weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

func (w Weekday) String() string {
	return w.Time().String()
}

var daysPerMonth = [config.MonthsPerYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year has a February 29 in the proleptic
// Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year, or 0 if month
// is outside 1..12.
func DaysInMonth(year int, month time.Month) int {
	if month < time.January || month > time.December {
		return 0
	}
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month-1]
}

// Date is a civil calendar date with no time of day and no timezone.
// The zero value is not a valid date; use NewDate.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the date year-month-day or an error wrapping
// ErrInvalidDate if that day does not exist.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%w: "+config.FormatDate+": %s", ErrInvalidDate, year, int(month), day, config.ErrMonthRange)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("%w: "+config.FormatDate+": %s", ErrInvalidDate, year, int(month), day, config.ErrDayRange)
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustDate is like NewDate but panics on an invalid date. It is meant for
// tables of known dates.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDate parses a date in the form YYYY-MM-DD.
func ParseDate(val string) (Date, error) {
	parts := strings.Split(val, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, fmt.Errorf("%w: %q: %s", ErrInvalidDate, val, config.ErrKeyFormat)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || !isDigits(p) {
			return Date{}, fmt.Errorf("%w: %q: %s", ErrInvalidDate, val, config.ErrKeyFormat)
		}
		nums[i] = n
	}
	return NewDate(nums[0], time.Month(nums[1]), nums[2])
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// FromTime returns the civil date of t in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Year returns the year of d.
func (d Date) Year() int { return d.year }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

func (d Date) String() string {
	return fmt.Sprintf(config.FormatDate, d.year, int(d.month), d.day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after o.
func (d Date) Compare(o Date) int {
	if c := cmp.Compare(d.year, o.year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.month, o.month); c != 0 {
		return c
	}
	return cmp.Compare(d.day, o.day)
}

// SameMonthDay reports whether d falls on month/day in any year.
func (d Date) SameMonthDay(month time.Month, day int) bool {
	return d.month == month && d.day == day
}

// YearDay returns the day of the year, 1 for January 1.
func (d Date) YearDay() int {
	n := d.day
	for m := time.January; m < d.month; m++ {
		n += DaysInMonth(d.year, m)
	}
	return n
}

// Weekday returns the day of the week, Monday being 0.
func (d Date) Weekday() Weekday {
	// 1970-01-01 was a Thursday.
	n := (daysFromCivil(d.year, d.month, d.day) + int64(Thursday)) % 7
	if n < 0 {
		n += 7
	}
	return Weekday(n)
}

// AddDays returns the date n days after d (before d if n is negative).
func (d Date) AddDays(n int) Date {
	y, m, day := civilFromDays(daysFromCivil(d.year, d.month, d.day) + int64(n))
	return Date{year: y, month: m, day: day}
}

// DaysUntil returns the number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(daysFromCivil(o.year, o.month, o.day) - daysFromCivil(d.year, d.month, d.day))
}

// ISOWeek returns the ISO-8601 week-numbering year and week of d.
// Dates close to January 1 may belong to a week of the adjacent year.
func (d Date) ISOWeek() (year, week int) {
	// The week belongs to the year of its Thursday.
	thu := d.AddDays(int(Thursday - d.Weekday()))
	return thu.year, (thu.YearDay()-1)/config.DaysPerWeek + 1
}

// MondayOnOrBefore returns the Monday of the week d falls in.
func (d Date) MondayOnOrBefore() Date {
	return d.AddDays(-int(d.Weekday()))
}

// SundayOnOrAfter returns the Sunday of the week d falls in.
func (d Date) SundayOnOrAfter() Date {
	return d.AddDays(int(Sunday - d.Weekday()))
}

// daysFromCivil returns the number of days since 1970-01-01 for a
// proleptic Gregorian date.
func daysFromCivil(y int, m time.Month, d int) int64 {
	yy := int64(y)
	if m <= time.February {
		yy--
	}
	era := yy
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := yy - era*400
	mp := int64(m) + 9
	if m > time.February {
		mp = int64(m) - 3
	}
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int64) (int, time.Month, int) {
	z += 719468
	era := z
	if era < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return int(y), time.Month(m), int(d)
}
