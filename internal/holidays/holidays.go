// Package holidays provides static holiday tables that plug into the
// calendar builder.
package holidays

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/tartampluch/go-weekcalendar/internal/calendar"
	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// fixed is a holiday on the same month and day every year.
type fixed struct {
	month time.Month
	day   int
	name  string
}

// nthWeekday is a holiday such as "second Sunday of May". A negative n
// counts from the end of the month.
type nthWeekday struct {
	month   time.Month
	weekday rrule.Weekday
	n       int
	name    string
}

// easterOffset is a holiday a fixed number of days from Easter Sunday.
type easterOffset struct {
	days int
	name string
}

// Table is a named set of holiday definitions.
type Table struct {
	Name    string
	fixed   []fixed
	weekday []nthWeekday
	easter  []easterOffset
}

var tables = map[string]*Table{
	config.HolidaysNL:    dutch,
	config.HolidaysDENRW: northRhineWestphalia,
}

// Names returns the identifiers accepted by Lookup, "none" included.
func Names() []string {
	out := []string{config.HolidaysNone}
	for name := range tables {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Lookup returns the table called name. The "none" table and the empty
// name yield a nil calendar and no error.
func Lookup(name string) (calendar.HolidayCalendar, error) {
	if name == "" || name == config.HolidaysNone {
		return nil, nil
	}
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%s: %q", config.ErrUnknownHolidays, name)
	}
	return t, nil
}

// Holidays returns the holidays of year in date order. Days sharing a date
// keep the order of the table. Years outside the supported calendar range
// have no holidays.
func (t *Table) Holidays(year int) []calendar.Holiday {
	if year < config.MinYear || year > config.MaxYear {
		return nil
	}
	var out []calendar.Holiday
	for _, f := range t.fixed {
		d, err := calendar.NewDate(year, f.month, f.day)
		if err != nil {
			continue
		}
		out = append(out, calendar.Holiday{Date: d, Name: f.name})
	}
	for _, w := range t.weekday {
		d, err := w.in(year)
		if err != nil {
			continue
		}
		out = append(out, calendar.Holiday{Date: d, Name: w.name})
	}
	if len(t.easter) > 0 {
		e := Easter(year)
		for _, o := range t.easter {
			out = append(out, calendar.Holiday{Date: e.AddDays(o.days), Name: o.name})
		}
	}
	slices.SortStableFunc(out, func(a, b calendar.Holiday) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// in evaluates the rule for a single year with rrule.
func (w nthWeekday) in(year int) (calendar.Date, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.YEARLY,
		Dtstart:   time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Until:     time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Bymonth:   []int{int(w.month)},
		Byweekday: []rrule.Weekday{w.weekday.Nth(w.n)},
	})
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%s: %s: %w", config.ErrHolidayRule, w.name, err)
	}
	all := r.All()
	if len(all) == 0 {
		return calendar.Date{}, fmt.Errorf("%s: %s: no occurrence in %d", config.ErrHolidayRule, w.name, year)
	}
	return calendar.FromTime(all[0]), nil
}

// Easter returns Easter Sunday of year in the Gregorian calendar using the
// Meeus/Jones/Butcher algorithm.
func Easter(year int) calendar.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1
	return calendar.MustDate(year, time.Month(month), day)
}
