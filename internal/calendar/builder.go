package calendar

import (
	"fmt"
	"iter"
	"time"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// AnnotatedDay is one cell of the week grid.
type AnnotatedDay struct {
	Date Date
	// Matches holds the user rules for this day in precedence order.
	Matches []Match
	// Holidays holds the names supplied by the holiday calendar, if any.
	Holidays []string
}

// InYear reports whether the day belongs to year rather than being a
// padding day borrowed from an adjacent year.
func (d AnnotatedDay) InYear(year int) bool {
	return d.Date.Year() == year
}

// Empty reports whether nothing is attached to the day.
func (d AnnotatedDay) Empty() bool {
	return len(d.Matches) == 0 && len(d.Holidays) == 0
}

// Week is a Monday to Sunday run of days.
type Week struct {
	// Number and WeekYear are the ISO-8601 week of Start.
	Number   int
	WeekYear int
	Start    Date
	Days     [config.DaysPerWeek]AnnotatedDay
}

// Months returns the months of the first and last day of the week. They
// differ when the week straddles a month boundary.
func (w Week) Months() (first, last time.Month) {
	return w.Days[0].Date.Month(), w.Days[config.DaysPerWeek-1].Date.Month()
}

// YearCalendar is the complete, ordered week grid of one year.
type YearCalendar struct {
	Year  int
	Weeks []Week
}

// Days iterates over every day of the grid in ascending order.
func (yc YearCalendar) Days() iter.Seq[AnnotatedDay] {
	return func(yield func(AnnotatedDay) bool) {
		for _, w := range yc.Weeks {
			for _, d := range w.Days {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// Holiday is a named day supplied by a HolidayCalendar.
type Holiday struct {
	Date Date
	Name string
}

// HolidayCalendar provides the holidays of a year.
type HolidayCalendar interface {
	Holidays(year int) []Holiday
}

type buildOptions struct {
	holidays HolidayCalendar
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithHolidays attaches the holidays of hc to the days of the grid,
// including padding days of the adjacent years.
func WithHolidays(hc HolidayCalendar) BuildOption {
	return func(o *buildOptions) {
		o.holidays = hc
	}
}

// Build lays out year as consecutive Monday-start weeks, from the Monday on
// or before January 1 to the Sunday on or after December 31, and attaches
// the matching rules to every day. A nil rule set is treated as empty.
func Build(year int, rules *RuleSet, opts ...BuildOption) (YearCalendar, error) {
	if year < config.MinYear || year > config.MaxYear {
		return YearCalendar{}, fmt.Errorf("%w: %d (%d-%d)", ErrInvalidYear, year, config.MinYear, config.MaxYear)
	}
	var o buildOptions
	for _, fn := range opts {
		fn(&o)
	}

	first := MustDate(year, time.January, 1).MondayOnOrBefore()
	last := MustDate(year, time.December, 31).SundayOnOrAfter()
	holidays := collectHolidays(o.holidays, first, last)

	n := first.DaysUntil(last) + 1
	weeks := make([]Week, 0, n/config.DaysPerWeek)
	for start := first; !start.After(last); start = start.AddDays(config.DaysPerWeek) {
		wy, wn := start.ISOWeek()
		w := Week{Number: wn, WeekYear: wy, Start: start}
		for i := range w.Days {
			date := start.AddDays(i)
			w.Days[i] = AnnotatedDay{
				Date:     date,
				Matches:  rules.Match(date),
				Holidays: holidays[date],
			}
		}
		weeks = append(weeks, w)
	}
	return YearCalendar{Year: year, Weeks: weeks}, nil
}

func collectHolidays(hc HolidayCalendar, first, last Date) map[Date][]string {
	if hc == nil {
		return nil
	}
	out := map[Date][]string{}
	for y := first.Year(); y <= last.Year(); y++ {
		for _, h := range hc.Holidays(y) {
			if h.Date.Before(first) || h.Date.After(last) {
				continue
			}
			out[h.Date] = append(out[h.Date], h.Name)
		}
	}
	return out
}
