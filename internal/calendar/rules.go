package calendar

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// Kind identifies the variant of an annotation rule. The order of the
// constants is the precedence used when several rules match one day.
type Kind int

const (
	KindSpecialDate Kind = iota
	KindBirthday
	KindWedding
)

func (k Kind) String() string {
	switch k {
	case KindSpecialDate:
		return config.SectionSpecialDates
	case KindBirthday:
		return config.SectionBirthdays
	case KindWedding:
		return config.SectionWeddings
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Rule is an annotation that recurs on a fixed month and day.
// It is implemented by SpecialDate, Birthday and Wedding.
type Rule interface {
	Kind() Kind
	// Matches reports whether the rule applies to date.
	Matches(date Date) bool
	// Label returns the display text of the rule for an occurrence in year.
	Label(year int) string
}

// leapYear is used to validate month/day pairs independently of any year.
const leapYear = 2000

// ParseMonthDay parses a recurring date in the form MM-DD. February 29 is
// accepted; it only ever matches in leap years.
func ParseMonthDay(val string) (time.Month, int, error) {
	parts := strings.Split(val, "-")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0, 0, fmt.Errorf("%w: %q: %s", ErrInvalidDate, val, config.ErrKeyFormat)
	}
	m, _ := strconv.Atoi(parts[0])
	d, _ := strconv.Atoi(parts[1])
	if _, err := NewDate(leapYear, time.Month(m), d); err != nil {
		return 0, 0, err
	}
	return time.Month(m), d, nil
}

// SpecialDate is a labelled day that recurs every year.
type SpecialDate struct {
	Month time.Month
	Day   int
	Text  string
}

// NewSpecialDate validates month/day against a leap year so that
// February 29 is allowed.
func NewSpecialDate(month time.Month, day int, text string) (SpecialDate, error) {
	if _, err := NewDate(leapYear, month, day); err != nil {
		return SpecialDate{}, err
	}
	return SpecialDate{Month: month, Day: day, Text: text}, nil
}

func (s SpecialDate) Kind() Kind { return KindSpecialDate }

func (s SpecialDate) Matches(date Date) bool {
	return date.SameMonthDay(s.Month, s.Day)
}

func (s SpecialDate) Label(int) string { return s.Text }

// Birthday recurs on the month and day of Origin from the year of birth on.
type Birthday struct {
	Origin Date
	Names  []string
}

// NewBirthday requires at least one name; blank names are rejected.
func NewBirthday(origin Date, names ...string) (Birthday, error) {
	if err := checkNames(names); err != nil {
		return Birthday{}, err
	}
	return Birthday{Origin: origin, Names: slices.Clone(names)}, nil
}

func (b Birthday) Kind() Kind { return KindBirthday }

func (b Birthday) Matches(date Date) bool {
	return matchesFrom(b.Origin, date)
}

// Age returns the age reached in year and whether the person is born by then.
func (b Birthday) Age(year int) (int, bool) {
	return yearsSince(b.Origin, year)
}

// Label renders the names followed by the age, e.g. "Remco (25)".
func (b Birthday) Label(year int) string {
	age, _ := b.Age(year)
	return fmt.Sprintf(config.FormatAgeLabel, strings.Join(b.Names, config.NameSeparator), age)
}

// Wedding recurs on the month and day of Origin from the wedding year on.
type Wedding struct {
	Origin Date
	Couple [2]string
}

// NewWedding requires two non-blank names.
func NewWedding(origin Date, first, second string) (Wedding, error) {
	if err := checkNames([]string{first, second}); err != nil {
		return Wedding{}, err
	}
	return Wedding{Origin: origin, Couple: [2]string{first, second}}, nil
}

func (w Wedding) Kind() Kind { return KindWedding }

func (w Wedding) Matches(date Date) bool {
	return matchesFrom(w.Origin, date)
}

// Age returns the anniversary count in year.
func (w Wedding) Age(year int) (int, bool) {
	return yearsSince(w.Origin, year)
}

// Label renders the couple followed by the anniversary count,
// e.g. "Husband & Wife (10)".
func (w Wedding) Label(year int) string {
	age, _ := w.Age(year)
	return fmt.Sprintf(config.FormatAgeLabel, strings.Join(w.Couple[:], config.CoupleSeparator), age)
}

// matchesFrom implements the recurrence shared by birthdays and weddings.
// A February 29 origin never shifts to February 28 or March 1.
func matchesFrom(origin, date Date) bool {
	return date.year >= origin.year && date.SameMonthDay(origin.month, origin.day)
}

func yearsSince(origin Date, year int) (int, bool) {
	n := year - origin.year
	return n, n >= 0
}

func checkNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, config.ErrEmptyNames)
	}
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: %s (#%d)", ErrInvalidConfig, config.ErrBlankName, i+1)
		}
	}
	return nil
}
