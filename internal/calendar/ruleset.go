package calendar

import "slices"

// Match is a rule that applies to a day, with its label already computed
// for the year of that day.
type Match struct {
	Rule  Rule
	Label string
}

// RuleSet holds the user annotations in declaration order, grouped by kind.
// It is read-only after construction and may be shared between goroutines.
type RuleSet struct {
	special   []SpecialDate
	birthdays []Birthday
	weddings  []Wedding
}

// NewRuleSet copies its arguments. Duplicate dates are kept; each of them
// attaches to the day.
func NewRuleSet(special []SpecialDate, birthdays []Birthday, weddings []Wedding) *RuleSet {
	return &RuleSet{
		special:   slices.Clone(special),
		birthdays: slices.Clone(birthdays),
		weddings:  slices.Clone(weddings),
	}
}

// SpecialDates returns a copy of the special dates.
func (rs *RuleSet) SpecialDates() []SpecialDate {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.special)
}

// Birthdays returns a copy of the birthdays.
func (rs *RuleSet) Birthdays() []Birthday {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.birthdays)
}

// Weddings returns a copy of the weddings.
func (rs *RuleSet) Weddings() []Wedding {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.weddings)
}

// Len returns the total number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.special) + len(rs.birthdays) + len(rs.weddings)
}

// With returns a new rule set with extra rules appended after the
// existing ones of the same kind.
func (rs *RuleSet) With(special []SpecialDate, birthdays []Birthday, weddings []Wedding) *RuleSet {
	return NewRuleSet(
		append(rs.SpecialDates(), special...),
		append(rs.Birthdays(), birthdays...),
		append(rs.Weddings(), weddings...),
	)
}

// Match returns every rule that applies to date: special dates first, then
// birthdays, then weddings, each in declaration order.
func (rs *RuleSet) Match(date Date) []Match {
	if rs == nil {
		return nil
	}
	var out []Match
	for _, r := range rs.special {
		out = appendMatch(out, r, date)
	}
	for _, r := range rs.birthdays {
		out = appendMatch(out, r, date)
	}
	for _, r := range rs.weddings {
		out = appendMatch(out, r, date)
	}
	return out
}

func appendMatch(out []Match, r Rule, date Date) []Match {
	if !r.Matches(date) {
		return out
	}
	return append(out, Match{Rule: r, Label: r.Label(date.Year())})
}
