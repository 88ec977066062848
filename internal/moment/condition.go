package moment

import "errors"

// ErrInvalidCondition is returned by MultiCondition.Validate.
var ErrInvalidCondition = errors.New("condition must set either when, or both start and end")

// TimeCondition constrains time-of-day fields. Nil fields are unconstrained.
type TimeCondition struct {
	Hours       *int `yaml:"hours,omitempty" json:"hours,omitempty"`
	Minutes     *int `yaml:"minutes,omitempty" json:"minutes,omitempty"`
	MinuteOfDay *int `yaml:"minute_of_day,omitempty" json:"minute_of_day,omitempty"`
	Seconds     *int `yaml:"seconds,omitempty" json:"seconds,omitempty"`
	SecondOfDay *int `yaml:"second_of_day,omitempty" json:"second_of_day,omitempty"`
}

// CalendarCondition constrains the fields of one calendar.
type CalendarCondition struct {
	DayOfMonth  *int `yaml:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	DayOfWeek   *int `yaml:"day_of_week,omitempty" json:"day_of_week,omitempty"`
	WeekOfMonth *int `yaml:"week_of_month,omitempty" json:"week_of_month,omitempty"`
	Month       *int `yaml:"month,omitempty" json:"month,omitempty"`
	Year        *int `yaml:"year,omitempty" json:"year,omitempty"`
}

// Condition is a sparse mirror of Moment. Any subset of fields may be set.
type Condition struct {
	Time      *TimeCondition     `yaml:"time,omitempty" json:"time,omitempty"`
	Gregorian *CalendarCondition `yaml:"gregorian,omitempty" json:"gregorian,omitempty"`
	Hijri     *CalendarCondition `yaml:"hijri,omitempty" json:"hijri,omitempty"`
}

// Range is an inclusive start/end pair of conditions.
type Range struct {
	Start Condition
	End   Condition
}

// MultiCondition is either a single point (When) or an inclusive range
// (Start and End).
type MultiCondition struct {
	When  *Condition `yaml:"when,omitempty" json:"when,omitempty"`
	Start *Condition `yaml:"start,omitempty" json:"start,omitempty"`
	End   *Condition `yaml:"end,omitempty" json:"end,omitempty"`
}

// AnyOf matches when any of its conditions matches.
type AnyOf []MultiCondition

// Int returns a pointer to n, for building conditions in code.
func Int(n int) *int { return &n }

const numFields = 15

// fields lists the condition's values in a fixed order shared with
// Moment.values. Unset fields are nil.
func (c Condition) fields() [numFields]*int {
	var f [numFields]*int
	if t := c.Time; t != nil {
		f[0], f[1], f[2], f[3], f[4] = t.Hours, t.Minutes, t.MinuteOfDay, t.Seconds, t.SecondOfDay
	}
	if g := c.Gregorian; g != nil {
		f[5], f[6], f[7], f[8], f[9] = g.DayOfMonth, g.DayOfWeek, g.WeekOfMonth, g.Month, g.Year
	}
	if h := c.Hijri; h != nil {
		f[10], f[11], f[12], f[13], f[14] = h.DayOfMonth, h.DayOfWeek, h.WeekOfMonth, h.Month, h.Year
	}
	return f
}

func (m Moment) values() [numFields]int {
	t, g, h := m.Time, m.Gregorian, m.Hijri
	return [numFields]int{
		t.Hours, t.Minutes, t.MinuteOfDay, t.Seconds, t.SecondOfDay,
		g.DayOfMonth, g.DayOfWeek, g.WeekOfMonth, g.Month, g.Year,
		h.DayOfMonth, h.DayOfWeek, h.WeekOfMonth, h.Month, h.Year,
	}
}

// Matches reports whether m satisfies every field set in c.
func Matches(m Moment, c Condition) bool {
	return RangeMatches(Range{Start: c, End: c}, m)
}

// RangeMatches reports whether m lies inside r. Each field set on both ends
// is checked on its own; a field set on one end only is ignored. When a
// field's start is greater than its end the range wraps around the cycle, so
// hours 22 to 2 accept 23 and 1 but not 12.
func RangeMatches(r Range, m Moment) bool {
	start, end, values := r.Start.fields(), r.End.fields(), m.values()
	for i := range start {
		if start[i] == nil || end[i] == nil {
			continue
		}
		if !inCycle(*start[i], *end[i], values[i]) {
			return false
		}
	}
	return true
}

func inCycle(s, e, d int) bool {
	if s <= e {
		return s <= d && d <= e
	}
	return d >= s || d <= e
}

// Matches evaluates the point or range form. An invalid MultiCondition never
// matches.
func (mc MultiCondition) Matches(m Moment) bool {
	switch {
	case mc.When != nil:
		return Matches(m, *mc.When)
	case mc.Start != nil && mc.End != nil:
		return RangeMatches(Range{Start: *mc.Start, End: *mc.End}, m)
	default:
		return false
	}
}

// Validate checks that exactly one of the two forms is used.
func (mc MultiCondition) Validate() error {
	point := mc.When != nil
	ranged := mc.Start != nil || mc.End != nil
	if point == ranged || (ranged && (mc.Start == nil || mc.End == nil)) {
		return ErrInvalidCondition
	}
	return nil
}

// Matches reports whether any member matches m.
func (a AnyOf) Matches(m Moment) bool {
	for _, c := range a {
		if c.Matches(m) {
			return true
		}
	}
	return false
}
