// Package prayer models a single ritual prayer: its fixed settings, the
// date-scoped overrides that adjust them and the phases it moves through once
// a clock time has been assigned for the day.
package prayer

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultKeys are the standard table keys, in chronological order.
var DefaultKeys = []string{
	"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha",
}

// ShortNames maps prayer keys to abbreviations for narrow status bars.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
	"Jumuah":  "J",
}

// Upcoming customizes how a prayer is announced before it starts. Offset is
// the lead time in minutes; with ActiveOnlyWhenInOffset the entry only
// applies while the clock is inside that many minutes after the prayer time.
type Upcoming struct {
	Name                   string `yaml:"name,omitempty" json:"name,omitempty"`
	Offset                 *int   `yaml:"offset,omitempty" json:"offset,omitempty" validate:"omitempty,min=0"`
	ActiveOnlyWhenInOffset bool   `yaml:"active_only_when_in_offset,omitempty" json:"active_only_when_in_offset,omitempty"`
}

// DateOverride replaces some settings on the days its Date condition
// matches. Empty Name and nil pointers leave the base value in place.
type DateOverride struct {
	Date      moment.Condition `yaml:"date" json:"date"`
	Name      string           `yaml:"name,omitempty" json:"name,omitempty"`
	IqamaWait *int             `yaml:"iqama_wait,omitempty" json:"iqama_wait,omitempty" validate:"omitempty,min=0"`
	Duration  *int             `yaml:"duration,omitempty" json:"duration,omitempty" validate:"omitempty,min=0"`
	Upcoming  *Upcoming        `yaml:"upcoming,omitempty" json:"upcoming,omitempty"`
}

// Prayer is the static definition of a prayer. All durations are minutes.
type Prayer struct {
	Key           string         `yaml:"key" json:"key" validate:"required"`
	Name          string         `yaml:"name,omitempty" json:"name,omitempty"`
	Duration      int            `yaml:"duration,omitempty" json:"duration,omitempty" validate:"min=0"`
	IqamaWait     int            `yaml:"iqama_wait,omitempty" json:"iqama_wait,omitempty" validate:"min=0"`
	Azkar         int            `yaml:"azkar,omitempty" json:"azkar,omitempty" validate:"min=0"`
	TimeOffset    int            `yaml:"time_offset,omitempty" json:"time_offset,omitempty"`
	Upcoming      *Upcoming      `yaml:"upcoming,omitempty" json:"upcoming,omitempty"`
	DateOverrides []DateOverride `yaml:"date_overrides,omitempty" json:"date_overrides,omitempty" validate:"dive"`
}

// New returns a prayer with every setting zero and a name derived from key.
func New(key string) Prayer {
	return Prayer{Key: key, Name: DisplayName(key)}
}

// FromConfig returns a copy of defs with every missing name derived from the
// key. Order is preserved.
func FromConfig(defs []Prayer) []Prayer {
	out := make([]Prayer, len(defs))
	for i, p := range defs {
		if p.Name == "" {
			p.Name = DisplayName(p.Key)
		}
		out[i] = p
	}
	return out
}

// DisplayName turns a table key into a human name: "maghrib" becomes
// "Maghrib".
func DisplayName(key string) string {
	return cases.Title(language.Und).String(strings.ToLower(key))
}

// At pairs the prayer with its clock time for the day.
func (p *Prayer) At(minuteOfDay int) Timed {
	return Timed{Prayer: p, Time: minuteOfDay}
}

// Override returns the first date override matching m, or nil.
func (p *Prayer) Override(m moment.Moment) *DateOverride {
	for i := range p.DateOverrides {
		if moment.Matches(m, p.DateOverrides[i].Date) {
			return &p.DateOverrides[i]
		}
	}
	return nil
}

// ResolvedUpcoming is the announcement in effect for a moment.
type ResolvedUpcoming struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// Settings are the prayer's effective settings for a moment.
type Settings struct {
	Name      string           `json:"name"`
	IqamaWait int              `json:"iqama_wait"`
	Duration  int              `json:"duration"`
	Upcoming  ResolvedUpcoming `json:"upcoming"`
}

// Timed is a prayer with the clock time (minute of day) assigned for today.
// The zero value has no prayer and must not be used.
type Timed struct {
	*Prayer
	Time int
}

// OffsettedTime is the assigned time shifted by TimeOffset, folded into the
// day.
func (t Timed) OffsettedTime() int {
	return moment.Wrap(t.Time+t.TimeOffset, moment.MinutesPerDay)
}

// Settings merges the matching date override over the base settings.
func (t Timed) Settings(m moment.Moment) Settings {
	s := Settings{Name: t.Name, IqamaWait: t.IqamaWait, Duration: t.Duration}

	o := t.Override(m)
	var overrideUpcoming *Upcoming
	overrideName := ""
	if o != nil {
		if o.Name != "" {
			s.Name = o.Name
			overrideName = o.Name
		}
		if o.IqamaWait != nil {
			s.IqamaWait = *o.IqamaWait
		}
		if o.Duration != nil {
			s.Duration = *o.Duration
		}
		overrideUpcoming = t.activeUpcoming(o.Upcoming, m)
	}
	baseUpcoming := t.activeUpcoming(t.Upcoming, m)

	switch {
	case overrideUpcoming != nil && overrideUpcoming.Name != "":
		s.Upcoming.Name = overrideUpcoming.Name
	case overrideName != "":
		s.Upcoming.Name = overrideName
	case baseUpcoming != nil && baseUpcoming.Name != "":
		s.Upcoming.Name = baseUpcoming.Name
	default:
		s.Upcoming.Name = t.Name
	}

	switch {
	case overrideUpcoming != nil && overrideUpcoming.Offset != nil:
		s.Upcoming.Offset = *overrideUpcoming.Offset
	case baseUpcoming != nil && baseUpcoming.Offset != nil:
		s.Upcoming.Offset = *baseUpcoming.Offset
	}

	return s
}

// activeUpcoming returns u when it applies at m, else nil.
func (t Timed) activeUpcoming(u *Upcoming, m moment.Moment) *Upcoming {
	if u == nil {
		return nil
	}
	if u.ActiveOnlyWhenInOffset && u.Offset != nil && *u.Offset != 0 {
		since := m.Time.MinuteOfDay - t.OffsettedTime()
		if since < 0 || since >= *u.Offset {
			return nil
		}
	}
	return u
}

// IqamaTime is the minute of day congregational prayer begins.
func (t Timed) IqamaTime(m moment.Moment) int {
	return t.OffsettedTime() + t.Settings(m).IqamaWait
}

// FinishTime is the minute of day the prayer ends.
func (t Timed) FinishTime(m moment.Moment) int {
	s := t.Settings(m)
	return t.OffsettedTime() + s.IqamaWait + s.Duration
}

// AzkarFinishTime is the minute of day the post-prayer azkar ends.
func (t Timed) AzkarFinishTime(m moment.Moment) int {
	return t.FinishTime(m) + t.Azkar
}

func (t Timed) IsBefore(m moment.Moment) bool {
	return t.OffsettedTime() < m.Time.MinuteOfDay
}

// IsAfter reports whether the prayer, pushed back by offset minutes, is still
// ahead of m.
func (t Timed) IsAfter(m moment.Moment, offset int) bool {
	return t.OffsettedTime()+offset > m.Time.MinuteOfDay
}

func (t Timed) IsBeforeOrEqual(m moment.Moment) bool {
	return t.OffsettedTime() <= m.Time.MinuteOfDay
}

func (t Timed) IsAfterOrEqual(m moment.Moment) bool {
	return t.OffsettedTime() >= m.Time.MinuteOfDay
}

func (t Timed) IsEqual(m moment.Moment) bool {
	return t.OffsettedTime() == m.Time.MinuteOfDay
}

// InIqamaWait reports whether m is in [time, iqama).
func (t Timed) InIqamaWait(m moment.Moment) bool {
	d := m.Time.MinuteOfDay
	return d >= t.OffsettedTime() && d < t.IqamaTime(m)
}

// InPrayer reports whether m is in [iqama, finish).
func (t Timed) InPrayer(m moment.Moment) bool {
	d := m.Time.MinuteOfDay
	return d >= t.IqamaTime(m) && d < t.FinishTime(m)
}

// InAzkar reports whether m is in [finish, azkar finish).
func (t Timed) InAzkar(m moment.Moment) bool {
	d := m.Time.MinuteOfDay
	return d >= t.FinishTime(m) && d < t.AzkarFinishTime(m)
}

// The TimeLeft accessors return seconds until a boundary. They go negative
// once the boundary has passed; callers wrap as needed.

func (t Timed) TimeLeftForIqamaWait(m moment.Moment) int {
	return t.OffsettedTime()*60 - m.Time.SecondOfDay
}

func (t Timed) TimeLeftForIqama(m moment.Moment) int {
	return t.IqamaTime(m)*60 - m.Time.SecondOfDay
}

func (t Timed) TimeLeftForPrayer(m moment.Moment) int {
	return t.FinishTime(m)*60 - m.Time.SecondOfDay
}

func (t Timed) TimeLeftForAzkar(m moment.Moment) int {
	return t.AzkarFinishTime(m)*60 - m.Time.SecondOfDay
}

// Assignments holds today's clock times keyed by prayer key. A prayer
// missing from the record has no time today.
type Assignments map[string]int

// Time returns the assigned minute of day for key.
func (a Assignments) Time(key string) (int, bool) {
	t, ok := a[key]
	return t, ok
}

// FormatClock renders a minute of day with a Go layout such as "15:04".
func FormatClock(minuteOfDay int, layout string) string {
	minuteOfDay = moment.Wrap(minuteOfDay, moment.MinutesPerDay)
	t := time.Date(2000, 1, 1, minuteOfDay/60, minuteOfDay%60, 0, 0, time.UTC)
	return t.Format(layout)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
