// Package moment models a point in time as seen by the masjid: the time of
// day together with the Gregorian and Hijri dates, plus a sparse condition
// language to match moments against.
package moment

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/masjidi/internal/hijri"
)

// Meridiem is "am" or "pm".
type Meridiem string

const (
	AM Meridiem = "am"
	PM Meridiem = "pm"
)

// Time is the time-of-day part of a Moment.
type Time struct {
	Hours       int      `json:"hours"`
	Hours12     int      `json:"hours12"`
	Meridiem    Meridiem `json:"meridiem"`
	Minutes     int      `json:"minutes"`
	MinuteOfDay int      `json:"minute_of_day"`
	Seconds     int      `json:"seconds"`
	SecondOfDay int      `json:"second_of_day"`
}

// Date is one calendar's view of the day. DayOfWeek is 1-based with Sunday
// as 1 and is the same in both calendars.
type Date struct {
	DayOfMonth  int `json:"day_of_month"`
	DayOfWeek   int `json:"day_of_week"`
	WeekOfMonth int `json:"week_of_month"`
	Month       int `json:"month"`
	Year        int `json:"year"`
}

// Moment is an immutable snapshot of a point in time.
type Moment struct {
	Time      Time `json:"time"`
	Gregorian Date `json:"gregorian"`
	Hijri     Date `json:"hijri"`
}

// Build snapshots t, read in its own location. hijriAdjustment shifts the
// Hijri day (see hijri.Adjust). A nil converter uses hijri.Default.
func Build(t time.Time, hijriAdjustment int, conv hijri.Converter) (Moment, error) {
	if conv == nil {
		conv = hijri.Default
	}

	h, err := conv.ToHijri(t)
	if err != nil {
		return Moment{}, fmt.Errorf("convert %s to hijri: %w", t.Format(time.DateOnly), err)
	}
	if hijriAdjustment != 0 {
		h = hijri.Adjust(h, hijriAdjustment)
	}

	hours, minutes, seconds := t.Clock()
	dow := int(t.Weekday()) + 1

	return Moment{
		Time: Time{
			Hours:       hours,
			Hours12:     hours12(hours),
			Meridiem:    meridiem(hours),
			Minutes:     minutes,
			MinuteOfDay: hours*60 + minutes,
			Seconds:     seconds,
			SecondOfDay: hours*3600 + minutes*60 + seconds,
		},
		Gregorian: Date{
			DayOfMonth:  t.Day(),
			DayOfWeek:   dow,
			WeekOfMonth: WeekOfMonth(t.Day()),
			Month:       int(t.Month()),
			Year:        t.Year(),
		},
		Hijri: Date{
			DayOfMonth:  h.Day,
			DayOfWeek:   dow,
			WeekOfMonth: WeekOfMonth(h.Day),
			Month:       h.Month,
			Year:        h.Year,
		},
	}, nil
}

// WeekOfMonth returns which occurrence of its weekday a day of the month is:
// days 1-7 are week 1, 8-14 week 2 and so on.
func WeekOfMonth(dayOfMonth int) int {
	if dayOfMonth < 1 {
		return 1
	}
	return (dayOfMonth-1)/7 + 1
}

// HijriDate returns the Hijri part as a hijri.Date.
func (m Moment) HijriDate() hijri.Date {
	return hijri.Date{Day: m.Hijri.DayOfMonth, Month: m.Hijri.Month, Year: m.Hijri.Year}
}

func hours12(h int) int {
	if h == 0 || h == 12 {
		return 12
	}
	return h % 12
}

func meridiem(h int) Meridiem {
	if h < 12 {
		return AM
	}
	return PM
}

const (
	MinutesPerDay = 24 * 60
	SecondsPerDay = 24 * 60 * 60
)

// Wrap folds n into [0, size).
func Wrap(n, size int) int {
	return ((n % size) + size) % size
}
