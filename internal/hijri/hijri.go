// Package hijri converts Gregorian dates to the Hijri calendar.
//
// Dates inside the Umm al-Qura table window are converted with the Umm al-Qura
// calendar; anything outside it falls back to the tabular (arithmetic) Islamic
// calendar, which can differ from the sighted calendar by a day or two.
package hijri

import (
	"errors"
	"fmt"
	"time"

	gohijri "github.com/hablullah/go-hijri"
)

// ErrUnsupportedDate is returned when no conversion path can resolve a date.
var ErrUnsupportedDate = errors.New("hijri: date cannot be converted")

const (
	daysInMonth  = 30
	monthsInYear = 12
)

// Window bounds of the Umm al-Qura conversion, inclusive, by calendar day.
var (
	windowStart = civil{1924, time.August, 1}
	windowEnd   = civil{2077, time.November, 16}
)

var monthNames = [...]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Ula", "Jumada al-Akhirah", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// Date is a Hijri calendar date. Month is 1-based.
type Date struct {
	Day   int
	Month int
	Year  int
}

// MonthName returns the transliterated month name, or "" when the month is
// out of range.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > len(monthNames) {
		return ""
	}
	return monthNames[d.Month-1]
}

// String formats the date as "1 Ramadan 1445 AH".
func (d Date) String() string {
	name := d.MonthName()
	if name == "" {
		return fmt.Sprintf("%d/%d/%d AH", d.Day, d.Month, d.Year)
	}
	return fmt.Sprintf("%d %s %d AH", d.Day, name, d.Year)
}

// Converter resolves the Hijri date of a point in time. Only the calendar day
// of t, read in t's own location, is significant.
type Converter interface {
	ToHijri(t time.Time) (Date, error)
}

// Default is the converter used when none is configured.
var Default Converter = UmmAlQura{Fallback: Tabular{}}

// UmmAlQura converts inside the supported window and delegates everything
// else to Fallback. A nil Fallback makes out-of-window dates an error.
type UmmAlQura struct {
	Fallback Converter
}

// ToHijri implements Converter.
func (u UmmAlQura) ToHijri(t time.Time) (Date, error) {
	day := civilOf(t)
	if !day.before(windowStart) && !windowEnd.before(day) {
		// The table is keyed by calendar day; pin the instant to noon UTC so
		// the library cannot shift it across a day boundary.
		noon := time.Date(day.year, day.month, day.day, 12, 0, 0, 0, time.UTC)
		d, err := gohijri.CreateUmmAlQuraDate(noon)
		if err == nil {
			return Date{Day: int(d.Day), Month: int(d.Month), Year: int(d.Year)}, nil
		}
		if u.Fallback == nil {
			return Date{}, fmt.Errorf("%w: %v", ErrUnsupportedDate, err)
		}
	}
	if u.Fallback == nil {
		return Date{}, fmt.Errorf("%w: %s outside %s..%s", ErrUnsupportedDate, day, windowStart, windowEnd)
	}
	return u.Fallback.ToHijri(t)
}

// Tabular is the arithmetic Islamic calendar (civil epoch, 30-year cycle with
// 11 leap years).
type Tabular struct{}

// islamicEpoch is the Julian day number of 1 Muharram 1 AH.
const islamicEpoch = 1948440

// ToHijri implements Converter.
func (Tabular) ToHijri(t time.Time) (Date, error) {
	jdn := civilOf(t).julianDay()
	if jdn < islamicEpoch {
		return Date{}, fmt.Errorf("%w: %s precedes the Hijri epoch", ErrUnsupportedDate, civilOf(t))
	}

	l := jdn - islamicEpoch + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	m := (24 * l) / 709
	d := l - (709*m)/24
	y := 30*n + j - 30

	return Date{Day: d, Month: m, Year: y}, nil
}

// Adjust shifts a Hijri date by a small number of days to account for
// regional sighting differences. Months are assumed to have 30 days and only a
// single carry is applied, so the result can name a day that does not exist in
// that month.
func Adjust(d Date, days int) Date {
	d.Day += days

	if d.Day > daysInMonth {
		d.Day -= daysInMonth
		d.Month++
	}
	if d.Day < 1 {
		d.Day += daysInMonth
		d.Month--
	}
	if d.Month > monthsInYear {
		d.Month -= monthsInYear
		d.Year++
	}
	if d.Month < 1 {
		d.Month += monthsInYear
		d.Year--
	}
	return d
}

type civil struct {
	year  int
	month time.Month
	day   int
}

func civilOf(t time.Time) civil {
	y, m, d := t.Date()
	return civil{y, m, d}
}

func (c civil) before(o civil) bool {
	if c.year != o.year {
		return c.year < o.year
	}
	if c.month != o.month {
		return c.month < o.month
	}
	return c.day < o.day
}

func (c civil) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.year, int(c.month), c.day)
}

// julianDay returns the Julian day number of a proleptic Gregorian date.
func (c civil) julianDay() int {
	a := (14 - int(c.month)) / 12
	y := c.year + 4800 - a
	m := int(c.month) + 12*a - 3
	return c.day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}
