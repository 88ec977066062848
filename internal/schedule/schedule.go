// Package schedule supplies the yearly prayer-time table the controller reads
// from: 366 rows (a leap year, so February 29 always has a row), each mapping
// prayer keys to an hour and minute.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysInYear is the number of rows a valid table holds.
const DaysInYear = 366

// LeapYear is the year tables are built for.
const LeapYear = 2024

// ErrMalformedTimings is returned when a table does not have DaysInYear rows
// or a time cannot be parsed.
var ErrMalformedTimings = errors.New("schedule: malformed timings")

// monthDays are the month lengths of a leap year.
var monthDays = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// HourMinute is a clock time as [hour, minute].
type HourMinute [2]int

func (hm HourMinute) Hour() int   { return hm[0] }
func (hm HourMinute) Minute() int { return hm[1] }

// MinuteOfDay returns hour*60 + minute.
func (hm HourMinute) MinuteOfDay() int { return hm[0]*60 + hm[1] }

func (hm HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", hm[0], hm[1])
}

// Day maps prayer keys to their time on one day.
type Day map[string]HourMinute

// Timings is a whole year of days, January 1 first.
type Timings []Day

// Strategy produces the yearly table. IsDaylightSaved reports whether the
// table's times already include daylight-saving shifts.
type Strategy interface {
	IsDaylightSaved() bool
	Calendar(ctx context.Context) (Timings, error)
}

// Validate checks that t has exactly DaysInYear rows.
func Validate(t Timings) error {
	if len(t) != DaysInYear {
		return fmt.Errorf("%w: got %d days, want %d", ErrMalformedTimings, len(t), DaysInYear)
	}
	return nil
}

// DayIndexOf returns the row index of a month (1-12) and day of month, always
// counting February as 29 days. February 29 of a common year therefore never
// occurs and March 1 is row 60 in every year.
func DayIndexOf(month, day int) int {
	idx := 0
	for i := 0; i < month-1; i++ {
		idx += monthDays[i]
	}
	return idx + day - 1
}

// DayIndex returns the row index of t's local date.
func DayIndex(t time.Time) int {
	return DayIndexOf(int(t.Month()), t.Day())
}

// DaylightSavingOffset returns how many minutes t's zone is ahead of its
// standard offset. The standard offset is the smaller of the January 1 and
// July 1 offsets of t's year, which holds in both hemispheres.
func DaylightSavingOffset(t time.Time) int {
	loc := t.Location()
	_, jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc).Zone()
	_, jul := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, loc).Zone()
	_, cur := t.Zone()
	return (cur - min(jan, jul)) / 60
}

// ParseHourMinute parses "HH:MM", ignoring a trailing zone such as
// " (+03)" or " (BST)".
func ParseHourMinute(s string) (HourMinute, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return HourMinute{}, fmt.Errorf("%w: invalid time %q", ErrMalformedTimings, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return HourMinute{}, fmt.Errorf("%w: invalid hour in %q", ErrMalformedTimings, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return HourMinute{}, fmt.Errorf("%w: invalid minute in %q", ErrMalformedTimings, s)
	}
	return HourMinute{h, m}, nil
}

// parseDay parses one row of "HH:MM" strings.
func parseDay(row map[string]string) (Day, error) {
	day := make(Day, len(row))
	for key, raw := range row {
		hm, err := ParseHourMinute(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		day[key] = hm
	}
	return day, nil
}

// Date returns the date of row idx in LeapYear.
func Date(idx int) time.Time {
	return time.Date(LeapYear, time.January, 1+idx, 0, 0, 0, 0, time.UTC)
}
