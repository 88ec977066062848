package schedule

import (
	"context"
	"fmt"

	"github.com/smokyabdulrahman/masjidi/internal/api"
)

// CalendarFetcher fetches a year of Al Adhan data.
type CalendarFetcher interface {
	FetchAnnualCalendar(ctx context.Context, year int, opts api.CalendarOptions) (*api.AnnualResponse, error)
}

// AlAdhan builds the table from the Al Adhan annual calendar of LeapYear. The
// API applies daylight saving itself.
type AlAdhan struct {
	Client  CalendarFetcher
	Options api.CalendarOptions
}

func (a *AlAdhan) IsDaylightSaved() bool { return true }

func (a *AlAdhan) Calendar(ctx context.Context) (Timings, error) {
	resp, err := a.Client.FetchAnnualCalendar(ctx, LeapYear, a.Options)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}

	days, err := resp.Days()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTimings, err)
	}

	out := make(Timings, len(days))
	for i, d := range days {
		day, err := parseDay(d.Timings.Map())
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i+1, err)
		}
		out[i] = day
	}

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// State identifies the request, so saved tables are refetched when the
// options change.
func (a *AlAdhan) State() any {
	return struct {
		Source  string              `json:"source"`
		Year    int                 `json:"year"`
		Options api.CalendarOptions `json:"options"`
	}{"aladhan", LeapYear, a.Options}
}
