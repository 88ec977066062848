package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/smokyabdulrahman/masjidi/internal/api"
	"github.com/smokyabdulrahman/masjidi/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// tableRows returns n rows where Fajr is 05:MM with MM the row index mod 60.
func tableRows(n int) []map[string]string {
	rows := make([]map[string]string, n)
	for i := range rows {
		rows[i] = map[string]string{
			"Fajr":  "05:" + pad(i%60),
			"Dhuhr": "12:00",
		}
	}
	return rows
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func writeTable(t *testing.T, rows any) string {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// ---------------------------------------------------------------------------
// Day index and daylight saving
// ---------------------------------------------------------------------------

func TestDayIndexOf(t *testing.T) {
	tests := []struct {
		month, day, want int
	}{
		{1, 1, 0},
		{1, 31, 30},
		{2, 1, 31},
		{2, 28, 58},
		{2, 29, 59},
		{3, 1, 60},
		{12, 31, 365},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayIndexOf(tt.month, tt.day), "%d/%d", tt.month, tt.day)
	}
}

func TestDayIndex_CommonYear(t *testing.T) {
	// March 1 lands on the same row in leap and common years.
	assert.Equal(t, 60, DayIndex(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, 60, DayIndex(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	// Feb 29 of a common year normalizes to March 1, still a valid row.
	idx := DayIndex(time.Date(2025, 2, 29, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 60, idx)
	assert.Less(t, idx, DaysInYear)

	assert.Equal(t, 365, DayIndex(time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)))
}

func TestDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), Date(59))
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), Date(365))
}

func TestDaylightSavingOffset(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"utc", time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), 0},
		{"fixed zone", time.Date(2025, 7, 1, 12, 0, 0, 0, time.FixedZone("AST", 3*3600)), 0},
		{"new york winter", time.Date(2025, 1, 15, 12, 0, 0, 0, ny), 0},
		{"new york summer", time.Date(2025, 7, 15, 12, 0, 0, 0, ny), 60},
		{"sydney summer", time.Date(2025, 1, 15, 12, 0, 0, 0, sydney), 60},
		{"sydney winter", time.Date(2025, 7, 15, 12, 0, 0, 0, sydney), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaylightSavingOffset(tt.t))
		})
	}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

func TestParseHourMinute(t *testing.T) {
	tests := []struct {
		in      string
		want    HourMinute
		wantErr bool
	}{
		{"05:01", HourMinute{5, 1}, false},
		{"05:01 (+03)", HourMinute{5, 1}, false},
		{" 23:59 (BST) ", HourMinute{23, 59}, false},
		{"00:00", HourMinute{0, 0}, false},
		{"24:00", HourMinute{}, true},
		{"12:60", HourMinute{}, true},
		{"noon", HourMinute{}, true},
		{"12", HourMinute{}, true},
		{"", HourMinute{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHourMinute(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMalformedTimings, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestHourMinute(t *testing.T) {
	hm := HourMinute{5, 7}
	assert.Equal(t, 5, hm.Hour())
	assert.Equal(t, 7, hm.Minute())
	assert.Equal(t, 307, hm.MinuteOfDay())
	assert.Equal(t, "05:07", hm.String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(make(Timings, DaysInYear)))
	assert.ErrorIs(t, Validate(make(Timings, 365)), ErrMalformedTimings)
	assert.ErrorIs(t, Validate(nil), ErrMalformedTimings)
}

// ---------------------------------------------------------------------------
// Table strategy
// ---------------------------------------------------------------------------

func TestTable_File(t *testing.T) {
	tbl := &Table{Source: FileSource{Path: writeTable(t, tableRows(DaysInYear))}}
	assert.False(t, tbl.IsDaylightSaved())

	got, err := tbl.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, got, DaysInYear)
	assert.Equal(t, HourMinute{5, 0}, got[0]["Fajr"])
	assert.Equal(t, HourMinute{5, 59}, got[59]["Fajr"])
	assert.Equal(t, HourMinute{12, 0}, got[365]["Dhuhr"])
}

func TestTable_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tableRows(DaysInYear))
	}))
	defer server.Close()

	tbl := &Table{Source: HTTPSource{URL: server.URL}}
	got, err := tbl.Calendar(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, DaysInYear)
}

func TestTable_Errors(t *testing.T) {
	badTime := tableRows(DaysInYear)
	badTime[10]["Asr"] = "3pm"

	tests := []struct {
		name string
		rows any
	}{
		{"short table", tableRows(365)},
		{"bad time", badTime},
		{"not an array", map[string]string{"Fajr": "05:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := &Table{Source: FileSource{Path: writeTable(t, tt.rows)}}
			_, err := tbl.Calendar(context.Background())
			assert.ErrorIs(t, err, ErrMalformedTimings)
		})
	}
}

func TestTable_SourceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := (&Table{Source: HTTPSource{URL: server.URL}}).Calendar(context.Background())
	assert.ErrorContains(t, err, "404")

	_, err = (&Table{Source: FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}}).Calendar(context.Background())
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// AlAdhan strategy
// ---------------------------------------------------------------------------

type fakeFetcher struct {
	resp  *api.AnnualResponse
	err   error
	year  int
	opts  api.CalendarOptions
	calls int
}

func (f *fakeFetcher) FetchAnnualCalendar(_ context.Context, year int, opts api.CalendarOptions) (*api.AnnualResponse, error) {
	f.calls++
	f.year, f.opts = year, opts
	return f.resp, f.err
}

// annual returns a leap year of API data with Fajr at 05:01 (+03).
func annual() *api.AnnualResponse {
	resp := &api.AnnualResponse{Code: 200, Data: map[string][]api.Data{}}
	for m := 1; m <= 12; m++ {
		n := monthDays[m-1]
		days := make([]api.Data, n)
		for i := range days {
			days[i] = api.Data{Timings: api.Timings{Fajr: "05:01 (+03)", Isha: "19:30 (+03)"}}
		}
		resp.Data[strconv.Itoa(m)] = days
	}
	return resp
}

func TestAlAdhan_Calendar(t *testing.T) {
	f := &fakeFetcher{resp: annual()}
	a := &AlAdhan{Client: f, Options: api.CalendarOptions{City: "Mecca", Country: "Saudi Arabia"}}
	assert.True(t, a.IsDaylightSaved())

	got, err := a.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, got, DaysInYear)
	assert.Equal(t, LeapYear, f.year)
	assert.Equal(t, "Mecca", f.opts.City)
	assert.Equal(t, HourMinute{5, 1}, got[0]["Fajr"])
	assert.Equal(t, HourMinute{19, 30}, got[59]["Isha"])
	_, hasSunrise := got[0]["Sunrise"]
	assert.False(t, hasSunrise, "empty timings are dropped")
}

func TestAlAdhan_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := (&AlAdhan{Client: &fakeFetcher{err: boom}}).Calendar(context.Background())
	assert.ErrorIs(t, err, boom)

	short := annual()
	delete(short.Data, "7")
	_, err = (&AlAdhan{Client: &fakeFetcher{resp: short}}).Calendar(context.Background())
	assert.ErrorIs(t, err, ErrMalformedTimings)

	bad := annual()
	bad.Data["3"][0].Timings.Fajr = "soon"
	_, err = (&AlAdhan{Client: &fakeFetcher{resp: bad}}).Calendar(context.Background())
	assert.ErrorIs(t, err, ErrMalformedTimings)
}

// ---------------------------------------------------------------------------
// Saved strategy
// ---------------------------------------------------------------------------

type countingStrategy struct {
	timings Timings
	err     error
	state   string
	calls   int
}

func (c *countingStrategy) IsDaylightSaved() bool { return false }

func (c *countingStrategy) Calendar(context.Context) (Timings, error) {
	c.calls++
	return c.timings, c.err
}

func (c *countingStrategy) State() any { return c.state }

func yearOf(hm HourMinute) Timings {
	out := make(Timings, DaysInYear)
	for i := range out {
		out[i] = Day{"Fajr": hm}
	}
	return out
}

func TestSaved_ReusesWhileStateUnchanged(t *testing.T) {
	inner := &countingStrategy{timings: yearOf(HourMinute{5, 0}), state: "a"}
	s := &Saved{Strategy: inner, Store: cache.NewMemory(), Key: "test", Logger: discard}
	ctx := context.Background()

	got, err := s.Calendar(ctx)
	require.NoError(t, err)
	assert.Equal(t, HourMinute{5, 0}, got[0]["Fajr"])

	_, err = s.Calendar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second call served from the store")

	inner.state = "b"
	inner.timings = yearOf(HourMinute{5, 30})
	got, err = s.Calendar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "changed state refetches")
	assert.Equal(t, HourMinute{5, 30}, got[0]["Fajr"])
}

func TestSaved_FallsBackToStale(t *testing.T) {
	store := cache.NewMemory()
	inner := &countingStrategy{timings: yearOf(HourMinute{5, 0}), state: "a"}
	s := &Saved{Strategy: inner, Store: store, Key: "test", Logger: discard}
	ctx := context.Background()

	_, err := s.Calendar(ctx)
	require.NoError(t, err)

	inner.state = "b"
	inner.err = errors.New("offline")
	got, err := s.Calendar(ctx)
	require.NoError(t, err)
	assert.Equal(t, HourMinute{5, 0}, got[0]["Fajr"])
}

func TestSaved_ErrorWithoutSavedTable(t *testing.T) {
	boom := errors.New("offline")
	s := &Saved{Strategy: &countingStrategy{err: boom}, Store: cache.NewMemory(), Key: "test", Logger: discard}

	_, err := s.Calendar(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSaved_IgnoresMalformedEntry(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()
	require.NoError(t, cache.SetJSON(ctx, store, "schedule|test", savedEntry{State: `"a"`, Timings: make(Timings, 3)}))

	inner := &countingStrategy{timings: yearOf(HourMinute{4, 45}), state: "a"}
	s := &Saved{Strategy: inner, Store: store, Key: "test", Logger: discard}

	got, err := s.Calendar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, HourMinute{4, 45}, got[0]["Fajr"])
}

func TestSaved_DaylightSavedFollowsInner(t *testing.T) {
	s := &Saved{Strategy: &AlAdhan{}, Store: cache.NewMemory()}
	assert.True(t, s.IsDaylightSaved())
	s = &Saved{Strategy: &Table{}, Store: cache.NewMemory()}
	assert.False(t, s.IsDaylightSaved())
}
