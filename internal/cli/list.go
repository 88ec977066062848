package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/display"
	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
	"github.com/smokyabdulrahman/masjidi/internal/schedule"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of adhan times for N days starting today (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// listDayJSON is one day of list output.
type listDayJSON struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri,omitempty"`
	Timings map[string]string `json:"timings"`
}

func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days, err := parseDays(args, defaultDays)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	timings, err := s.controller.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}
	if err := schedule.Validate(timings); err != nil {
		return err
	}

	layout := s.cfg.Layout()
	prayers := s.masjid.Prayers()
	start := s.masjid.InitialNow()

	headers := []string{"Date"}
	for _, p := range prayers {
		headers = append(headers, p.Name)
	}
	tbl := display.NewTable(headers...)
	var out []listDayJSON

	for i := range days {
		date := start.AddDate(0, 0, i)
		times := dayTimes(timings, date, s.strategy.IsDaylightSaved())

		row := []string{date.Format("Mon 02 Jan")}
		day := listDayJSON{Date: date.Format("2006-01-02"), Timings: make(map[string]string)}
		if mo, err := moment.Build(date, s.cfg.HijriAdjustment, nil); err == nil {
			day.Hijri = mo.HijriDate().String()
		}
		for _, p := range prayers {
			cell := "--:--"
			if t, ok := times[p.Key]; ok {
				cell = prayer.FormatClock(t, layout)
				day.Timings[p.Key] = cell
			}
			row = append(row, cell)
		}
		tbl.AddRow(row...)
		out = append(out, day)
	}
	tbl.Highlight(0)

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	title := fmt.Sprintf("Prayer Times: %d Days", days)
	if s.cfg.Name != "" {
		title = s.cfg.Name + ": " + title
	}
	fmt.Fprintf(w, "  %s\n\n", display.Bold(title))
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

// parseDays reads an optional positive day count.
func parseDays(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer)", args[0])
	}
	return n, nil
}

// dayTimes returns the schedule's times for date's row as minutes of day,
// shifted for daylight saving when the schedule does not include it.
func dayTimes(t schedule.Timings, date time.Time, daylightSaved bool) prayer.Assignments {
	dst := 0
	if !daylightSaved {
		dst = schedule.DaylightSavingOffset(date)
	}
	row := t[schedule.DayIndex(date)]
	out := make(prayer.Assignments, len(row))
	for key, hm := range row {
		out[key] = moment.Wrap(hm.MinuteOfDay()+dst, moment.MinutesPerDay)
	}
	return out
}
