package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/display"
	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query one prayer's adhan and iqama",
		Long:  "Show one prayer's adhan, iqama and end time for today, or across several days with --days.\nDate overrides from the profile are applied per day.",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

type queryDayJSON struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Adhan string `json:"adhan"`
	Iqama string `json:"iqama"`
	Ends  string `json:"ends"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	days, err := queryDays(flagQueryDays)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var def *prayer.Prayer
	var keys []string
	for _, p := range s.masjid.Prayers() {
		keys = append(keys, p.Key)
		if strings.EqualFold(p.Key, args[0]) {
			def = &p
		}
	}
	if def == nil {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(keys, ", "))
	}

	timings, err := s.controller.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}

	layout := s.cfg.Layout()
	start := s.masjid.InitialNow()
	tbl := display.NewTable("Date", "Name", "Adhan", "Iqama", "Ends")
	var out []queryDayJSON

	for i := range days {
		date := start.AddDate(0, 0, i)
		minute, ok := dayTimes(timings, date, s.strategy.IsDaylightSaved()).Time(def.Key)
		if !ok {
			tbl.AddRow(date.Format("Mon 02 Jan"), def.Name, "--:--", "--:--", "--:--")
			continue
		}

		t := def.At(minute)
		y, mo, d := date.Date()
		at := time.Date(y, mo, d, 0, t.OffsettedTime(), 0, 0, date.Location())
		m, err := moment.Build(at, s.cfg.HijriAdjustment, nil)
		if err != nil {
			return err
		}

		day := queryDayJSON{
			Date:  date.Format("2006-01-02"),
			Name:  t.Settings(m).Name,
			Adhan: prayer.FormatClock(t.OffsettedTime(), layout),
			Iqama: prayer.FormatClock(t.IqamaTime(m), layout),
			Ends:  prayer.FormatClock(t.FinishTime(m), layout),
		}
		out = append(out, day)
		tbl.AddRow(date.Format("Mon 02 Jan"), day.Name, day.Adhan, day.Iqama, day.Ends)
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

// queryDays parses --days: empty is today only.
func queryDays(v string) (int, error) {
	switch v {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	default:
		return parseDays([]string{v}, 1)
	}
}
