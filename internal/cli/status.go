package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/masjid"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

var flagFormat string

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the next boundary with a countdown",
		Long:  "Print a one-line countdown to the next iqama, the end of the current prayer, or the next prayer.\nMeant for status bars such as tmux.",
		RunE:  runStatus,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")

	return cmd
}

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Prayer      string `json:"prayer"`
	Name        string `json:"name"`
	Phase       string `json:"phase"`
	Status      string `json:"status"`
	Time        string `json:"time"`
	Remaining   string `json:"remaining"`
	SecondsLeft int    `json:"seconds_left"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.start(cmd.Context()); err != nil {
		return err
	}

	ts, ok := s.masjid.TimingStatus()
	if !ok {
		return fmt.Errorf("no prayer has a time today")
	}
	name := statusName(ts, s.masjid.Now())
	layout := s.cfg.Layout()

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), statusJSON{
			Prayer:      ts.Prayer.Key,
			Name:        name,
			Phase:       string(ts.Kind),
			Status:      string(s.masjid.Status().Kind),
			Time:        prayer.FormatClock(ts.At, layout),
			Remaining:   prayer.FormatRemaining(time.Duration(ts.SecondsLeft) * time.Second),
			SecondsLeft: ts.SecondsLeft,
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), formatStatus(ts, name, flagFormat, layout))
	return nil
}

func formatStatus(ts masjid.TimingStatus, name, format, layout string) string {
	return prayer.FormatOutput(ts.Line(name), format, layout)
}
