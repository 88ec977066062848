package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/display"
)

var flagEventsAll bool

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the Islamic events in effect today",
		Long:  "List the Islamic calendar events in effect at the board time, or the whole catalog with --all.\nCustom events come from the events section of the masjid profile.",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}

	cmd.Flags().BoolVar(&flagEventsAll, "all", false, "List every event in the catalog and mark the active ones")

	return cmd
}

type eventJSON struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func runEvents(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Events depend on the date only; no schedule is needed.
	m := s.masjid
	active := make(map[string]bool)
	for _, e := range m.IslamicEvents() {
		active[string(e)] = true
	}

	var out []eventJSON
	for _, e := range m.Events().Names() {
		if flagEventsAll || active[string(e)] {
			out = append(out, eventJSON{Name: string(e), Active: active[string(e)]})
		}
	}

	if FlagJSON {
		if out == nil {
			out = []eventJSON{}
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  %s\n\n", display.Bold(m.Now().HijriDate().String()))
	if len(out) == 0 {
		fmt.Fprintln(w, "  No events today.")
		return nil
	}
	for _, e := range out {
		if e.Active {
			fmt.Fprintf(w, "  %s %s\n", display.Green("●"), e.Name)
		} else {
			fmt.Fprintf(w, "  %s %s\n", display.Gray("○"), display.Gray(e.Name))
		}
	}
	return nil
}
