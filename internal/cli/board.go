package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/display"
	"github.com/smokyabdulrahman/masjidi/internal/masjid"
	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

// boardStatusFormat is the status line template shown under the clock.
const boardStatusFormat = "{{.Name}} {{.Phase}} in {{.Remaining}}"

func runBoard(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var reminder masjid.Reminder
	s.controller.Reminder.Subscribe(func(r masjid.Reminder) { reminder = r })

	if err := s.start(cmd.Context()); err != nil {
		return err
	}

	v := boardView(s.masjid, s.cfg.Name, s.cfg.Layout(), reminder)
	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), v)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), display.RenderBoard(v))
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

// boardView formats the aggregate's current state for display.
func boardView(m *masjid.Masjid, name, layout string, reminder masjid.Reminder) display.BoardView {
	now := m.Now()
	at := m.NowTime()
	status := m.Status()

	v := display.BoardView{
		Name:     name,
		Date:     at.Format("Monday 02 January 2006"),
		Hijri:    now.HijriDate().String(),
		Clock:    at.Format(layout),
		Status:   string(status.Kind),
		Reminder: formatReminder(reminder),
	}

	if ts, ok := m.TimingStatus(); ok {
		v.StatusLine = prayer.FormatOutput(ts.Line(statusName(ts, now)), boardStatusFormat, layout)
	}

	current, hasCurrent := m.CurrentPrayer()
	if !hasCurrent && status.Prayer != nil {
		current, hasCurrent = *status.Prayer, true
	}
	next, hasNext := m.UpcomingPrayer()

	for _, t := range m.Today() {
		st := ""
		switch {
		case hasCurrent && t.Key == current.Key:
			st = display.RowCurrent
		case hasNext && t.Key == next.Key:
			st = display.RowNext
		case t.AzkarFinishTime(now) <= now.Time.MinuteOfDay:
			st = display.RowPassed
		}
		v.Prayers = append(v.Prayers, display.BoardPrayer{
			Name:  t.Settings(now).Name,
			Adhan: prayer.FormatClock(t.OffsettedTime(), layout),
			Iqama: prayer.FormatClock(t.IqamaTime(now), layout),
			Ends:  prayer.FormatClock(t.FinishTime(now), layout),
			State: st,
		})
	}

	for _, e := range m.IslamicEvents() {
		v.Events = append(v.Events, string(e))
	}
	for _, n := range m.ActiveNotices() {
		v.Notices = append(v.Notices, noticeLine(n))
	}
	return v
}

// statusName is the name announced for a timing status: the upcoming name
// while counting down to a prayer, the prayer's name afterwards.
func statusName(ts masjid.TimingStatus, now moment.Moment) string {
	s := ts.Prayer.Settings(now)
	if ts.Kind == masjid.TimingUpcoming {
		return s.Upcoming.Name
	}
	return s.Name
}

func noticeLine(n masjid.Notice) string {
	if n.Kind == masjid.NoticeLesson && n.Lesson != nil {
		parts := []string{n.Name}
		for _, p := range []string{n.Lesson.Title, n.Lesson.Subject, n.Lesson.Lecturer} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " · ")
	}
	if n.Body != "" {
		return n.Name + ": " + n.Body
	}
	return n.Name
}

func formatReminder(r masjid.Reminder) string {
	if r.Content == "" {
		return ""
	}
	if r.Attribution != "" {
		return r.Content + " (" + r.Attribution + ")"
	}
	return r.Content
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
