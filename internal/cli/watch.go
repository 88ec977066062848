package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/controller"
	"github.com/smokyabdulrahman/masjidi/internal/display"
	"github.com/smokyabdulrahman/masjidi/internal/masjid"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

var flagWatchFor time.Duration

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the board clock and print every transition",
		Long:  "Tick once a second and print day changes, phase changes, adhan, iqama and reminders until interrupted.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	cmd.Flags().DurationVar(&flagWatchFor, "for", 0, "Stop after this long (default: until interrupted)")

	return cmd
}

// watcher prints controller events. Writes are serialized because the first
// tick runs on the caller and later ticks on the controller goroutine.
type watcher struct {
	mu     sync.Mutex
	out    io.Writer
	m      *masjid.Masjid
	layout string
	live   bool
	last   string
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagWatchFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagWatchFor)
		defer cancel()
	}

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w := &watcher{
		out:    cmd.OutOrStdout(),
		m:      s.masjid,
		layout: s.cfg.Layout(),
		live:   display.Enabled() && !FlagJSON,
	}
	w.subscribe(s.controller)

	if err := s.start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	w.mu.Lock()
	if w.live {
		fmt.Fprintln(w.out)
	}
	w.mu.Unlock()
	return nil
}

func (w *watcher) subscribe(c *controller.Controller) {
	c.Day.Subscribe(func(e controller.DayEvent) {
		w.printf("day", "%s · %s", e.Current.Format("Monday 02 January 2006"), w.m.Now().HijriDate())
		for _, ev := range w.m.IslamicEvents() {
			w.printf("event", "%s", ev)
		}
	})
	c.State.Subscribe(func(st masjid.Status) {
		if st.Prayer == nil {
			w.printf("state", "%s", st.Kind)
			return
		}
		w.printf("state", "%s %s", st.Kind, st.Prayer.Settings(w.m.Now()).Name)
	})
	c.Adhan.Subscribe(func(e controller.AdhanEvent) {
		w.printf("adhan", "%s at %s (+%ds)", e.Prayer.Settings(w.m.Now()).Name,
			prayer.FormatClock(e.Prayer.OffsettedTime(), w.layout), e.Offset())
	})
	c.Iqama.Subscribe(func(t prayer.Timed) {
		w.printf("iqama", "%s", t.Settings(w.m.Now()).Name)
	})
	c.Reminder.Subscribe(func(r masjid.Reminder) {
		w.printf("reminder", "%s", formatReminder(r))
	})
	c.Tick.Subscribe(func(controller.TickEvent) {
		w.status()
	})
}

// printf writes one transition line stamped with the board time.
func (w *watcher) printf(kind, format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.live {
		fmt.Fprint(w.out, "\r\033[K")
		w.last = ""
	}
	stamp := w.m.NowTime().Format("15:04:05")
	fmt.Fprintf(w.out, "%s  %-8s %s\n", display.Dim(stamp), kind, fmt.Sprintf(format, args...))
}

// status redraws the live countdown when it changed. It only runs on a
// terminal.
func (w *watcher) status() {
	if !w.live {
		return
	}
	ts, ok := w.m.TimingStatus()
	if !ok {
		return
	}
	line := display.Phase(string(ts.Kind), formatStatus(ts, statusName(ts, w.m.Now()), prayer.FormatFull, w.layout))

	w.mu.Lock()
	defer w.mu.Unlock()
	if line == w.last {
		return
	}
	w.last = line
	fmt.Fprint(w.out, "\r\033[K"+line)
}
