// Package controller drives a masjid.Masjid with the clock: once a second it
// moves the aggregate to the current instant, assigns the day's prayer times
// from the yearly schedule and publishes what changed.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/smokyabdulrahman/masjidi/internal/clock"
	"github.com/smokyabdulrahman/masjidi/internal/masjid"
	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"github.com/smokyabdulrahman/masjidi/internal/notify"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
	"github.com/smokyabdulrahman/masjidi/internal/schedule"
)

// ErrNotStarted is returned by operations that need a running controller.
var ErrNotStarted = errors.New("controller: not started")

const (
	DefaultTickInterval = time.Second
	fetchKey            = "calendar"
)

// DayEvent is published when the local calendar day changes, and on the
// first tick. HasPrevious is false on the first tick. The day rolls over at
// local midnight, not at the UTC epoch-day boundary.
type DayEvent struct {
	Previous    time.Time
	Current     time.Time
	HasPrevious bool
}

// TickEvent is published on every tick after prayer times are assigned.
type TickEvent struct {
	Now   time.Time
	First bool
}

// AdhanEvent announces a prayer. Offset reports, when called, how many
// seconds have passed since the prayer's time.
type AdhanEvent struct {
	Prayer prayer.Timed
	Offset func() int
}

// Options configure a Controller. Zero values pick the defaults.
type Options struct {
	Clock  clock.Clock
	Logger *slog.Logger
	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration
	// ReminderInterval rotates reminders; zero disables rotation after the
	// first reminder.
	ReminderInterval time.Duration
}

// Controller is safe for concurrent use. Listeners run on the controller's
// goroutine and must not call Start or Destroy.
type Controller struct {
	masjid   *masjid.Masjid
	strategy schedule.Strategy
	clock    clock.Clock
	logger   *slog.Logger

	tickInterval     time.Duration
	reminderInterval time.Duration

	Day      *notify.Topic[DayEvent]
	Tick     *notify.Topic[TickEvent]
	State    *notify.Topic[masjid.Status]
	Adhan    *notify.Topic[AdhanEvent]
	Iqama    *notify.Topic[prayer.Timed]
	Reminder *notify.Topic[masjid.Reminder]

	fetches singleflight.Group
	fetchMu sync.Mutex
	fetched schedule.Timings

	// runMu serializes Start and Destroy.
	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	started   bool
	timings   schedule.Timings
	startTime time.Time
	log       *slog.Logger

	prevDay          int64
	prevDayTime      time.Time
	hasPrevDay       bool
	prevStatus       *masjid.Status
	prevAdhan        string
	prevIqama        string
	iqamaInitialized bool
}

// New returns a stopped controller for m, reading its schedule from s.
func New(m *masjid.Masjid, s schedule.Strategy, opts Options) *Controller {
	c := &Controller{
		masjid:           m,
		strategy:         s,
		clock:            opts.Clock,
		logger:           opts.Logger,
		tickInterval:     opts.TickInterval,
		reminderInterval: opts.ReminderInterval,
	}
	if c.clock == nil {
		c.clock = clock.Real{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tickInterval <= 0 {
		c.tickInterval = DefaultTickInterval
	}
	c.log = c.logger

	c.Day = notify.NewTopic[DayEvent]("day", c.logger)
	c.Tick = notify.NewTopic[TickEvent]("tick", c.logger)
	c.State = notify.NewTopic[masjid.Status]("state", c.logger)
	c.Adhan = notify.NewTopic[AdhanEvent]("adhan", c.logger)
	c.Iqama = notify.NewTopic[prayer.Timed]("iqama", c.logger)
	c.Reminder = notify.NewTopic[masjid.Reminder]("reminder", c.logger)
	return c
}

// Masjid returns the driven aggregate.
func (c *Controller) Masjid() *masjid.Masjid { return c.masjid }

// Started reports whether Start has succeeded and Destroy not been called
// since.
func (c *Controller) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Fetch returns the yearly schedule. The first successful result is kept;
// concurrent callers share one request and failures are not kept.
func (c *Controller) Fetch(ctx context.Context) (schedule.Timings, error) {
	c.fetchMu.Lock()
	cached := c.fetched
	c.fetchMu.Unlock()
	if cached != nil {
		return cached, nil
	}

	ch := c.fetches.DoChan(fetchKey, func() (any, error) {
		t, err := c.strategy.Calendar(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.fetchMu.Lock()
		c.fetched = t
		c.fetchMu.Unlock()
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(schedule.Timings), nil
	}
}

// Start fetches the schedule, runs the first tick and reminder rotation and
// then keeps ticking until ctx is done, Destroy is called or Start is called
// again.
func (c *Controller) Start(ctx context.Context) error {
	timings, err := c.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}

	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.stop()

	session := uuid.NewString()
	log := c.logger.With("session", session)
	if err := schedule.Validate(timings); err != nil {
		log.Error("schedule is unusable, ticks will be skipped", "err", err)
	}

	c.mu.Lock()
	c.started = true
	c.timings = timings
	c.startTime = c.clock.Now()
	c.log = log
	c.hasPrevDay = false
	c.prevStatus = nil
	c.prevAdhan = ""
	c.prevIqama = ""
	c.iqamaInitialized = false
	c.mu.Unlock()

	log.Info("controller started", "initial_now", c.masjid.InitialNow(), "days", len(timings))

	c.tick(true)
	c.rotateReminder()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	go c.loop(loopCtx, done)
	return nil
}

// Destroy stops the loop and removes every listener.
func (c *Controller) Destroy() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.stop()

	c.mu.Lock()
	c.started = false
	c.mu.Unlock()

	c.Day.Clear()
	c.Tick.Clear()
	c.State.Clear()
	c.Adhan.Clear()
	c.Iqama.Clear()
	c.Reminder.Clear()
}

// stop cancels the running loop and waits for it. Callers hold runMu.
func (c *Controller) stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel, c.done = nil, nil
}

func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	var reminders <-chan time.Time
	if c.reminderInterval > 0 {
		rt := time.NewTicker(c.reminderInterval)
		defer rt.Stop()
		reminders = rt.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(false)
		case <-reminders:
			c.rotateReminder()
		}
	}
}

func (c *Controller) rotateReminder() {
	if r, ok := c.masjid.NextReminder(); ok {
		c.Reminder.Publish(r)
	}
}

// tick advances the aggregate and publishes every event whose sentinel
// changed. Events are published after the controller's lock is released.
func (c *Controller) tick(first bool) {
	var publish []func()

	c.mu.Lock()
	log := c.log
	if !c.started {
		c.mu.Unlock()
		log.Debug("tick skipped", "err", ErrNotStarted)
		return
	}
	if err := schedule.Validate(c.timings); err != nil {
		c.mu.Unlock()
		log.Error("tick skipped", "err", err)
		return
	}

	now := c.masjid.InitialNow().Add(c.clock.Now().Sub(c.startTime))
	if err := c.masjid.SetNow(now); err != nil {
		log.Error("moving to current time failed", "now", now, "err", err)
	}

	day := localDay(now)
	newDay := first || !c.hasPrevDay || day != c.prevDay
	if newDay {
		ev := DayEvent{Previous: c.prevDayTime, Current: now, HasPrevious: c.hasPrevDay}
		c.prevDay, c.prevDayTime, c.hasPrevDay = day, now, true
		publish = append(publish, func() { c.Day.Publish(ev) })
	}

	dst := 0
	if !c.strategy.IsDaylightSaved() {
		dst = schedule.DaylightSavingOffset(now)
	}
	idx := schedule.DayIndex(now)
	row := c.timings[idx]
	assigned := make(prayer.Assignments, len(row))
	for _, p := range c.masjid.Prayers() {
		hm, ok := row[p.Key]
		if !ok {
			if newDay {
				log.Warn("prayer missing from schedule", "prayer", p.Key, "day", idx)
			}
			continue
		}
		assigned[p.Key] = moment.Wrap(hm.MinuteOfDay()+dst, moment.MinutesPerDay)
	}
	c.masjid.Assign(assigned)

	tickEv := TickEvent{Now: now, First: first}
	publish = append(publish, func() { c.Tick.Publish(tickEv) })

	adhan, hasAdhan := c.masjid.CurrentPrayer()
	inPrayer, hasInPrayer := c.masjid.CurrentInPrayer()
	status := c.masjid.Status()

	if c.prevStatus == nil || !c.prevStatus.Same(status) {
		c.prevStatus = &status
		publish = append(publish, func() { c.State.Publish(status) })
	}

	adhanKey := keyOf(adhan, hasAdhan)
	if adhanKey != c.prevAdhan {
		c.prevAdhan = adhanKey
		if hasAdhan {
			ev := AdhanEvent{Prayer: adhan, Offset: c.adhanOffset(adhan)}
			publish = append(publish, func() { c.Adhan.Publish(ev) })
		}
	}

	iqamaKey := keyOf(inPrayer, hasInPrayer)
	if iqamaKey != c.prevIqama {
		c.prevIqama = iqamaKey
		if c.iqamaInitialized && hasInPrayer {
			publish = append(publish, func() { c.Iqama.Publish(inPrayer) })
		}
	}
	c.iqamaInitialized = true
	c.mu.Unlock()

	for _, p := range publish {
		p()
	}
}

// adhanOffset returns the seconds elapsed since t's time, read from the
// aggregate's current moment when called.
func (c *Controller) adhanOffset(t prayer.Timed) func() int {
	return func() int {
		return c.masjid.Now().Time.SecondOfDay - t.OffsettedTime()*60
	}
}

func keyOf(t prayer.Timed, ok bool) string {
	if !ok {
		return ""
	}
	return t.Key
}

// localDay numbers t's local calendar date.
func localDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
