// Package masjid is the aggregate the controller drives: the ordered prayer
// list, today's prayer times, the current moment and the questions asked of
// them (which prayer is next, what phase are we in, which events are on).
package masjid

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/smokyabdulrahman/masjidi/internal/hijri"
	"github.com/smokyabdulrahman/masjidi/internal/islamic"
	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

var (
	ErrNoPrayers       = errors.New("masjid: at least one prayer is required")
	ErrDuplicatePrayer = errors.New("masjid: duplicate prayer key")
)

// Reminder is a short text (typically a hadith) rotated on screen.
type Reminder struct {
	Sanad       string `yaml:"sanad,omitempty" json:"sanad,omitempty"`
	Content     string `yaml:"content" json:"content" validate:"required"`
	Attribution string `yaml:"attribution,omitempty" json:"attribution,omitempty"`
}

// Options are the optional parts of a Masjid.
type Options struct {
	HijriAdjustment int
	Reminders       []Reminder
	// Events defaults to islamic.Default().
	Events islamic.Catalog
	Notices []Notice
	// Converter defaults to hijri.Default.
	Converter hijri.Converter
}

// Masjid is safe for concurrent use. The current moment is replaced whole on
// every update, so readers never observe a half-updated moment.
type Masjid struct {
	initialNow time.Time
	prayers    []*prayer.Prayer
	adjustment int
	reminders  []Reminder
	events     islamic.Catalog
	notices    Board
	conv       hijri.Converter

	mu            sync.RWMutex
	nowTime       time.Time
	now           moment.Moment
	assigned      prayer.Assignments
	reminderIndex int
}

// New builds a Masjid positioned at initialNow with no prayer times
// assigned yet.
func New(initialNow time.Time, prayers []prayer.Prayer, opts Options) (*Masjid, error) {
	if len(prayers) == 0 {
		return nil, ErrNoPrayers
	}

	seen := make(map[string]bool, len(prayers))
	list := make([]*prayer.Prayer, len(prayers))
	for i := range prayers {
		p := prayers[i]
		if seen[p.Key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrayer, p.Key)
		}
		seen[p.Key] = true
		list[i] = &p
	}

	m := &Masjid{
		initialNow:    initialNow,
		prayers:       list,
		adjustment:    opts.HijriAdjustment,
		reminders:     append([]Reminder(nil), opts.Reminders...),
		events:        opts.Events,
		notices:       NormalizeNotices(opts.Notices),
		conv:          opts.Converter,
		reminderIndex: -1,
	}
	if m.events == nil {
		m.events = islamic.Default()
	}
	if m.conv == nil {
		m.conv = hijri.Default
	}

	if err := m.SetNow(initialNow); err != nil {
		return nil, err
	}
	return m, nil
}

// InitialNow is the moment the session started from.
func (m *Masjid) InitialNow() time.Time { return m.initialNow }

// HijriAdjustment is the configured Hijri day correction.
func (m *Masjid) HijriAdjustment() int { return m.adjustment }

// Prayers returns the prayer definitions in list order.
func (m *Masjid) Prayers() []prayer.Prayer {
	out := make([]prayer.Prayer, len(m.prayers))
	for i, p := range m.prayers {
		out[i] = *p
	}
	return out
}

// Events returns the event catalog in use.
func (m *Masjid) Events() islamic.Catalog { return m.events }

// SetNow moves the cursor to t.
func (m *Masjid) SetNow(t time.Time) error {
	mo, err := moment.Build(t, m.adjustment, m.conv)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.nowTime = t
	m.now = mo
	m.mu.Unlock()
	return nil
}

// Now returns the current moment.
func (m *Masjid) Now() moment.Moment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// NowTime returns the instant the current moment was built from.
func (m *Masjid) NowTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nowTime
}

// Assign replaces today's prayer times. Keys not naming a prayer are
// ignored; prayers missing from a are left without a time.
func (m *Masjid) Assign(a prayer.Assignments) {
	next := make(prayer.Assignments, len(a))
	for _, p := range m.prayers {
		if t, ok := a.Time(p.Key); ok {
			next[p.Key] = t
		}
	}

	m.mu.Lock()
	m.assigned = next
	m.mu.Unlock()
}

// Timed returns the prayer with today's time, if it has one.
func (m *Masjid) Timed(key string) (prayer.Timed, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.prayers {
		if p.Key != key {
			continue
		}
		t, ok := m.assigned.Time(key)
		if !ok {
			return prayer.Timed{}, false
		}
		return p.At(t), true
	}
	return prayer.Timed{}, false
}

// Today returns every prayer that has a time today, in list order.
func (m *Masjid) Today() []prayer.Timed {
	return m.view().timed
}

// NextReminder advances the rotation and returns the new reminder. It
// reports false when no reminders are configured.
func (m *Masjid) NextReminder() (Reminder, bool) {
	if len(m.reminders) == 0 {
		return Reminder{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminderIndex = (m.reminderIndex + 1) % len(m.reminders)
	return m.reminders[m.reminderIndex], true
}

// IsIslamicEvent reports whether e is in effect now. Unknown events are
// never in effect.
func (m *Masjid) IsIslamicEvent(e islamic.Event) bool {
	def, ok := m.events[e]
	if !ok {
		return false
	}
	return def.Matches(m.Now())
}

// IslamicEvents returns every event in effect now.
func (m *Masjid) IslamicEvents() []islamic.Event {
	return m.events.Active(m.Now())
}

// ActiveNotices returns the notices showing at the current instant.
func (m *Masjid) ActiveNotices() []Notice {
	return m.notices.Active(m.NowTime())
}

// Notices returns every configured notice.
func (m *Masjid) Notices() []Notice {
	return append([]Notice(nil), m.notices...)
}

// view is a consistent snapshot for one query.
type view struct {
	now   moment.Moment
	timed []prayer.Timed
}

func (m *Masjid) view() view {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v := view{now: m.now}
	for _, p := range m.prayers {
		if t, ok := m.assigned.Time(p.Key); ok {
			v.timed = append(v.timed, p.At(t))
		}
	}
	return v
}

func (v view) first(match func(prayer.Timed) bool) (prayer.Timed, bool) {
	for _, t := range v.timed {
		if match(t) {
			return t, true
		}
	}
	return prayer.Timed{}, false
}
