package masjid

import (
	"github.com/smokyabdulrahman/masjidi/internal/moment"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

// StatusKind is what the masjid is doing right now.
type StatusKind string

const (
	StatusClock  StatusKind = "clock"
	StatusPrayer StatusKind = "prayer"
	StatusAzkar  StatusKind = "azkar"
)

// Status is the contextual status. Prayer is nil for StatusClock.
type Status struct {
	Kind   StatusKind
	Prayer *prayer.Timed
}

// Key returns the key of the status prayer, or "".
func (s Status) Key() string {
	if s.Prayer == nil {
		return ""
	}
	return s.Prayer.Key
}

// Same reports whether s and o have the same kind and prayer.
func (s Status) Same(o Status) bool {
	return s.Kind == o.Kind && s.Key() == o.Key()
}

// TimingKind names the boundary a TimingStatus counts down to.
type TimingKind string

const (
	TimingUpcoming TimingKind = prayer.PhaseUpcoming
	TimingIqama    TimingKind = prayer.PhaseIqama
	TimingPrayer   TimingKind = prayer.PhasePrayer
)

// TimingStatus counts down to the next boundary. SecondsLeft is always in
// [0, 86400).
type TimingStatus struct {
	Prayer      prayer.Timed
	Kind        TimingKind
	SecondsLeft int
	// At is the minute of day of the boundary.
	At int
}

// Line converts the status for prayer.FormatOutput.
func (s TimingStatus) Line(name string) prayer.Line {
	return prayer.Line{
		Key:         s.Prayer.Key,
		Name:        name,
		Phase:       string(s.Kind),
		At:          s.At,
		SecondsLeft: s.SecondsLeft,
	}
}

// UpcomingPrayer is the first prayer whose time, pushed back by its upcoming
// offset, is still ahead; after the last one it wraps to the first (the next
// day's). It reports false when no prayer has a time.
func (m *Masjid) UpcomingPrayer() (prayer.Timed, bool) {
	return m.view().upcoming()
}

func (v view) upcoming() (prayer.Timed, bool) {
	if len(v.timed) == 0 {
		return prayer.Timed{}, false
	}
	if t, ok := v.first(func(t prayer.Timed) bool {
		return t.IsAfter(v.now, t.Settings(v.now).Upcoming.Offset)
	}); ok {
		return t, true
	}
	return v.timed[0], true
}

// PreviousPrayer is the last prayer at or before now, wrapping to the last
// prayer of the list.
func (m *Masjid) PreviousPrayer() (prayer.Timed, bool) {
	v := m.view()
	if len(v.timed) == 0 {
		return prayer.Timed{}, false
	}
	for i := len(v.timed) - 1; i >= 0; i-- {
		if v.timed[i].IsBeforeOrEqual(v.now) {
			return v.timed[i], true
		}
	}
	return v.timed[len(v.timed)-1], true
}

func (m *Masjid) CurrentInIqamaWait() (prayer.Timed, bool) {
	v := m.view()
	return v.first(func(t prayer.Timed) bool { return t.InIqamaWait(v.now) })
}

func (m *Masjid) CurrentInPrayer() (prayer.Timed, bool) {
	v := m.view()
	return v.first(func(t prayer.Timed) bool { return t.InPrayer(v.now) })
}

func (m *Masjid) CurrentInAzkar() (prayer.Timed, bool) {
	v := m.view()
	return v.first(func(t prayer.Timed) bool { return t.InAzkar(v.now) })
}

// CurrentPrayer is the first prayer waiting for iqama or being prayed. This
// is what an adhan announces, including prayers with no wait at all.
func (m *Masjid) CurrentPrayer() (prayer.Timed, bool) {
	v := m.view()
	return v.first(func(t prayer.Timed) bool { return t.InIqamaWait(v.now) || t.InPrayer(v.now) })
}

// Status is azkar over prayer over clock.
func (m *Masjid) Status() Status {
	return m.view().status()
}

func (v view) status() Status {
	if t, ok := v.first(func(t prayer.Timed) bool { return t.InAzkar(v.now) }); ok {
		return Status{Kind: StatusAzkar, Prayer: &t}
	}
	if t, ok := v.first(func(t prayer.Timed) bool { return t.InPrayer(v.now) }); ok {
		return Status{Kind: StatusPrayer, Prayer: &t}
	}
	return Status{Kind: StatusClock}
}

// TimingStatus is iqama countdown over prayer countdown over the countdown
// to the upcoming prayer. It reports false when no prayer has a time.
func (m *Masjid) TimingStatus() (TimingStatus, bool) {
	v := m.view()
	now := v.now

	if t, ok := v.first(func(t prayer.Timed) bool { return t.InIqamaWait(now) }); ok {
		return TimingStatus{
			Prayer:      t,
			Kind:        TimingIqama,
			SecondsLeft: moment.Wrap(t.TimeLeftForIqama(now), moment.SecondsPerDay),
			At:          t.IqamaTime(now),
		}, true
	}

	if t, ok := v.first(func(t prayer.Timed) bool { return t.InPrayer(now) }); ok {
		return TimingStatus{
			Prayer:      t,
			Kind:        TimingPrayer,
			SecondsLeft: moment.Wrap(t.TimeLeftForPrayer(now), moment.SecondsPerDay),
			At:          t.FinishTime(now),
		}, true
	}

	t, ok := v.upcoming()
	if !ok {
		return TimingStatus{}, false
	}
	offset := t.Settings(now).Upcoming.Offset
	return TimingStatus{
		Prayer:      t,
		Kind:        TimingUpcoming,
		SecondsLeft: moment.Wrap(t.TimeLeftForIqamaWait(now)+offset*60, moment.SecondsPerDay),
		At:          t.OffsettedTime(),
	}, true
}
