package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smokyabdulrahman/masjidi/internal/cache"
)

// Stater is implemented by strategies whose output depends on options.
type Stater interface {
	State() any
}

// savedEntry is what Saved writes to the store.
type savedEntry struct {
	State   string  `json:"state"`
	Timings Timings `json:"timings"`
}

// Saved keeps the last table of a strategy in a cache.Store. A stored table
// is reused while the strategy's state is unchanged; otherwise the strategy
// is asked again. If that fails, the stored table is used even though it is
// stale.
type Saved struct {
	Strategy Strategy
	Store    cache.Store
	Key      string
	Logger   *slog.Logger
}

func (s *Saved) IsDaylightSaved() bool { return s.Strategy.IsDaylightSaved() }

func (s *Saved) Calendar(ctx context.Context) (Timings, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	key := "schedule|" + s.Key

	state, err := s.state()
	if err != nil {
		return nil, err
	}

	var saved *savedEntry
	var entry savedEntry
	switch err := cache.GetJSON(ctx, s.Store, key, &entry); {
	case err == nil && Validate(entry.Timings) == nil:
		saved = &entry
	case err == nil:
		logger.Warn("ignoring malformed saved schedule", "key", s.Key)
	case !errors.Is(err, cache.ErrNotFound):
		logger.Warn("reading saved schedule failed", "key", s.Key, "err", err)
	}

	if saved != nil && saved.State == state {
		logger.Debug("using saved schedule", "key", s.Key)
		return saved.Timings, nil
	}

	fresh, err := s.Strategy.Calendar(ctx)
	if err != nil {
		if saved == nil {
			return nil, err
		}
		logger.Warn("fetch failed, using saved schedule", "key", s.Key, "err", err)
		return saved.Timings, nil
	}

	if err := cache.SetJSON(ctx, s.Store, key, savedEntry{State: state, Timings: fresh}); err != nil {
		logger.Warn("saving schedule failed", "key", s.Key, "err", err)
	}
	return fresh, nil
}

func (s *Saved) state() (string, error) {
	st, ok := s.Strategy.(Stater)
	if !ok {
		return "null", nil
	}
	data, err := json.Marshal(st.State())
	if err != nil {
		return "", fmt.Errorf("encode schedule state: %w", err)
	}
	return string(data), nil
}
