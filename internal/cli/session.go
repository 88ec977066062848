package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/masjidi/internal/api"
	"github.com/smokyabdulrahman/masjidi/internal/cache"
	"github.com/smokyabdulrahman/masjidi/internal/clock"
	"github.com/smokyabdulrahman/masjidi/internal/config"
	"github.com/smokyabdulrahman/masjidi/internal/controller"
	"github.com/smokyabdulrahman/masjidi/internal/geo"
	"github.com/smokyabdulrahman/masjidi/internal/islamic"
	"github.com/smokyabdulrahman/masjidi/internal/masjid"
	"github.com/smokyabdulrahman/masjidi/internal/schedule"
)

const sqliteFile = "masjidi.db"

// atLayouts are accepted by --at, tried in order.
var atLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// session is a masjid wired to its schedule and controller for one command.
type session struct {
	cfg        *config.Config
	log        *slog.Logger
	loc        *time.Location
	store      cache.Store
	strategy   schedule.Strategy
	masjid     *masjid.Masjid
	controller *controller.Controller
	closers    []func() error
}

// openSession resolves the effective profile and builds everything up to a
// stopped controller.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: newLogger(cmd)}

	if err := s.openStore(cmd); err != nil {
		return nil, err
	}
	if err := s.resolveLocation(ctx, time.Now()); err != nil {
		s.Close()
		return nil, err
	}

	s.loc, err = location(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	now, err := startTime(FlagAt, s.loc, time.Now())
	if err != nil {
		s.Close()
		return nil, err
	}
	s.strategy = s.newStrategy()

	s.masjid, err = masjid.New(now, cfg.Prayers, masjid.Options{
		HijriAdjustment: cfg.HijriAdjustment,
		Reminders:       cfg.Reminders,
		Events:          islamic.Default().Merge(cfg.Events),
		Notices:         cfg.Notices,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	s.controller = controller.New(s.masjid, s.strategy, controller.Options{
		Clock:            clock.Real{},
		Logger:           s.log,
		ReminderInterval: cfg.ReminderInterval,
	})
	return s, nil
}

// start runs the controller's first tick. One-shot commands read the
// aggregate afterwards and Close.
func (s *session) start(ctx context.Context) error {
	return s.controller.Start(ctx)
}

// Close stops the controller and releases the store.
func (s *session) Close() {
	if s.controller != nil {
		s.controller.Destroy()
	}
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.log.Warn("closing store failed", "err", err)
		}
	}
	s.closers = nil
}

func (s *session) openStore(cmd *cobra.Command) error {
	switch s.cfg.Schedule.Store {
	case config.StoreNone:
		s.store = cache.NewMemory()
	case config.StoreSQLite:
		dir := s.cfg.CacheDir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return err
			}
			dir = d
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create cache directory %s: %w", dir, err)
		}
		db, err := cache.OpenSQLite(filepath.Join(dir, sqliteFile))
		if err != nil {
			return err
		}
		s.store = db
		s.closers = append(s.closers, db.Close)
	default:
		f, err := cache.NewFile(s.cfg.CacheDir)
		if err != nil {
			// Cache init failure is non-fatal; the schedule is fetched every time.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
			s.store = cache.NewMemory()
			return nil
		}
		s.store = f
	}
	return nil
}

// resolveLocation fills in Al Adhan coordinates when the profile has none.
// Priority: profile/flags > cached geolocation > IP auto-detect.
func (s *session) resolveLocation(ctx context.Context, now time.Time) error {
	a := &s.cfg.Schedule.AlAdhan
	if s.cfg.Schedule.Source != config.SourceAlAdhan || a.Latitude != 0 || a.Longitude != 0 || a.City != "" {
		return nil
	}

	loc := cache.LoadGeo(ctx, s.store, now)
	if loc == nil {
		detected, err := geo.NewDetector().Detect(ctx)
		if err != nil {
			return fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		if err := cache.SaveGeo(ctx, s.store, detected, now); err != nil {
			s.log.Debug("caching geolocation failed", "err", err)
		}
		loc = detected
	}

	s.log.Debug("using detected location", "lat", loc.Latitude, "lon", loc.Longitude, "timezone", loc.Timezone)
	a.Latitude, a.Longitude = loc.Latitude, loc.Longitude
	if a.Timezone == "" {
		a.Timezone = loc.Timezone
	}
	return nil
}

func (s *session) newStrategy() schedule.Strategy {
	var base schedule.Strategy
	switch s.cfg.Schedule.Source {
	case config.SourceTable:
		var src schedule.Source = schedule.FileSource{Path: s.cfg.Schedule.TableFile}
		if s.cfg.Schedule.TableURL != "" {
			src = schedule.HTTPSource{URL: s.cfg.Schedule.TableURL}
		}
		base = &schedule.Table{Source: src}
	default:
		base = &schedule.AlAdhan{Client: api.NewClient(), Options: s.cfg.CalendarOptions()}
	}

	if s.cfg.Schedule.Store == config.StoreNone {
		return base
	}
	return &schedule.Saved{Strategy: base, Store: s.store, Key: s.cfg.Schedule.Source, Logger: s.log}
}

// location is the masjid's time zone: the profile's timezone, else the
// system zone.
func location(cfg *config.Config) (*time.Location, error) {
	tz := cfg.Schedule.AlAdhan.Timezone
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// startTime parses an --at override in loc, or returns now in loc.
func startTime(at string, loc *time.Location, now time.Time) (time.Time, error) {
	if at == "" {
		return now.In(loc), nil
	}
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, at, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid --at %q: want YYYY-MM-DDTHH:MM[:SS] or RFC 3339", at)
}
