package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/masjidi/internal/config"
	"github.com/smokyabdulrahman/masjidi/internal/display"
)

// Global flags shared across all subcommands.
var (
	FlagConfig          string
	FlagAt              string
	FlagJSON            bool
	FlagVerbose         bool
	FlagCacheDir        string
	FlagTimeFormat      string
	FlagHijriAdjustment int
	FlagSource          string
	FlagCity            string
	FlagCountry         string
	FlagLatitude        float64
	FlagLongitude       float64
	FlagMethod          int
	FlagSchool          int
)

// loadedConfig holds the profile (file and environment) loaded during
// PersistentPreRunE. configPath is where it was read from.
var (
	loadedConfig *config.Config
	configPath   string
)

// NewRootCmd creates the root command for the masjidi CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "masjidi",
		Short:   "Masjid prayer board",
		Long:    "Shows a masjid's prayer board: adhan and iqama times, the current phase, Islamic events and notices.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if FlagJSON {
				display.SetEnabled(false)
			}
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}

			path := FlagConfig
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return err
				}
				path = p
			}
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := config.ApplyEnv(cfg); err != nil {
				return err
			}
			loadedConfig, configPath = cfg, path
			return nil
		},
		// Default action: show the board.
		RunE:          runBoard,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagConfig, "config", "", "Masjid profile (default: ~/.config/masjidi/config.yaml)")
	pf.StringVar(&FlagAt, "at", "", "Pretend the session starts at this local time, e.g. 2025-03-01T04:59:00")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Log debug output to stderr")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/masjidi/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.IntVar(&FlagHijriAdjustment, "hijri-adjustment", 0, "Shift the Hijri date by -2..2 days")
	pf.StringVar(&FlagSource, "source", "", "Schedule source: aladhan or table")
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (see 'masjidi methods')")
	pf.IntVar(&FlagSchool, "school", -1, "Override school (0=Shafi, 1=Hanafi)")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// effectiveConfig returns a copy of the loaded profile with explicitly set
// flags applied, in the priority CLI flags > environment > file > defaults.
// The result is validated.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Defaults()
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	overrides := []struct {
		flag, key string
		value     func() string
	}{
		{"cache-dir", "cache_dir", func() string { return FlagCacheDir }},
		{"time-format", "time_format", func() string { return FlagTimeFormat }},
		{"hijri-adjustment", "hijri_adjustment", func() string { return strconv.Itoa(FlagHijriAdjustment) }},
		{"source", "source", func() string { return FlagSource }},
		{"city", "city", func() string { return FlagCity }},
		{"country", "country", func() string { return FlagCountry }},
		{"latitude", "latitude", func() string { return strconv.FormatFloat(FlagLatitude, 'f', -1, 64) }},
		{"longitude", "longitude", func() string { return strconv.FormatFloat(FlagLongitude, 'f', -1, 64) }},
		{"method", "method", func() string { return strconv.Itoa(FlagMethod) }},
		{"school", "school", func() string { return strconv.Itoa(FlagSchool) }},
	}
	for _, o := range overrides {
		if !flagWasSet(flags, root, o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value()); err != nil {
			return nil, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// newLogger writes text logs to the command's stderr. Warnings and errors
// are shown by default; --verbose shows everything.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if FlagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
