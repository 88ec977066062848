package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "MASJIDI_"

// envOverrides mirrors the settable keys. Empty values are not applied.
type envOverrides struct {
	Name             string `env:"NAME"`
	HijriAdjustment  string `env:"HIJRI_ADJUSTMENT"`
	ReminderInterval string `env:"REMINDER_INTERVAL"`
	TimeFormat       string `env:"TIME_FORMAT"`
	CacheDir         string `env:"CACHE_DIR"`
	Source           string `env:"SOURCE"`
	TableURL         string `env:"TABLE_URL"`
	TableFile        string `env:"TABLE_FILE"`
	Store            string `env:"STORE"`
	City             string `env:"CITY"`
	Country          string `env:"COUNTRY"`
	Latitude         string `env:"LATITUDE"`
	Longitude        string `env:"LONGITUDE"`
	Method           string `env:"METHOD"`
	School           string `env:"SCHOOL"`
	Shafaq           string `env:"SHAFAQ"`
	Timezone         string `env:"TIMEZONE"`
}

func (o envOverrides) pairs() [][2]string {
	return [][2]string{
		{"name", o.Name},
		{"hijri_adjustment", o.HijriAdjustment},
		{"reminder_interval", o.ReminderInterval},
		{"time_format", o.TimeFormat},
		{"cache_dir", o.CacheDir},
		{"source", o.Source},
		{"table_url", o.TableURL},
		{"table_file", o.TableFile},
		{"store", o.Store},
		{"city", o.City},
		{"country", o.Country},
		{"latitude", o.Latitude},
		{"longitude", o.Longitude},
		{"method", o.Method},
		{"school", o.School},
		{"shafaq", o.Shafaq},
		{"timezone", o.Timezone},
	}
}

// ApplyEnv overlays MASJIDI_* environment variables onto cfg. Values go
// through Set, so they are checked the same way as `config set`.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	for _, kv := range o.pairs() {
		if kv[1] == "" {
			continue
		}
		if err := cfg.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("env %s: %w", EnvPrefix+strings.ToUpper(kv[0]), err)
		}
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
