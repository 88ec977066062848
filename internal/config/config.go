// Package config provides the masjid profile for the masjidi CLI.
//
// The profile is stored as YAML at ~/.config/masjidi/config.yaml
// (XDG-compliant). The merge priority is: CLI flags > environment > profile
// file > defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smokyabdulrahman/masjidi/internal/api"
	"github.com/smokyabdulrahman/masjidi/internal/islamic"
	"github.com/smokyabdulrahman/masjidi/internal/masjid"
	"github.com/smokyabdulrahman/masjidi/internal/prayer"
)

const (
	configDirName  = "masjidi"
	configFileName = "config.yaml"
)

// Schedule sources and stores.
const (
	SourceAlAdhan = "aladhan"
	SourceTable   = "table"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreNone   = "none"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"name",
	"hijri_adjustment",
	"reminder_interval",
	"time_format",
	"cache_dir",
	"source", "table_url", "table_file", "store",
	"city", "country",
	"latitude", "longitude",
	"method", "school", "shafaq", "timezone",
}

// AlAdhan holds the Al Adhan calendar request settings.
type AlAdhan struct {
	Latitude  float64 `yaml:"latitude,omitempty" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude,omitempty" validate:"gte=-180,lte=180"`
	City      string  `yaml:"city,omitempty"`
	Country   string  `yaml:"country,omitempty" validate:"required_with=City"`
	// Method and School are pointers so "not set" differs from 0.
	Method   *int   `yaml:"method,omitempty" validate:"omitempty,min=0,max=99"`
	School   *int   `yaml:"school,omitempty" validate:"omitempty,oneof=0 1"`
	Shafaq   string `yaml:"shafaq,omitempty" validate:"omitempty,oneof=general ahmer abyad"`
	Timezone string `yaml:"timezone,omitempty"`
	// Tune maps a name from api.TuneOrder to a correction in minutes.
	Tune map[string]int `yaml:"tune,omitempty"`
}

// Schedule selects where the yearly prayer-time table comes from.
type Schedule struct {
	Source    string  `yaml:"source,omitempty" validate:"omitempty,oneof=aladhan table"`
	TableURL  string  `yaml:"table_url,omitempty" validate:"omitempty,url"`
	TableFile string  `yaml:"table_file,omitempty"`
	Store     string  `yaml:"store,omitempty" validate:"omitempty,oneof=file sqlite none"`
	AlAdhan   AlAdhan `yaml:"aladhan,omitempty"`
}

// Config is the masjid profile. Zero values mean "not set".
type Config struct {
	Name             string            `yaml:"name,omitempty"`
	HijriAdjustment  int               `yaml:"hijri_adjustment,omitempty" validate:"gte=-2,lte=2"`
	ReminderInterval time.Duration     `yaml:"reminder_interval,omitempty" validate:"gte=0"`
	TimeFormat       string            `yaml:"time_format,omitempty" validate:"omitempty,oneof=12h 24h"`
	CacheDir         string            `yaml:"cache_dir,omitempty"`
	Schedule         Schedule          `yaml:"schedule,omitempty"`
	Prayers          []prayer.Prayer   `yaml:"prayers,omitempty" validate:"required,min=1,unique=Key,dive"`
	Reminders        []masjid.Reminder `yaml:"reminders,omitempty" validate:"dive"`
	Events           islamic.Catalog   `yaml:"events,omitempty"`
	Notices          []masjid.Notice   `yaml:"notices,omitempty" validate:"dive"`
}

// defaultWaits are the iqama waits, in minutes, of the standard prayers.
var defaultWaits = map[string]int{
	"Fajr": 20, "Sunrise": 0, "Dhuhr": 15, "Asr": 15, "Maghrib": 10, "Isha": 15,
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	prayers := make([]prayer.Prayer, len(prayer.DefaultKeys))
	for i, key := range prayer.DefaultKeys {
		p := prayer.New(key)
		p.Duration = 8
		p.IqamaWait = defaultWaits[key]
		p.Azkar = 10
		prayers[i] = p
	}

	return Config{
		ReminderInterval: time.Minute,
		TimeFormat:       "24h",
		Schedule: Schedule{
			Source: SourceAlAdhan,
			Store:  StoreFile,
		},
		Prayers: prayers,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the profile from the default path.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(p)
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	p, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(p)
}

// Reset deletes the config file at the default path.
func Reset() error {
	p, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(p)
}

// LoadFrom reads the profile at path over Defaults(). A missing or empty
// file yields the defaults. Unknown keys are an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	cfg.Prayers = prayer.FromConfig(cfg.Prayers)
	return &cfg, nil
}

// SaveTo writes the config to a specific file path, creating the directory
// if needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Layout returns the Go time layout for TimeFormat.
func (c *Config) Layout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// CalendarOptions converts the Al Adhan settings for the API client.
func (c *Config) CalendarOptions() api.CalendarOptions {
	a := c.Schedule.AlAdhan
	opts := api.CalendarOptions{
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		City:      a.City,
		Country:   a.Country,
		Method:    -1,
		School:    -1,
		Shafaq:    a.Shafaq,
		Timezone:  a.Timezone,
	}
	if a.Method != nil {
		opts.Method = *a.Method
	}
	if a.School != nil {
		opts.School = *a.School
	}
	if len(a.Tune) > 0 {
		opts.Tune = make([]int, len(api.TuneOrder))
		for i, name := range api.TuneOrder {
			opts.Tune[i] = a.Tune[name]
		}
	}
	return opts
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	a := &c.Schedule.AlAdhan
	switch key {
	case "name":
		c.Name = value
	case "hijri_adjustment":
		v, err := strconv.Atoi(value)
		if err != nil || v < -2 || v > 2 {
			return fmt.Errorf("invalid hijri_adjustment %q: must be an integer between -2 and 2", value)
		}
		c.HijriAdjustment = v
	case "reminder_interval":
		v, err := time.ParseDuration(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid reminder_interval %q: must be a duration such as 30s or 2m", value)
		}
		c.ReminderInterval = v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "cache_dir":
		c.CacheDir = value
	case "source":
		if value != SourceAlAdhan && value != SourceTable {
			return fmt.Errorf("invalid source %q: must be %q or %q", value, SourceAlAdhan, SourceTable)
		}
		c.Schedule.Source = value
	case "table_url":
		c.Schedule.TableURL = value
	case "table_file":
		c.Schedule.TableFile = value
	case "store":
		if value != StoreFile && value != StoreSQLite && value != StoreNone {
			return fmt.Errorf("invalid store %q: must be file, sqlite or none", value)
		}
		c.Schedule.Store = value
	case "city":
		a.City = value
	case "country":
		a.Country = value
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		a.Latitude = v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		a.Longitude = v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 99 {
			return fmt.Errorf("invalid method %q: must be between 0 and 99", value)
		}
		a.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		a.School = &v
	case "shafaq":
		if value != "general" && value != "ahmer" && value != "abyad" {
			return fmt.Errorf("invalid shafaq %q: must be general, ahmer or abyad", value)
		}
		a.Shafaq = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		a.Timezone = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	a := c.Schedule.AlAdhan
	switch key {
	case "name":
		return c.Name, nil
	case "hijri_adjustment":
		return strconv.Itoa(c.HijriAdjustment), nil
	case "reminder_interval":
		if c.ReminderInterval == 0 {
			return "", nil
		}
		return c.ReminderInterval.String(), nil
	case "time_format":
		return c.TimeFormat, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "source":
		return c.Schedule.Source, nil
	case "table_url":
		return c.Schedule.TableURL, nil
	case "table_file":
		return c.Schedule.TableFile, nil
	case "store":
		return c.Schedule.Store, nil
	case "city":
		return a.City, nil
	case "country":
		return a.Country, nil
	case "latitude":
		if a.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(a.Latitude, 'f', -1, 64), nil
	case "longitude":
		if a.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(a.Longitude, 'f', -1, 64), nil
	case "method":
		if a.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*a.Method), nil
	case "school":
		if a.School == nil {
			return "", nil
		}
		return strconv.Itoa(*a.School), nil
	case "shafaq":
		return a.Shafaq, nil
	case "timezone":
		return a.Timezone, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}
