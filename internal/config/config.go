// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/horario/internal/timerange"
)

// Config holds the application configuration.
type Config struct {
	Timetable TimetableConfig `toml:"timetable"`
	Storage   StorageConfig   `toml:"storage"`
	UI        UIConfig        `toml:"ui"`
}

// TimetableConfig holds defaults for new timetables and layout.
type TimetableConfig struct {
	DayStart   string  `toml:"day_start"`   // e.g., "09:00"
	DayEnd     string  `toml:"day_end"`     // e.g., "17:00", may be past midnight
	HourHeight float64 `toml:"hour_height"` // layout units per hour
	Unit       string  `toml:"unit"`        // "em", "rem" or "px"
	// FallbackTime replaces unparseable slot times when rendering.
	// Empty means invalid times are reported as errors.
	FallbackTime string `toml:"fallback_time"`
}

// UIConfig holds terminal settings.
type UIConfig struct {
	Theme         string `toml:"theme"`           // "mocha", "macchiato", "frappe", "latte", "light"
	MinutesPerRow int    `toml:"minutes_per_row"` // 15, 30 or 60
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Timetable: TimetableConfig{
			DayStart:   "09:00",
			DayEnd:     "17:00",
			HourHeight: 4,
			Unit:       "em",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:         "frappe",
			MinutesPerRow: 30,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "horario.db"
	}
	return filepath.Join(home, ".local", "share", "horario", "horario.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if v := os.Getenv("HORARIO_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "horario", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HORARIO_DAY_START"); v != "" {
		cfg.Timetable.DayStart = v
	}
	if v := os.Getenv("HORARIO_DAY_END"); v != "" {
		cfg.Timetable.DayEnd = v
	}
	if v := os.Getenv("HORARIO_HOUR_HEIGHT"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("HORARIO_HOUR_HEIGHT: %w", err)
		}
		cfg.Timetable.HourHeight = h
	}
	if v := os.Getenv("HORARIO_UNIT"); v != "" {
		cfg.Timetable.Unit = v
	}
	if v, ok := os.LookupEnv("HORARIO_FALLBACK_TIME"); ok {
		cfg.Timetable.FallbackTime = v
	}

	if v := os.Getenv("HORARIO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("HORARIO_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("HORARIO_MINUTES_PER_ROW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HORARIO_MINUTES_PER_ROW: %w", err)
		}
		cfg.UI.MinutesPerRow = n
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validUnits = map[string]bool{"em": true, "rem": true, "px": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hours, err := timerange.New(c.Timetable.DayStart, c.Timetable.DayEnd)
	if err != nil {
		return fmt.Errorf("timetable hours: %w", err)
	}
	if hours.DurationMinutes() == 0 {
		return errors.New("day_start and day_end must differ")
	}
	if c.Timetable.HourHeight <= 0 {
		return fmt.Errorf("hour_height must be positive, got %v", c.Timetable.HourHeight)
	}
	if !validUnits[c.Timetable.Unit] {
		return fmt.Errorf("unit must be em, rem or px, got %q", c.Timetable.Unit)
	}
	if c.Timetable.FallbackTime != "" {
		if _, err := timerange.Parse(c.Timetable.FallbackTime); err != nil {
			return fmt.Errorf("fallback_time: %w", err)
		}
	}
	switch c.UI.MinutesPerRow {
	case 15, 30, 60:
	default:
		return fmt.Errorf("minutes_per_row must be 15, 30 or 60, got %d", c.UI.MinutesPerRow)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Hours returns the configured default timetable hours.
// Callers must have validated the config.
func (c *Config) Hours() timerange.Range {
	return timerange.Must(c.Timetable.DayStart, c.Timetable.DayEnd)
}

// Fallback returns the configured fallback clock and whether one is set.
func (c *Config) Fallback() (timerange.Clock, bool) {
	if c.Timetable.FallbackTime == "" {
		return timerange.Clock{}, false
	}
	fb, err := timerange.Parse(c.Timetable.FallbackTime)
	if err != nil {
		return timerange.Clock{}, false
	}
	return fb, true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
