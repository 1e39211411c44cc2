package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/horario/internal/timerange"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Timetable.DayStart != "09:00" {
		t.Errorf("expected day_start 09:00, got %s", cfg.Timetable.DayStart)
	}
	if cfg.Timetable.DayEnd != "17:00" {
		t.Errorf("expected day_end 17:00, got %s", cfg.Timetable.DayEnd)
	}
	if cfg.Timetable.HourHeight != 4 {
		t.Errorf("expected hour_height 4, got %v", cfg.Timetable.HourHeight)
	}
	if cfg.Timetable.FallbackTime != "" {
		t.Errorf("expected strict parsing by default, got fallback %q", cfg.Timetable.FallbackTime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timetable.DayStart != "09:00" {
		t.Errorf("expected default day_start, got %s", cfg.Timetable.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[timetable]
day_start = "18:00"
day_end = "02:00"
hour_height = 60
unit = "px"

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"
minutes_per_row = 15
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timetable.DayStart != "18:00" || cfg.Timetable.DayEnd != "02:00" {
		t.Errorf("unexpected hours %s-%s", cfg.Timetable.DayStart, cfg.Timetable.DayEnd)
	}
	if got := cfg.Hours().Duration(); got != 8 {
		t.Errorf("expected 8 hour timetable across midnight, got %v", got)
	}
	if cfg.Timetable.Unit != "px" || cfg.Timetable.HourHeight != 60 {
		t.Errorf("unexpected scale %v%s", cfg.Timetable.HourHeight, cfg.Timetable.Unit)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" || cfg.UI.MinutesPerRow != 15 {
		t.Errorf("unexpected ui config %+v", cfg.UI)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[timetable]
day_start = "08:00"
day_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("HORARIO_DAY_START", "10:00")
	t.Setenv("HORARIO_HOUR_HEIGHT", "2.5")
	t.Setenv("HORARIO_FALLBACK_TIME", "09:00")
	t.Setenv("HORARIO_MINUTES_PER_ROW", "60")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timetable.DayStart != "10:00" {
		t.Errorf("expected env day_start 10:00, got %s", cfg.Timetable.DayStart)
	}
	if cfg.Timetable.DayEnd != "16:00" {
		t.Errorf("expected file day_end 16:00, got %s", cfg.Timetable.DayEnd)
	}
	if cfg.Timetable.HourHeight != 2.5 {
		t.Errorf("expected hour_height 2.5, got %v", cfg.Timetable.HourHeight)
	}
	fb, ok := cfg.Fallback()
	if !ok || fb != timerange.MustParse("09:00") {
		t.Errorf("expected fallback 09:00, got %v (%v)", fb, ok)
	}
	if cfg.UI.MinutesPerRow != 60 {
		t.Errorf("expected minutes_per_row 60, got %d", cfg.UI.MinutesPerRow)
	}
}

func TestLoadFrom_BadEnvNumber(t *testing.T) {
	t.Setenv("HORARIO_HOUR_HEIGHT", "tall")
	if _, err := LoadFrom("/nonexistent/config.toml"); err == nil {
		t.Fatal("expected error for non-numeric hour height")
	}
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("this is not toml ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		is      error
	}{
		{name: "valid default", modify: func(*Config) {}},
		{name: "wrapping hours", modify: func(c *Config) { c.Timetable.DayStart, c.Timetable.DayEnd = "20:00", "04:00" }},
		{
			name:    "invalid start",
			modify:  func(c *Config) { c.Timetable.DayStart = "25:00" },
			wantErr: true,
			is:      timerange.ErrInvalidTimeFormat,
		},
		{
			name:    "missing end",
			modify:  func(c *Config) { c.Timetable.DayEnd = "" },
			wantErr: true,
			is:      timerange.ErrMissingField,
		},
		{name: "zero length day", modify: func(c *Config) { c.Timetable.DayEnd = c.Timetable.DayStart }, wantErr: true},
		{name: "zero hour height", modify: func(c *Config) { c.Timetable.HourHeight = 0 }, wantErr: true},
		{name: "bad unit", modify: func(c *Config) { c.Timetable.Unit = "pt" }, wantErr: true},
		{
			name:    "bad fallback",
			modify:  func(c *Config) { c.Timetable.FallbackTime = "9am" },
			wantErr: true,
			is:      timerange.ErrInvalidTimeFormat,
		},
		{name: "bad row size", modify: func(c *Config) { c.UI.MinutesPerRow = 20 }, wantErr: true},
		{name: "empty db path", modify: func(c *Config) { c.Storage.DBPath = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Validate() error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Timetable.DayStart = "07:30"
	cfg.Storage.DBPath = "/tmp/roundtrip.db"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Timetable.DayStart != "07:30" || loaded.Storage.DBPath != "/tmp/roundtrip.db" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/data/h.db"); got != filepath.Join(home, "data", "h.db") {
		t.Errorf("expandPath = %s", got)
	}
	if got := expandPath("/abs/h.db"); got != "/abs/h.db" {
		t.Errorf("expandPath should keep absolute paths, got %s", got)
	}
}
