package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  horario config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Timetable.DayStart = promptValue(reader, out, "Day start", cfg.Timetable.DayStart)
	cfg.Timetable.DayEnd = promptValue(reader, out, "Day end (may be past midnight)", cfg.Timetable.DayEnd)
	cfg.Timetable.HourHeight = promptFloat(reader, out, "Hour height", cfg.Timetable.HourHeight)
	cfg.Timetable.Unit = promptValue(reader, out, "Unit (em, rem, px)", cfg.Timetable.Unit)
	cfg.Timetable.FallbackTime = promptValue(reader, out, "Fallback time (empty for strict)", cfg.Timetable.FallbackTime)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.UI.MinutesPerRow = promptInt(reader, out, "Minutes per row (15, 30, 60)", cfg.UI.MinutesPerRow)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fallback := cfg.Timetable.FallbackTime
	if fallback == "" {
		fallback = "(strict)"
	}
	fmt.Fprintln(out, formatHeader("Current configuration:"))
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[timetable]")
	fmt.Fprintf(out, "  day_start        = %s\n", cfg.Timetable.DayStart)
	fmt.Fprintf(out, "  day_end          = %s\n", cfg.Timetable.DayEnd)
	fmt.Fprintf(out, "  hour_height      = %v\n", cfg.Timetable.HourHeight)
	fmt.Fprintf(out, "  unit             = %s\n", cfg.Timetable.Unit)
	fmt.Fprintf(out, "  fallback_time    = %s\n", fallback)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  minutes_per_row  = %d\n", cfg.UI.MinutesPerRow)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptFloat(reader *bufio.Reader, out io.Writer, label string, current float64) float64 {
	for {
		value := promptValue(reader, out, label, strconv.FormatFloat(current, 'f', -1, 64))
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	if !theme.IsAvailable(current) {
		current = theme.DefaultName
	}
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
