package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/theme"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// now is swapped out in tests.
var now = time.Now

func (a *App) renderCmd() *cobra.Command {
	var (
		minutesPerRow int
		day           string
		width         int
	)

	cmd := &cobra.Command{
		Use:   "render [timetable]",
		Short: "Print a timetable as a grid",
		Long: `Draw a timetable as a table of rows, one row per interval.
Overlapping slots are placed side by side.

Example:
  horario render "Night market" --rows=15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutesPerRow == 0 {
				minutesPerRow = a.config.UI.MinutesPerRow
			}
			switch minutesPerRow {
			case 15, 30, 60:
			default:
				return fmt.Errorf("--rows must be 15, 30 or 60, got %d", minutesPerRow)
			}
			d, err := timetable.ParseDay(day)
			if err != nil {
				return err
			}
			if width == 0 {
				width = termWidth()
			}

			b, err := a.loadBoard(cmd.Context(), argOrEmpty(args))
			if err != nil {
				return err
			}

			th, err := theme.Load(a.config.UI.Theme)
			if err != nil {
				return err
			}
			styles := view.NewGridStyles(theme.NewPalette(th))

			clock := timerange.FromMinutes(now().Hour()*60 + now().Minute())
			grid := view.BuildGrid(b, view.GridOptions{
				MinutesPerRow: minutesPerRow,
				Width:         width,
				Day:           d,
				Selected:      -1,
				Now:           &clock,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Title.Render(b.Timetable.Title)+" "+styles.Muted.Render(b.Timetable.Hours.String()))
			fmt.Fprintln(out, view.RenderGrid(grid, styles, width))
			fmt.Fprintln(out, styles.Muted.Render(view.FormatStats(b.Stats(d))))
			return nil
		},
	}

	cmd.Flags().IntVar(&minutesPerRow, "rows", 0, "Minutes per row: 15, 30 or 60 (default: config minutes_per_row)")
	cmd.Flags().StringVar(&day, "day", "", "Only show slots on this weekday")
	cmd.Flags().IntVar(&width, "width", 0, "Output width (default: terminal width)")

	return cmd
}
