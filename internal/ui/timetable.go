package ui

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

func (a *App) timetableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timetable",
		Aliases: []string{"tt"},
		Short:   "Manage timetables",
	}
	cmd.AddCommand(a.timetableCreateCmd())
	cmd.AddCommand(a.timetableListCmd())
	cmd.AddCommand(a.timetableShowCmd())
	cmd.AddCommand(a.timetableDeleteCmd())
	return cmd
}

func (a *App) timetableCreateCmd() *cobra.Command {
	var (
		start       string
		end         string
		hourHeight  float64
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a timetable",
		Long: `Create a timetable covering the hours from start to end.
End may be past midnight. Defaults come from the config file.

Example:
  horario timetable create "Night market" --start=18:00 --end=02:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if start == "" {
				start = a.config.Timetable.DayStart
			}
			if end == "" {
				end = a.config.Timetable.DayEnd
			}
			if hourHeight == 0 {
				hourHeight = a.config.Timetable.HourHeight
			}

			t, err := timetable.NewTimetable(args[0], start, end, hourHeight)
			if err != nil {
				return err
			}
			t.Description = description

			repo, err := a.ensureRepo()
			if err != nil {
				return err
			}
			if err := repo.CreateTimetable(cmd.Context(), t); err != nil {
				return fmt.Errorf("creating timetable: %w", err)
			}
			a.logger.Debug("timetable_created", zap.Int64("id", t.ID), zap.String("key", t.Key))

			fmt.Fprintf(cmd.OutOrStdout(), "Created timetable #%d: %s %s\n",
				t.ID, t.Title, formatSlot(t.Hours.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First hour (HH:MM, default: config day_start)")
	cmd.Flags().StringVar(&end, "end", "", "Last hour (HH:MM, default: config day_end)")
	cmd.Flags().Float64Var(&hourHeight, "hour-height", 0, "Layout units per hour (default: config hour_height)")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")

	return cmd
}

func (a *App) timetableListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timetables",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.ensureRepo()
			if err != nil {
				return err
			}
			all, err := repo.ListTimetables(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, formatMuted("No timetables yet."))
				return nil
			}
			for _, t := range all {
				fmt.Fprintf(out, "#%-4d %-24s %s  %s\n", t.ID, t.Title, formatSlot(t.Hours.String()),
					formatMuted(timerange.FormatHours(t.Hours.Duration())+"h"))
			}
			return nil
		},
	}
}

func (a *App) timetableShowCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "show [timetable]",
		Short: "List the slots of a timetable",
		Long: `Show a timetable's slots in order, with their durations and
offsets from the first hour. Overlapping slots are flagged.

Example:
  horario timetable show "Night market" --day=fri`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := timetable.ParseDay(day)
			if err != nil {
				return err
			}
			b, err := a.loadBoard(cmd.Context(), argOrEmpty(args))
			if err != nil {
				return err
			}
			printBoard(cmd, b, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only show slots on this weekday")
	return cmd
}

func printBoard(cmd *cobra.Command, b *timetable.Board, day int) {
	out := cmd.OutOrStdout()
	t := b.Timetable

	fmt.Fprintf(out, "%s %s\n", formatHeader(t.Title), formatMuted(fmt.Sprintf("#%d %s", t.ID, t.Key)))
	fmt.Fprintf(out, "%s\n\n", formatSlot(t.Hours.String()))

	slots := b.SlotsOn(day)
	if len(slots) == 0 {
		fmt.Fprintln(out, formatMuted("No slots."))
		return
	}
	for _, s := range slots {
		line := fmt.Sprintf("  #%-4d %s  %-24s %6s  +%s",
			s.ID, formatSlot(s.Range.String()), s.Title,
			view.FormatDuration(s.Duration()),
			timerange.FormatHours(s.Range.Offset(t.Hours.Start)))
		if s.Day != timetable.EveryDay {
			line += "  " + formatMuted(timetable.DayName(s.Day))
		}
		if s.Location != "" {
			line += "  " + formatMuted("@ "+s.Location)
		}
		if len(b.FindOverlapping(s)) > 0 {
			line += "  " + formatWarn("overlaps")
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "\n%s\n", formatStats(view.FormatStats(b.Stats(day))))
}

func (a *App) timetableDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <timetable>",
		Short: "Delete a timetable and its slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.findTimetable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteTimetable(cmd.Context(), t.ID); err != nil {
				return fmt.Errorf("deleting timetable: %w", err)
			}
			a.logger.Debug("timetable_deleted", zap.Int64("id", t.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted timetable #%d: %s\n", t.ID, t.Title)
			return nil
		},
	}
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
