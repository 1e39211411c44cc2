package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

func (a *App) slotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage the slots of a timetable",
	}
	cmd.AddCommand(a.slotAddCmd())
	cmd.AddCommand(a.slotRemoveCmd())
	cmd.AddCommand(a.slotMoveCmd())
	cmd.AddCommand(a.slotFreeCmd())
	return cmd
}

func (a *App) slotAddCmd() *cobra.Command {
	var (
		start       string
		end         string
		day         string
		location    string
		description string
		noOverlap   bool
	)

	cmd := &cobra.Command{
		Use:   "add <timetable> <title>",
		Short: "Add a slot",
		Long: `Add a slot to a timetable. The slot must lie within the
timetable hours; it may run past midnight if the timetable does.
Sharing time with another slot on the same day prints a warning, or
fails with --no-overlap.

Example:
  horario slot add "Night market" "Live band" --start=23:30 --end=01:00 --day=fri`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.findTimetable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s, err := timetable.NewSlot(args[1], start, end)
			if err != nil {
				return err
			}
			d, err := timetable.ParseDay(day)
			if err != nil {
				return err
			}
			s.Day = d
			s.TimetableID = t.ID
			s.Location = location
			s.Description = description

			b, err := timetable.LoadBoard(cmd.Context(), a.repo, t.ID)
			if err != nil {
				return err
			}
			if err := b.Timetable.Validate(s); err != nil {
				return err
			}
			if s.Duration() > 0 && !b.CanFit(s.Day, s.Range.Start, s.Duration()) {
				msg := fmt.Sprintf("%s overlaps another slot on %s", s.Range, timetable.DayName(s.Day))
				if noOverlap {
					return errors.New(msg)
				}
				a.logger.Warn("slot_overlap", zap.Stringer("range", s.Range), zap.Int("day", s.Day))
				fmt.Fprintln(cmd.ErrOrStderr(), formatWarn("warning: "+msg))
			}

			if err := a.repo.CreateSlot(cmd.Context(), s); err != nil {
				return fmt.Errorf("creating slot: %w", err)
			}
			a.logger.Debug("slot_created",
				zap.Int64("timetable_id", t.ID),
				zap.Int64("id", s.ID),
				zap.Stringer("range", s.Range))

			fmt.Fprintf(cmd.OutOrStdout(), "Created slot #%d: %s %s\n", s.ID, s.Title, formatSlot(s.Range.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&day, "day", "", "Weekday (default: every day)")
	cmd.Flags().StringVar(&location, "location", "", "Where the slot happens")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")
	cmd.Flags().BoolVar(&noOverlap, "no-overlap", false, "Refuse slots that share time with another slot")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) slotRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <slot-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a slot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			repo, err := a.ensureRepo()
			if err != nil {
				return err
			}
			if err := repo.DeleteSlot(cmd.Context(), id); err != nil {
				return fmt.Errorf("removing slot: %w", err)
			}
			a.logger.Debug("slot_removed", zap.Int64("id", id))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed slot #%d\n", id)
			return nil
		},
	}
}

func (a *App) slotMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <slot-id> <start> <end>",
		Short: "Move or resize a slot",
		Long: `Give a slot new start and end times. The new range must
still lie within the timetable hours.

Example:
  horario slot move 4 00:00 01:30`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := timerange.New(args[1], args[2])
			if err != nil {
				return err
			}
			repo, err := a.ensureRepo()
			if err != nil {
				return err
			}
			if err := repo.UpdateSlotRange(cmd.Context(), id, r); err != nil {
				return fmt.Errorf("moving slot: %w", err)
			}
			a.logger.Debug("slot_moved", zap.Int64("id", id), zap.Stringer("range", r))
			fmt.Fprintf(cmd.OutOrStdout(), "Moved slot #%d to %s\n", id, formatSlot(r.String()))
			return nil
		},
	}
}

func (a *App) slotFreeCmd() *cobra.Command {
	var (
		minutes int
		day     string
		first   bool
	)

	cmd := &cobra.Command{
		Use:   "free [timetable]",
		Short: "List gaps between slots",
		Long: `Show the parts of a timetable's hours that no slot covers.

With --first, print only the earliest gap that fits --min minutes,
trimmed to that length.

Example:
  horario slot free "Night market" --min=45 --day=fri
  horario slot free "Night market" --min=30 --first`,
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

			out := cmd.OutOrStdout()
			if first {
				r, ok := b.NextFree(d, max(minutes, 1))
				if !ok {
					fmt.Fprintln(out, formatMuted("No free time."))
					return nil
				}
				fmt.Fprintln(out, formatSlot(r.String()))
				return nil
			}

			found := false
			for _, r := range b.FreeRanges(d) {
				if r.DurationMinutes() < minutes {
					continue
				}
				found = true
				fmt.Fprintf(out, "  %s  %s\n", formatSlot(r.String()), formatMuted(view.FormatDuration(r.DurationMinutes())))
			}
			if !found {
				fmt.Fprintln(out, formatMuted("No free time."))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "min", 1, "Only show gaps at least this many minutes long")
	cmd.Flags().StringVar(&day, "day", "", "Only consider slots on this weekday")
	cmd.Flags().BoolVar(&first, "first", false, "Print only the first gap that fits")
	return cmd
}
