package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timerange"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func (a *App) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <HH:MM>",
		Short: "Validate a time of day",
		Long: `Parse a 24-hour HH:MM time and print its normalized form.

Example:
  horario parse 9:05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := timerange.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatSlot(c.String()),
				formatMuted(fmt.Sprintf("(%d min, %.4g h)", c.Minutes(), c.Hours())))
			return nil
		},
	}
}

func (a *App) rangeCmd() *cobra.Command {
	var (
		ref       string
		copyRange bool
	)

	cmd := &cobra.Command{
		Use:   "range <start> <end>",
		Short: "Show duration and offset of a time range",
		Long: `Compute the length of a range and its offset from a reference time.
End times earlier than the start run past midnight.

Examples:
  horario range 22:00 02:00
  horario range 09:30-11:00 --ref 08:00 --copy`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				r   timerange.Range
				err error
			)
			if len(args) == 1 {
				r, err = timerange.ParseRange(args[0])
			} else {
				r, err = timerange.New(args[0], args[1])
			}
			if err != nil {
				return err
			}

			if ref == "" {
				ref = a.config.Timetable.DayStart
			}
			refClock, err := timerange.Parse(ref)
			if err != nil {
				return fmt.Errorf("--ref: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatSlot(timerange.Format(r)))
			fmt.Fprintf(out, "  duration  %s  %s\n", formatStats(timerange.FormatHours(r.Duration())),
				formatMuted(fmt.Sprintf("(%.4g h)", r.Duration())))
			fmt.Fprintf(out, "  offset    %s  %s\n", formatStats(timerange.FormatHours(r.Offset(refClock))),
				formatMuted(fmt.Sprintf("(%.4g h from %s)", r.Offset(refClock), refClock)))
			if r.CrossesMidnight() {
				fmt.Fprintln(out, "  "+formatWarn("crosses midnight"))
			}

			if copyRange {
				if err := copyToClipboard(timerange.Format(r)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				a.logger.Debug("range_copied", zap.Stringer("range", r))
				fmt.Fprintln(out, formatMuted("copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Reference time for the offset (HH:MM, default: config day_start)")
	cmd.Flags().BoolVar(&copyRange, "copy", false, "Copy the formatted range to the clipboard")

	return cmd
}
