package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [timetable]",
		Short: "Export a timetable as HTML, YAML or JSON",
		Long: `Write a timetable with its computed layout.

HTML output places every slot absolutely using the configured hour height
and unit. YAML and JSON output can be read back with 'horario import'.

Examples:
  horario export "Night market" --format=html -o market.html
  horario export 1 --format=json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && output != "" {
				if f, err := export.FormatFromPath(output); err == nil {
					format = string(f)
				}
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			b, err := a.loadBoard(cmd.Context(), argOrEmpty(args))
			if err != nil {
				return err
			}

			unit := a.config.Timetable.Unit
			render := func(w io.Writer) error {
				if f == export.FormatHTML {
					return export.HTML(w, b, unit)
				}
				return export.Encode(w, export.FromBoard(b, unit), f)
			}
			if output == "" {
				err = render(cmd.OutOrStdout())
			} else {
				err = writeFile(resolvePath(output), render)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("timetable_exported",
				zap.Int64("id", b.Timetable.ID),
				zap.String("format", string(f)),
				zap.String("output", output))

			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "html, yaml or json (default: from -o extension, else yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func (a *App) importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a timetable from YAML or JSON",
		Long: `Create a timetable and its slots from a document written by
'horario export'. Computed layout fields are ignored.

Slot times must be valid HH:MM unless fallback_time is set in the config,
in which case malformed times are replaced and reported. Missing times
are always an error.

Example:
  horario import market.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvePath(args[0])

			var (
				f   export.Format
				err error
			)
			if format != "" {
				f, err = export.ParseFormat(format)
			} else {
				f, err = export.FormatFromPath(path)
			}
			if err != nil {
				return err
			}

			t, count, err := a.importFile(cmd, path, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported timetable #%d: %s with %d slots\n", t.ID, t.Title, count)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "yaml or json (default: from file extension)")
	return cmd
}

func (a *App) importFile(cmd *cobra.Command, path string, f export.Format) (*timetable.Timetable, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	doc, err := export.Decode(file, f)
	if err != nil {
		return nil, 0, err
	}

	opts := export.BuildOptions{DefaultHourHeight: a.config.Timetable.HourHeight}
	if fb, ok := a.config.Fallback(); ok {
		opts.Fallback = &fb
		opts.OnFallback = func(slot, field, value string) {
			a.logger.Warn("time_fallback",
				zap.String("slot", slot),
				zap.String("field", field),
				zap.String("value", value),
				zap.Stringer("fallback", fb))
			fmt.Fprintln(cmd.ErrOrStderr(), formatWarn(fmt.Sprintf(
				"warning: slot %q %s %q is not HH:MM, using %s", slot, field, value, fb)))
		}
	}

	t, slots, err := doc.Build(opts)
	if err != nil {
		return nil, 0, err
	}

	repo, err := a.ensureRepo()
	if err != nil {
		return nil, 0, err
	}
	ctx := cmd.Context()
	if err := repo.CreateTimetable(ctx, t); err != nil {
		return nil, 0, fmt.Errorf("creating timetable: %w", err)
	}
	for _, s := range slots {
		s.TimetableID = t.ID
		if err := repo.CreateSlot(ctx, s); err != nil {
			_ = repo.DeleteTimetable(ctx, t.ID)
			return nil, 0, fmt.Errorf("creating slot %q: %w", s.Title, err)
		}
	}
	a.logger.Debug("timetable_imported",
		zap.String("path", path),
		zap.Int64("id", t.ID),
		zap.Int("slots", len(slots)))
	return t, len(slots), nil
}

// writeFile creates path and fills it with render. A failed render or
// close removes the file so no partial output is left behind.
func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	err = render(file)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing output file: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func resolvePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
