package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/logging"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    timetable.Repository
	config  *config.Config
	logger  *zap.Logger
	root    *cobra.Command
	debug   bool // Enable debug logging
	noColor bool
	logDone func()
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened lazily from the configured db path.
func NewApp(repo timetable.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, logger: zap.NewNop(), logDone: func() {}}

	a.root = &cobra.Command{
		Use:   "horario [timetable]",
		Short: "Build and render timetables",
		Long: `Horario keeps timetables of wall-clock slots.

Slots may run past midnight. Timetables can be viewed in the terminal,
rendered as a grid, or exported to HTML, YAML and JSON.

Run without a subcommand to open the viewer.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			logger, done, err := logging.New(a.debug, logging.DebugLogPath)
			if err != nil {
				return err
			}
			a.logger, a.logDone = logger, done
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			t, err := a.findTimetable(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return tui.Run(a.repo, t.ID, a.config, a.logger)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.parseCmd())
	a.root.AddCommand(a.rangeCmd())
	a.root.AddCommand(a.timetableCmd())
	a.root.AddCommand(a.slotCmd())
	a.root.AddCommand(a.renderCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "horario %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	defer func() { a.logDone() }()
	return a.root.ExecuteContext(ctx)
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

// ensureRepo opens the database on first use.
func (a *App) ensureRepo() (timetable.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	path := a.config.Storage.DBPath
	if path == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	a.logger.Debug("db_open", zap.String("path", path))
	a.repo = repo
	return repo, nil
}

// findTimetable resolves a timetable by ID, key, or title. An empty ref
// selects the only timetable when there is exactly one.
func (a *App) findTimetable(ctx context.Context, ref string) (*timetable.Timetable, error) {
	repo, err := a.ensureRepo()
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return repo.GetTimetable(ctx, id)
	}
	if ref != "" {
		t, err := repo.GetTimetableByKey(ctx, ref)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, timetable.ErrTimetableNotFound) {
			return nil, err
		}
	}

	all, err := repo.ListTimetables(ctx)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		switch len(all) {
		case 0:
			return nil, fmt.Errorf("%w: create one with 'horario timetable create'", timetable.ErrTimetableNotFound)
		case 1:
			return all[0], nil
		default:
			return nil, fmt.Errorf("%d timetables found, name one", len(all))
		}
	}
	for _, t := range all {
		if strings.EqualFold(t.Title, ref) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", timetable.ErrTimetableNotFound, ref)
}

func (a *App) loadBoard(ctx context.Context, ref string) (*timetable.Board, error) {
	t, err := a.findTimetable(ctx, ref)
	if err != nil {
		return nil, err
	}
	return timetable.LoadBoard(ctx, a.repo, t.ID)
}
