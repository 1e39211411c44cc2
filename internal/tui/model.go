// Package tui provides the terminal viewer for horario timetables.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
	"github.com/javiermolinar/horario/internal/tui/theme"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// Fixed layout heights in terminal lines.
const (
	headerH    = 2
	footerH    = 4
	gridChrome = 4 // top border, header row, header rule, bottom border
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo        timetable.Repository
	timetableID int64
	config      *config.Config
	logger      *zap.Logger
	now         func() time.Time
	copyFn      func(string) error

	// Theme and styles
	palette *theme.Palette
	styles  view.GridStyles

	// State
	board         *timetable.Board
	grid          view.GridContent
	day           int // timetable.EveryDay or 0=Monday..6=Sunday
	selected      int // index into the day's placements, -1 for none
	minutesPerRow int
	scrollOffset  int
	showDetail    bool

	keys keyMap
	help help.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the time source used to highlight the current slot.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) ModelOption {
	return func(m *Model) { m.copyFn = fn }
}

// New creates a new TUI model for one timetable.
func New(repo timetable.Repository, timetableID int64, cfg *config.Config, opts ...ModelOption) Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	palette := theme.NewPalette(t)

	mpr := cfg.UI.MinutesPerRow
	if mpr == 0 {
		mpr = 30
	}

	m := Model{
		repo:          repo,
		timetableID:   timetableID,
		config:        cfg,
		logger:        zap.NewNop(),
		now:           time.Now,
		copyFn:        clipboard.WriteAll,
		palette:       palette,
		styles:        view.NewGridStyles(palette),
		day:           timetable.EveryDay,
		selected:      -1,
		minutesPerRow: mpr,
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init loads the board.
func (m Model) Init() tea.Cmd {
	return commands.LoadBoard(m.repo, m.timetableID)
}

// Run starts the TUI.
func Run(repo timetable.Repository, timetableID int64, cfg *config.Config, logger *zap.Logger) error {
	model := New(repo, timetableID, cfg, WithLogger(logger))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) clock() timerange.Clock {
	t := m.now()
	return timerange.FromMinutes(t.Hour()*60 + t.Minute())
}

// rebuildGrid recomputes the grid content after state changes.
func (m *Model) rebuildGrid() {
	if m.board == nil {
		m.grid = view.GridContent{}
		return
	}
	if n := len(m.board.SlotsOn(m.day)); m.selected >= n {
		m.selected = n - 1
	}
	now := m.clock()
	m.grid = view.BuildGrid(m.board, view.GridOptions{
		MinutesPerRow: m.minutesPerRow,
		Width:         m.width,
		Day:           m.day,
		Selected:      m.selected,
		Now:           &now,
	})
	m.clampScroll()
}

// visibleRows is the number of grid rows that fit on screen.
func (m Model) visibleRows() int {
	return max(m.height-headerH-m.footerHeight()-gridChrome, 1)
}

// footerHeight grows with the full help columns.
func (m Model) footerHeight() int {
	if !m.help.ShowAll {
		return footerH
	}
	rows := 1
	for _, col := range m.keys.FullHelp() {
		rows = max(rows, len(col))
	}
	return footerH - 1 + rows
}

func (m *Model) clampScroll() {
	maxOffset := max(len(m.grid.Rows)-m.visibleRows(), 0)
	m.scrollOffset = min(max(m.scrollOffset, 0), maxOffset)
}

// scrollToSelection keeps the selected slot's first row on screen.
func (m *Model) scrollToSelection() {
	if m.selected < 0 || m.selected >= len(m.grid.SlotRows) {
		m.clampScroll()
		return
	}
	row := m.grid.SlotRows[m.selected]
	visible := m.visibleRows()
	if row < m.scrollOffset {
		m.scrollOffset = row
	} else if row >= m.scrollOffset+visible {
		m.scrollOffset = row - visible + 1
	}
	m.clampScroll()
}

// selectedSlot returns the selected slot on the current day.
func (m Model) selectedSlot() *timetable.Slot {
	if m.board == nil || m.selected < 0 {
		return nil
	}
	slots := m.board.SlotsOn(m.day)
	if m.selected >= len(slots) {
		return nil
	}
	return slots[m.selected]
}
