package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

// keyMap lists the viewer key bindings. It implements help.KeyMap.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	DayPrev key.Binding
	DayNext key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Copy    key.Binding
	Detail  key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous slot")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next slot")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle slots")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "cycle back")),
		DayPrev: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous day")),
		DayNext: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy range")),
		Detail:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "details")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap. It must fit in 80 columns so the help
// and quit hints stay visible.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Detail, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Next, k.Prev},
		{k.DayPrev, k.DayNext, k.ZoomIn, k.ZoomOut},
		{k.Copy, k.Detail, k.Reload, k.Help, k.Quit},
	}
}

// zoomLevels are the supported minutes per row, finest first.
var zoomLevels = []int{15, 30, 60}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key_press", zap.String("key", msg.String()), zap.Int("selected", m.selected))

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.clampScroll()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, commands.LoadBoard(m.repo, m.timetableID)
	}

	if m.board == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = msg.String() == "enter" && !m.showDetail && m.selectedSlot() != nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1, false)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1, false)
	case key.Matches(msg, m.keys.Next):
		m.moveSelection(1, true)
	case key.Matches(msg, m.keys.Prev):
		m.moveSelection(-1, true)
	case key.Matches(msg, m.keys.DayNext):
		m.setDay(m.day + 1)
	case key.Matches(msg, m.keys.DayPrev):
		m.setDay(m.day - 1)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(-1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(1)
	case key.Matches(msg, m.keys.Copy):
		s := m.selectedSlot()
		if s == nil {
			m.statusMsg = "No slot selected"
			return m, nil
		}
		return m, commands.Copy(timerange.Format(s.Range), m.copyFn)
	}
	return m, nil
}

// moveSelection steps through the slots shown on the current day. With
// no slots the grid scrolls instead. wrap cycles past either end.
func (m *Model) moveSelection(delta int, wrap bool) {
	n := len(m.grid.SlotRows)
	if n == 0 {
		m.scrollOffset += delta
		m.clampScroll()
		return
	}
	next := m.selected + delta
	switch {
	case m.selected < 0 && delta > 0:
		next = 0
	case m.selected < 0:
		next = n - 1
	case wrap:
		next = (next + n) % n
	default:
		next = min(max(next, 0), n-1)
	}
	m.selected = next
	m.rebuildGrid()
	m.scrollToSelection()
}

// setDay cycles through every day, then monday to sunday.
func (m *Model) setDay(day int) {
	switch {
	case day > 6:
		day = timetable.EveryDay
	case day < timetable.EveryDay:
		day = 6
	}
	m.day = day
	m.selected = -1
	m.showDetail = false
	m.rebuildGrid()
	if len(m.grid.SlotRows) > 0 {
		m.selected = 0
		m.rebuildGrid()
	}
	m.scrollOffset = 0
	m.scrollToSelection()
}

// zoom moves step levels towards coarser (positive) or finer rows.
func (m *Model) zoom(step int) {
	idx := 0
	for i, z := range zoomLevels {
		if z == m.minutesPerRow {
			idx = i
		}
	}
	idx = min(max(idx+step, 0), len(zoomLevels)-1)
	if zoomLevels[idx] == m.minutesPerRow {
		return
	}
	m.minutesPerRow = zoomLevels[idx]
	m.logger.Debug("zoom", zap.Int("minutes_per_row", m.minutesPerRow))
	m.rebuildGrid()
	m.scrollToSelection()
}
