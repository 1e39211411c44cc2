package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/tui/commands"
)

// statusTTL is how long status messages stay on screen.
const statusTTL = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuildGrid()
		m.scrollToSelection()
		return m, nil

	case commands.BoardLoadedMsg:
		m.board = msg.Board
		m.err = nil
		m.logger.Debug("board_loaded",
			zap.Int64("timetable_id", msg.Board.Timetable.ID),
			zap.Int("slots", msg.Board.Len()))
		m.rebuildGrid()
		if m.selected < 0 && len(m.grid.SlotRows) > 0 {
			m.selected = m.currentOrFirst()
			m.rebuildGrid()
		}
		m.scrollToSelection()
		return m, nil

	case commands.ErrMsg:
		m.err = msg.Err
		m.logger.Error("tui_error", zap.Error(msg.Err))
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.now().Add(5 * time.Second)
		return m, commands.ClearStatusAfter(5 * time.Second)

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusTime = m.now().Add(statusTTL)
		return m, commands.ClearStatusAfter(statusTTL)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	return m, nil
}

// currentOrFirst picks the slot running now, else the first slot.
func (m Model) currentOrFirst() int {
	now := m.clock()
	for i, s := range m.board.SlotsOn(m.day) {
		if s.Range.Contains(now) {
			return i
		}
	}
	return 0
}
