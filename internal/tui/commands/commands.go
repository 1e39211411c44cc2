// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/timetable"
)

// BoardLoadedMsg is sent when a timetable and its slots are loaded.
type BoardLoadedMsg struct {
	Board *timetable.Board
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// loadTimeout bounds a single board load.
const loadTimeout = 5 * time.Second

// LoadBoard loads a timetable with its slots.
func LoadBoard(repo timetable.Repository, timetableID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		b, err := timetable.LoadBoard(ctx, repo, timetableID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return BoardLoadedMsg{Board: b}
	}
}

// Copy writes text with copyFn and reports the result as a status message.
func Copy(text string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsgCmd{Msg: "Copied " + text}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
