package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.board == nil {
		if m.err != nil {
			return m.styles.Warning.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\nPress q to quit."
		}
		return "Loading..."
	}

	header := view.PlaceBox(m.width, headerH, lipgloss.Top, m.headerLine(), m.palette.Bg)

	window := m.grid.Window(m.scrollOffset, m.visibleRows())
	gridH := max(m.height-headerH-m.footerHeight(), 0)
	grid := view.PlaceBox(m.width, gridH, lipgloss.Top,
		view.RenderGrid(window, m.styles, m.width), m.palette.Bg)

	footer := view.RenderFooter(view.FooterViewState{
		InnerW:     m.width,
		FooterH:    m.footerHeight(),
		StatsLine:  m.styles.Muted.Render(view.FormatStats(m.board.Stats(m.day))),
		DetailLine: m.detailLine(),
		StatusLine: m.styles.Warning.Render(m.statusMsg),
		HelpLine:   m.help.View(m.keys),
		Bg:         m.palette.Bg,
	})

	out := lipgloss.JoinVertical(lipgloss.Left, header, grid, footer)
	if m.showDetail {
		if s := m.selectedSlot(); s != nil {
			out = view.Overlay(out, m.detailBox(s), m.width, m.height, m.palette.BgHighlight)
		}
	}
	return out
}

func (m Model) headerLine() string {
	t := m.board.Timetable
	day := "every day"
	if m.day != timetable.EveryDay {
		day = timetable.DayName(m.day)
	}
	return m.styles.Title.Render(t.Title) + "  " +
		m.styles.Muted.Render(fmt.Sprintf("%s · %s · %d min rows", t.Hours, day, m.minutesPerRow))
}

func (m Model) detailLine() string {
	s := m.selectedSlot()
	if s == nil {
		return ""
	}
	ref := m.board.Timetable.Hours.Start
	return fmt.Sprintf("%s  %s  %s",
		m.styles.Title.Render(s.Title),
		timerange.Format(s.Range),
		m.styles.Muted.Render(fmt.Sprintf("%s long, starts +%s",
			view.FormatDuration(s.Duration()), timerange.FormatHours(s.Range.Offset(ref)))))
}

func (m Model) detailBox(s *timetable.Slot) string {
	lines := []string{
		m.styles.Title.Render(s.Title),
		timerange.Format(s.Range),
		"Duration: " + view.FormatDuration(s.Duration()),
		"Day: " + timetable.DayName(s.Day),
	}
	if s.Location != "" {
		lines = append(lines, "Location: "+s.Location)
	}
	if s.Description != "" {
		lines = append(lines, "", s.Description)
	}
	if others := m.board.FindOverlapping(s); len(others) > 0 {
		names := make([]string, len(others))
		for i, o := range others {
			names[i] = o.Title
		}
		lines = append(lines, "", m.styles.Warning.Render("Overlaps: "+strings.Join(names, ", ")))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.palette.Accent).
		Background(m.palette.BgHighlight).
		Foreground(m.palette.Fg).
		Padding(0, 2).
		MaxWidth(max(m.width-4, 10))
	return box.Render(strings.Join(lines, "\n"))
}
