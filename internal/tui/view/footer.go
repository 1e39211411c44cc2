package view

import "github.com/charmbracelet/lipgloss"

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FooterH    int
	StatsLine  string
	DetailLine string
	StatusLine string
	HelpLine   string
	Bg         lipgloss.Color
}

// RenderFooter renders stats, the selected slot, status, and help lines.
// Lines are dropped from the top when the footer is short.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	lines := []string{state.StatsLine, state.DetailLine, state.StatusLine, state.HelpLine}
	if len(lines) > state.FooterH {
		lines = lines[len(lines)-state.FooterH:]
	}
	s := ""
	for i, l := range lines {
		if i > 0 {
			s += "\n"
		}
		s += l
	}
	return PlaceBox(state.InnerW, state.FooterH, lipgloss.Top, s, state.Bg)
}
