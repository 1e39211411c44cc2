package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads content to width/height with a background color.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	pad := lipgloss.NewStyle().Background(bg)
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + pad.Render(strings.Repeat(" ", width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// Overlay centers box over base. Lines of box keep bg after any reset so
// the box stays opaque.
func Overlay(base, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, l := range boxLines {
		boxW = max(boxW, lipgloss.Width(l))
	}
	boxW = min(boxW, width)
	if boxW == 0 {
		return base
	}

	top := max((height-len(boxLines))/2, 0)
	left := max((width-boxW)/2, 0)
	bgSeq := backgroundSeq(bg)

	baseLines := strings.Split(PadLinesWithBackground(base, width, height, ""), "\n")
	for i, l := range boxLines {
		row := top + i
		if row >= len(baseLines) {
			break
		}
		if w := lipgloss.Width(l); w > boxW {
			l = ansi.Cut(l, 0, boxW)
		} else if w < boxW {
			l += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", boxW-w))
		}
		if bgSeq != "" {
			l = strings.ReplaceAll(l, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
		}
		baseLines[row] = ansi.Cut(baseLines[row], 0, left) + l + ansi.ResetStyle +
			ansi.Cut(baseLines[row], left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}

func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}
