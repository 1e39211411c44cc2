package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Slots: cyan, matching the grid
	colorSlot = color.New(color.FgCyan, color.Bold)

	// Overlaps and fallbacks: yellow to make them pop
	colorWarn = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for computed values
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output, including lipgloss rendering.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

func formatSlot(s string) string {
	return colorSlot.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
