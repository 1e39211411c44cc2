package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Warning     lipgloss.Color

	SlotBg     lipgloss.Color
	SlotBgAlt  lipgloss.Color
	OverlapBg  lipgloss.Color
	CurrentBg  lipgloss.Color
	SelectedBg lipgloss.Color

	TextOnSlot     lipgloss.Color
	TextOnOverlap  lipgloss.Color
	TextOnCurrent  lipgloss.Color
	TextOnSelected lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	isLight := isLightTheme(t.Bg)
	slotBg := blockBg(t.Slot, t.Bg, isLight)
	overlapBg := blockBg(t.Overlap, t.Bg, isLight)
	currentBg := blockBg(t.Current, t.Bg, isLight)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Warning:     lipgloss.Color(t.Warning),

		SlotBg:     lipgloss.Color(slotBg),
		SlotBgAlt:  lipgloss.Color(alternateShade(slotBg, isLight)),
		OverlapBg:  lipgloss.Color(overlapBg),
		CurrentBg:  lipgloss.Color(currentBg),
		SelectedBg: lipgloss.Color(t.Accent),

		TextOnSlot:     lipgloss.Color(chooseTextColor(slotBg, t.Fg, t.Bg)),
		TextOnOverlap:  lipgloss.Color(chooseTextColor(overlapBg, t.Fg, t.Bg)),
		TextOnCurrent:  lipgloss.Color(chooseTextColor(currentBg, t.Fg, t.Bg)),
		TextOnSelected: lipgloss.Color(chooseTextColor(t.Accent, t.Fg, t.Bg)),
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// blockBg tones an accent down so text stays readable on top of it.
func blockBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return darkenColor(accent)
}

// darkenColor halves the brightness of a hex color, with a floor so blocks
// stay visible on dark backgrounds.
func darkenColor(hex string) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}

	const factor = 0.50
	const floor = 40
	return formatHexColor(
		max(int(float64(r)*factor), floor),
		max(int(float64(g)*factor), floor),
		max(int(float64(b)*factor), floor),
	)
}

// alternateShade creates a subtle alternate shade for adjacent blocks.
func alternateShade(hex string, isLight bool) string {
	if isLight {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

func rgb(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	return parseHex(hex[1:3]), parseHex(hex[3:5]), parseHex(hex[5:7]), true
}

// parseHex parses a 2-character hex string into an integer.
func parseHex(s string) int {
	var val int
	for i := 0; i < len(s); i++ {
		val *= 16
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// formatHexColor formats RGB values as a hex color string.
func formatHexColor(r, g, b int) string {
	const hex = "0123456789abcdef"
	result := make([]byte, 7)
	result[0] = '#'
	result[1] = hex[r>>4]
	result[2] = hex[r&0xf]
	result[3] = hex[g>>4]
	result[4] = hex[g&0xf]
	result[5] = hex[b>>4]
	result[6] = hex[b&0xf]
	return string(result)
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := rgb(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, okA := rgb(a)
	br, bg, bb, okB := rgb(b)
	if !okA || !okB {
		return a
	}
	ratio = min(max(ratio, 0), 1)

	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
