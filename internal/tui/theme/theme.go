// Package theme provides color themes for the terminal views.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is used when no theme or an unknown theme is requested.
const DefaultName = "mocha"

// Theme holds all colors for a terminal theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Empty grid rows, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor, selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Hour labels, muted elements
	Accent      string `toml:"accent"`       // Title, primary accent
	Slot        string `toml:"slot"`         // Time slot blocks
	Overlap     string `toml:"overlap"`      // Slots sharing time with another
	Current     string `toml:"current"`      // Slot running now
	Warning     string `toml:"warning"`      // Errors
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	path := "embedded/" + name + ".toml"
	data, err := embeddedThemes.ReadFile(path)
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight, t.Accent)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.Overlap = coalesce(t.Overlap, t.Warning, t.Slot)
	t.Current = coalesce(t.Current, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether name is a bundled theme.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
