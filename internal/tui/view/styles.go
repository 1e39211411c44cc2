package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/tui/theme"
)

// GridStyles holds the lipgloss styles for the timetable grid.
type GridStyles struct {
	Border   lipgloss.Style
	Header   lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Time     lipgloss.Style
	Empty    lipgloss.Style
	Slot     lipgloss.Style
	SlotAlt  lipgloss.Style
	Overlap  lipgloss.Style
	Current  lipgloss.Style
	Selected lipgloss.Style
}

// NewGridStyles derives grid styles from a palette.
func NewGridStyles(p *theme.Palette) GridStyles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return GridStyles{
		Border:   lipgloss.NewStyle().Foreground(p.FgMuted),
		Header:   cell.Bold(true).Foreground(p.Accent),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Muted:    lipgloss.NewStyle().Foreground(p.FgMuted),
		Warning:  lipgloss.NewStyle().Foreground(p.Warning),
		Time:     cell.Foreground(p.FgMuted),
		Empty:    cell.Foreground(p.Fg),
		Slot:     cell.Background(p.SlotBg).Foreground(p.TextOnSlot),
		SlotAlt:  cell.Background(p.SlotBgAlt).Foreground(p.TextOnSlot),
		Overlap:  cell.Background(p.OverlapBg).Foreground(p.TextOnOverlap),
		Current:  cell.Background(p.CurrentBg).Foreground(p.TextOnCurrent),
		Selected: cell.Bold(true).Background(p.SelectedBg).Foreground(p.TextOnSelected),
	}
}

// Cell returns the style for a cell kind.
func (s GridStyles) Cell(k CellKind) lipgloss.Style {
	switch k {
	case CellTime:
		return s.Time
	case CellSlot:
		return s.Slot
	case CellSlotAlt:
		return s.SlotAlt
	case CellOverlap:
		return s.Overlap
	case CellCurrent:
		return s.Current
	case CellSelected:
		return s.Selected
	default:
		return s.Empty
	}
}
