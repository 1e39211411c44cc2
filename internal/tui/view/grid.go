package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/horario/internal/layout"
	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
)

// CellKind selects the style of a grid cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellTime
	CellSlot
	CellSlotAlt
	CellOverlap
	CellCurrent
	CellSelected
)

// GridOptions controls how a board is laid out in rows.
type GridOptions struct {
	MinutesPerRow int
	Width         int // total width, 0 for natural width
	Day           int // timetable.EveryDay shows all slots
	Selected      int // index into the day's placements, -1 for none
	Now           *timerange.Clock
}

// GridContent is a board laid out as table rows. Row i starts at
// RowLabel(i); column 0 holds the time and column j+1 holds lane j.
type GridContent struct {
	Headers []string
	Rows    [][]string
	Kinds   [][]CellKind
	// SlotRows maps each placement to the first row it covers.
	SlotRows []int
}

const timeColWidth = 7

// BuildGrid lays out the board's slots for a single day.
func BuildGrid(b *timetable.Board, opts GridOptions) GridContent {
	mpr := opts.MinutesPerRow
	if mpr <= 0 {
		mpr = 60
	}
	hours := b.Timetable.Hours
	ref := hours.Start
	placements := b.Placements(opts.Day)

	lanes := 1
	for _, p := range placements {
		lanes = max(lanes, p.Lane.Count)
	}

	dayLabel := "Every day"
	if opts.Day != timetable.EveryDay {
		dayLabel = capitalize(timetable.DayName(opts.Day))
	}
	headers := []string{"Time"}
	for i := range lanes {
		if lanes == 1 {
			headers = append(headers, dayLabel)
			break
		}
		headers = append(headers, fmt.Sprintf("%s %d", dayLabel, i+1))
	}

	rowCount := layout.RowCount(hours, mpr)
	content := GridContent{
		Headers:  headers,
		Rows:     make([][]string, rowCount),
		Kinds:    make([][]CellKind, rowCount),
		SlotRows: make([]int, len(placements)),
	}
	for i := range rowCount {
		content.Rows[i] = make([]string, lanes+1)
		content.Kinds[i] = make([]CellKind, lanes+1)
		content.Rows[i][0] = layout.RowLabel(ref, i, mpr).String()
		content.Kinds[i][0] = CellTime
	}

	cellWidth := 0
	if opts.Width > 0 {
		// borders: one per column plus the outer right edge
		cellWidth = max((opts.Width-timeColWidth-(lanes+2))/lanes-2, 1)
	}

	alt := make([]bool, lanes)
	for i, p := range placements {
		span := layout.Rows(p.Slot.Range, ref, mpr)
		col := p.Lane.Index + 1
		content.SlotRows[i] = span.First

		kind := CellSlot
		if alt[p.Lane.Index] {
			kind = CellSlotAlt
		}
		alt[p.Lane.Index] = !alt[p.Lane.Index]
		switch {
		case i == opts.Selected:
			kind = CellSelected
		case opts.Now != nil && p.Slot.Range.Contains(*opts.Now):
			kind = CellCurrent
		case len(b.FindOverlapping(p.Slot)) > 0:
			kind = CellOverlap
		}

		lines := slotLines(p.Slot)
		for r := range span.Count {
			row := span.First + r
			if row < 0 || row >= rowCount {
				continue
			}
			text := ""
			if r < len(lines) {
				text = lines[r]
			}
			if prev := content.Rows[row][col]; prev != "" && text != "" {
				text = prev + ", " + text
			} else if prev != "" {
				text = prev
			}
			if cellWidth > 0 {
				text = ansi.Truncate(text, cellWidth, "…")
			}
			content.Rows[row][col] = text
			if content.Kinds[row][col] == CellEmpty || r == 0 {
				content.Kinds[row][col] = kind
			}
		}
	}
	return content
}

func slotLines(s *timetable.Slot) []string {
	lines := []string{s.Title, s.Range.String()}
	if s.Location != "" {
		lines = append(lines, "@ "+s.Location)
	}
	return lines
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Window returns n rows starting at offset, keeping the headers.
func (c GridContent) Window(offset, n int) GridContent {
	offset = min(max(offset, 0), len(c.Rows))
	end := min(offset+max(n, 0), len(c.Rows))
	return GridContent{
		Headers:  c.Headers,
		Rows:     c.Rows[offset:end],
		Kinds:    c.Kinds[offset:end],
		SlotRows: c.SlotRows,
	}
}

// RenderGrid renders grid content as a bordered lipgloss table.
func RenderGrid(c GridContent, st GridStyles, width int) string {
	t := table.New().
		Headers(c.Headers...).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(st.Border).
		Rows(c.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			if row < 0 || row >= len(c.Kinds) || col < 0 || col >= len(c.Kinds[row]) {
				return st.Empty
			}
			return st.Cell(c.Kinds[row][col])
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
