// Package layout maps time ranges onto a vertical timetable grid.
package layout

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/javiermolinar/horario/internal/timerange"
)

// Scale converts hours into layout units.
type Scale struct {
	HourHeight float64 // units per hour
	Unit       string  // CSS unit, e.g. "em"
}

// Geometry is the vertical position and size of a block.
type Geometry struct {
	Top    float64
	Height float64
}

// Place positions r in a grid whose first row starts at ref.
func (s Scale) Place(ref timerange.Clock, r timerange.Range) Geometry {
	return Geometry{
		Top:    r.Offset(ref) * s.HourHeight,
		Height: r.Duration() * s.HourHeight,
	}
}

// Size returns the height of a grid spanning hours.
func (s Scale) Size(hours timerange.Range) float64 {
	return hours.Duration() * s.HourHeight
}

// CSS renders the geometry as inline style declarations.
func (g Geometry) CSS(unit string) string {
	return fmt.Sprintf("top:%s%s;height:%s%s", FormatNumber(g.Top), unit, FormatNumber(g.Height), unit)
}

// FormatNumber prints v with at most four decimals and no trailing zeros.
func FormatNumber(v float64) string {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Lane is the column assignment for one range.
type Lane struct {
	Index int // column within its overlap group
	Count int // columns in the overlap group
}

// Lanes assigns side-by-side columns to overlapping ranges. Ranges are
// taken in order of their offset from ref; each goes into the first column
// whose previous block has ended. Ranges that only touch do not overlap.
// The result is indexed like the input.
func Lanes(ranges []timerange.Range, ref timerange.Clock) []Lane {
	lanes := make([]Lane, len(ranges))
	if len(ranges) == 0 {
		return lanes
	}

	type span struct {
		idx        int
		start, end int
	}
	spans := make([]span, len(ranges))
	for i, r := range ranges {
		off := r.OffsetMinutes(ref)
		spans[i] = span{idx: i, start: off, end: off + r.DurationMinutes()}
	}
	slices.SortStableFunc(spans, func(a, b span) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return b.end - a.end
	})

	var (
		columnEnds []int // end of the last block in each column
		group      []int // indexes of the current overlap group
		groupEnd   = -1
	)
	flush := func() {
		for _, idx := range group {
			lanes[idx].Count = len(columnEnds)
		}
		group = group[:0]
		columnEnds = columnEnds[:0]
	}

	for _, sp := range spans {
		if len(group) > 0 && sp.start >= groupEnd {
			flush()
		}
		col := -1
		for c, end := range columnEnds {
			if end <= sp.start {
				col = c
				break
			}
		}
		if col == -1 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, sp.end)
		} else {
			columnEnds[col] = sp.end
		}
		lanes[sp.idx].Index = col
		group = append(group, sp.idx)
		groupEnd = max(groupEnd, sp.end)
	}
	flush()

	return lanes
}

// RowSpan is a block's position in a row based grid.
type RowSpan struct {
	First int // first row, 0 is the row at ref
	Count int // rows covered
}

// Rows maps r onto rows of minutesPerRow minutes starting at ref. A block
// covers every row it touches; non-empty blocks cover at least one row.
func Rows(r timerange.Range, ref timerange.Clock, minutesPerRow int) RowSpan {
	if minutesPerRow <= 0 {
		minutesPerRow = 60
	}
	start := r.OffsetMinutes(ref)
	end := start + r.DurationMinutes()
	first := start / minutesPerRow
	last := (end + minutesPerRow - 1) / minutesPerRow
	count := last - first
	if count < 1 && r.DurationMinutes() > 0 {
		count = 1
	}
	return RowSpan{First: first, Count: count}
}

// RowCount returns the number of rows needed to show hours.
func RowCount(hours timerange.Range, minutesPerRow int) int {
	if minutesPerRow <= 0 {
		minutesPerRow = 60
	}
	return (hours.DurationMinutes() + minutesPerRow - 1) / minutesPerRow
}

// RowLabel returns the clock at the top of row i.
func RowLabel(ref timerange.Clock, i, minutesPerRow int) timerange.Clock {
	return timerange.FromMinutes(ref.Minutes() + i*minutesPerRow)
}
