package timetable

import "github.com/javiermolinar/horario/internal/timerange"

// FreeRanges returns the parts of the timetable hours that no slot shown
// on day covers, in order from the timetable start.
func (b *Board) FreeRanges(day int) []timerange.Range {
	ref := b.Timetable.Hours.Start.Minutes()
	cover := b.coverage(day)

	var free []timerange.Range
	start := -1
	for m := 0; m <= len(cover); m++ {
		empty := m < len(cover) && cover[m] == 0
		switch {
		case empty && start < 0:
			start = m
		case !empty && start >= 0:
			free = append(free, timerange.Range{
				Start: timerange.FromMinutes(ref + start),
				End:   timerange.FromMinutes(ref + m),
			})
			start = -1
		}
	}
	return free
}

// NextFree returns the first free range on day that is at least minutes
// long, trimmed to that length.
func (b *Board) NextFree(day, minutes int) (timerange.Range, bool) {
	for _, r := range b.FreeRanges(day) {
		if r.DurationMinutes() >= minutes {
			return timerange.Range{
				Start: r.Start,
				End:   timerange.FromMinutes(r.Start.Minutes() + minutes),
			}, true
		}
	}
	return timerange.Range{}, false
}

// CanFit reports whether a slot of the given length starting at start
// would stay within the hours without sharing time with another slot on day.
func (b *Board) CanFit(day int, start timerange.Clock, minutes int) bool {
	if minutes <= 0 {
		return false
	}
	cover := b.coverage(day)
	off := timerange.Range{Start: start}.OffsetMinutes(b.Timetable.Hours.Start)
	if off+minutes > len(cover) {
		return false
	}
	for _, c := range cover[off : off+minutes] {
		if c > 0 {
			return false
		}
	}
	return true
}
