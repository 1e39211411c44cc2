package timetable

import (
	"slices"

	"github.com/javiermolinar/horario/internal/layout"
	"github.com/javiermolinar/horario/internal/timerange"
)

// Board holds a timetable and its slots ordered by position.
type Board struct {
	Timetable *Timetable
	slots     []*Slot // sorted by offset from the timetable start
}

// NewBoard creates a Board from a timetable and its slots.
// Slots outside the timetable hours are rejected.
func NewBoard(t *Timetable, slots []*Slot) (*Board, error) {
	b := &Board{Timetable: t}
	for _, s := range slots {
		if err := b.AddSlot(s); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddSlot adds a slot, keeping slots ordered by their offset from the
// timetable start.
func (b *Board) AddSlot(s *Slot) error {
	if s == nil {
		return nil
	}
	if err := b.Timetable.Validate(s); err != nil {
		return err
	}

	ref := b.Timetable.Hours.Start
	b.slots = append(b.slots, s)
	slices.SortStableFunc(b.slots, func(a, c *Slot) int {
		if d := a.Range.OffsetMinutes(ref) - c.Range.OffsetMinutes(ref); d != 0 {
			return d
		}
		return a.Day - c.Day
	})
	return nil
}

// Slots returns a copy of the slot slice.
func (b *Board) Slots() []*Slot {
	result := make([]*Slot, len(b.slots))
	copy(result, b.slots)
	return result
}

// SlotsOn returns the slots shown on a weekday, including EveryDay slots.
func (b *Board) SlotsOn(day int) []*Slot {
	var result []*Slot
	for _, s := range b.slots {
		if s.Day == EveryDay || s.Day == day || day == EveryDay {
			result = append(result, s)
		}
	}
	return result
}

// FindOverlapping returns the slots overlapping s, excluding s itself.
func (b *Board) FindOverlapping(s *Slot) []*Slot {
	var result []*Slot
	for _, other := range b.slots {
		if other == s || (other.ID != 0 && other.ID == s.ID) {
			continue
		}
		if s.OverlapsWith(other) {
			result = append(result, other)
		}
	}
	return result
}

// Len returns the number of slots on the board.
func (b *Board) Len() int {
	return len(b.slots)
}

// Span returns the number of hours the timetable covers.
func (b *Board) Span() float64 {
	return b.Timetable.Hours.Duration()
}

// Placement is a slot with its computed position.
type Placement struct {
	Slot     *Slot
	Geometry layout.Geometry
	Lane     layout.Lane
}

// Placements computes the geometry and lane of every slot shown on day
// (EveryDay for all slots).
func (b *Board) Placements(day int) []Placement {
	slots := b.SlotsOn(day)
	ref := b.Timetable.Hours.Start
	scale := layout.Scale{HourHeight: b.Timetable.HourHeight}

	ranges := make([]timerange.Range, len(slots))
	for i, s := range slots {
		ranges[i] = s.Range
	}
	lanes := layout.Lanes(ranges, ref)

	result := make([]Placement, len(slots))
	for i, s := range slots {
		result[i] = Placement{
			Slot:     s,
			Geometry: scale.Place(ref, s.Range),
			Lane:     lanes[i],
		}
	}
	return result
}

// Stats summarises the slots on a board.
type Stats struct {
	Slots          int
	BookedMinutes  int // union of slot time, overlaps counted once
	OverlapMinutes int // minutes covered by more than one slot
	FreeMinutes    int
}

// Stats calculates coverage for the slots shown on day. For EveryDay the
// minutes are those of a single day: booked when any weekday uses them,
// overlapping only when slots sharing a weekday do.
func (b *Board) Stats(day int) Stats {
	st := Stats{Slots: len(b.SlotsOn(day))}
	shared := b.sharedMinutes(day)
	for m, c := range b.coverage(day) {
		if c == 0 {
			st.FreeMinutes++
			continue
		}
		st.BookedMinutes++
		if shared[m] {
			st.OverlapMinutes++
		}
	}
	return st
}

// sharedMinutes marks the minutes where two slots on the same weekday
// meet. Slots on different weekdays never share time.
func (b *Board) sharedMinutes(day int) []bool {
	days := []int{day}
	if day == EveryDay {
		days = []int{0, 1, 2, 3, 4, 5, 6}
	}
	shared := make([]bool, b.Timetable.Hours.DurationMinutes())
	for _, d := range days {
		for m, c := range b.coverage(d) {
			if c > 1 {
				shared[m] = true
			}
		}
	}
	return shared
}

// coverage counts the slots covering each minute of the timetable hours.
// Index 0 is the first minute after the timetable start.
func (b *Board) coverage(day int) []int {
	ref := b.Timetable.Hours.Start
	total := b.Timetable.Hours.DurationMinutes()
	cover := make([]int, total)

	for _, s := range b.SlotsOn(day) {
		start := s.Range.OffsetMinutes(ref)
		for m := start; m < start+s.Duration() && m < total; m++ {
			cover[m]++
		}
	}
	return cover
}
