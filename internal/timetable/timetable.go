// Package timetable defines the core domain types for horario.
package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/horario/internal/timerange"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidHourHeight = errors.New("hour height must be positive")
	ErrEmptyHours        = errors.New("timetable hours cannot be zero length")
	ErrInvalidDay        = errors.New("day must be between 0 (monday) and 6 (sunday), or -1 for every day")
)

// Domain errors.
var (
	ErrSlotOutsideHours  = errors.New("slot is outside the timetable hours")
	ErrTimetableNotFound = errors.New("timetable not found")
	ErrSlotNotFound      = errors.New("slot not found")
)

// EveryDay marks a slot that repeats on each day of the timetable.
const EveryDay = -1

// Timetable is a named grid of hours that slots are laid out on.
type Timetable struct {
	ID          int64
	Key         string // stable public identifier
	Title       string
	Description string // markdown
	Hours       timerange.Range
	HourHeight  float64
	CreatedAt   time.Time
}

// NewTimetable creates a Timetable with validation.
// start and end are "HH:MM"; end may be past midnight.
func NewTimetable(title, start, end string, hourHeight float64) (*Timetable, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	hours, err := timerange.New(start, end)
	if err != nil {
		return nil, fmt.Errorf("timetable hours: %w", err)
	}
	if hours.DurationMinutes() == 0 {
		return nil, ErrEmptyHours
	}

	if hourHeight <= 0 {
		return nil, ErrInvalidHourHeight
	}

	return &Timetable{
		Key:        uuid.NewString(),
		Title:      title,
		Hours:      hours,
		HourHeight: hourHeight,
		CreatedAt:  time.Now(),
	}, nil
}

// Validate checks that slot fits inside the timetable hours.
func (t *Timetable) Validate(s *Slot) error {
	if !s.Range.Within(t.Hours) {
		return fmt.Errorf("%w: %q (%s) not within %s", ErrSlotOutsideHours, s.Title, s.Range, t.Hours)
	}
	return nil
}

// Slot is a titled time range on a timetable.
type Slot struct {
	ID          int64
	TimetableID int64
	Title       string
	Description string
	Location    string
	Range       timerange.Range
	Day         int // 0=Monday ... 6=Sunday, EveryDay for all
	CreatedAt   time.Time
}

// NewSlot creates a Slot with validation.
func NewSlot(title, start, end string) (*Slot, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	r, err := timerange.New(start, end)
	if err != nil {
		return nil, err
	}

	return &Slot{
		Title:     title,
		Range:     r,
		Day:       EveryDay,
		CreatedAt: time.Now(),
	}, nil
}

// SetDay assigns the slot to a weekday.
func (s *Slot) SetDay(day int) error {
	if day < EveryDay || day > 6 {
		return ErrInvalidDay
	}
	s.Day = day
	return nil
}

// Duration returns the slot length in minutes.
func (s *Slot) Duration() int {
	return s.Range.DurationMinutes()
}

// OverlapsWith returns true if both slots share time on the same day.
func (s *Slot) OverlapsWith(other *Slot) bool {
	if other == nil {
		return false
	}
	if s.Day != EveryDay && other.Day != EveryDay && s.Day != other.Day {
		return false
	}
	return s.Range.Overlaps(other.Range)
}

var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ParseDay converts a weekday name (or "all"/"") to a day index.
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" || s == "every" {
		return EveryDay, nil
	}
	for i, name := range weekdayNames {
		if s == name || s == name[:3] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// DayName returns the weekday name for a day index.
func DayName(day int) string {
	if day < 0 || day >= len(weekdayNames) {
		return "every day"
	}
	return weekdayNames[day]
}
