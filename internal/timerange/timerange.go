// Package timerange parses wall-clock times and does midnight-aware
// arithmetic on the spans between them.
//
// A Clock is a time of day with no date. A Range is a pair of clocks; when
// the end is earlier than the start the range crosses midnight exactly once.
// Spans longer than one day cannot be represented.
package timerange

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the number of minutes in a clock day.
	MinutesPerDay = 24 * 60
	// HoursPerDay is the number of hours in a clock day.
	HoursPerDay = 24.0
	// Separator is the dash used by Range.String.
	Separator = "—"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrMissingField      = errors.New("time is required")
)

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// FormatError reports a clock string that does not match HH:MM.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %v", e.Input, ErrInvalidTimeFormat)
}

func (e *FormatError) Unwrap() error { return ErrInvalidTimeFormat }

// FieldError attaches the name of a range field to a validation error.
type FieldError struct {
	Field string // "start" or "end"
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("%s: %v", e.Field, ErrMissingField)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Clock is a time of day in minutes since midnight, always in [0, 1440).
type Clock struct {
	min int
}

// Parse converts an "HH:MM" string into a Clock. The hour may be a single
// digit ("9:30"); the minute must have two.
func Parse(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, &FormatError{Input: s}
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return Clock{min: h*60 + mm}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseOr parses s, returning fallback when s is not a valid clock.
func ParseOr(s string, fallback Clock) Clock {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

// FromMinutes builds a Clock from minutes since midnight, wrapping into a
// single day.
func FromMinutes(m int) Clock {
	return Clock{min: wrap(m)}
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int { return c.min }

// Hours returns the decimal hour, e.g. 9.5 for 09:30.
func (c Clock) Hours() float64 { return float64(c.min) / 60 }

// String returns the zero-padded "HH:MM" form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.min/60, c.min%60)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FormatHours renders a decimal hour as "HH:MM". Hours are floored and
// taken modulo 24, minutes are rounded.
func FormatHours(h float64) string {
	hours := math.Floor(h)
	mins := int(math.Round((h - hours) * 60))
	hh := int(hours)
	if mins == 60 {
		hh++
		mins = 0
	}
	hh %= 24
	if hh < 0 {
		hh += 24
	}
	return fmt.Sprintf("%02d:%02d", hh, mins)
}

// Range is a span between two clocks. End before Start means the range
// runs past midnight into the next day.
type Range struct {
	Start Clock
	End   Clock
}

// New builds a Range from two "HH:MM" strings. Both must be present and
// valid; no ordering is enforced between them.
func New(start, end string) (Range, error) {
	s, err := parseField("start", start)
	if err != nil {
		return Range{}, err
	}
	e, err := parseField("end", end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Must is like New but panics on invalid input.
func Must(start, end string) Range {
	r, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// parseField treats a blank value as missing. Anything else must parse
// as is.
func parseField(field, v string) (Clock, error) {
	if strings.TrimSpace(v) == "" {
		return Clock{}, &FieldError{Field: field, Err: ErrMissingField}
	}
	c, err := Parse(v)
	if err != nil {
		return Clock{}, &FieldError{Field: field, Err: err}
	}
	return c, nil
}

// ParseRange parses "HH:MM-HH:MM". The separator may be a hyphen, an en
// dash or an em dash, optionally surrounded by spaces.
func ParseRange(s string) (Range, error) {
	for _, sep := range []string{Separator, "–", "-"} {
		if start, end, ok := strings.Cut(s, sep); ok {
			return New(strings.TrimSpace(start), strings.TrimSpace(end))
		}
	}
	if strings.TrimSpace(s) == "" {
		return Range{}, &FieldError{Field: "start", Err: ErrMissingField}
	}
	return Range{}, &FormatError{Input: s}
}

// DurationMinutes returns the length of the range in minutes, in [0, 1440).
func (r Range) DurationMinutes() int {
	return wrap(r.End.min - r.Start.min)
}

// Duration returns the length of the range in hours, in [0, 24).
// A range whose start equals its end has zero length.
func (r Range) Duration() float64 {
	return float64(r.DurationMinutes()) / 60
}

// OffsetMinutes returns the minutes from ref forward to the range start.
func (r Range) OffsetMinutes(ref Clock) int {
	return wrap(r.Start.min - ref.min)
}

// Offset returns the hours from ref forward to the range start, wrapping
// past midnight when the start is earlier than ref.
func (r Range) Offset(ref Clock) float64 {
	return float64(r.OffsetMinutes(ref)) / 60
}

// CrossesMidnight reports whether the range ends on the following day.
func (r Range) CrossesMidnight() bool {
	return r.End.min < r.Start.min
}

// Contains reports whether c falls in [Start, End).
func (r Range) Contains(c Clock) bool {
	return wrap(c.min-r.Start.min) < r.DurationMinutes()
}

// Within reports whether r lies entirely inside outer.
func (r Range) Within(outer Range) bool {
	off := wrap(r.Start.min - outer.Start.min)
	return off+r.DurationMinutes() <= outer.DurationMinutes()
}

// OverlapMinutes returns the minutes shared by r and o, accounting for
// ranges that cross midnight.
func (r Range) OverlapMinutes(o Range) int {
	s1, e1 := r.unroll()
	s2, e2 := o.unroll()
	total := 0
	// Shift o by a day either way so wrapped spans meet on the 48h line.
	for _, shift := range []int{-MinutesPerDay, 0, MinutesPerDay} {
		lo := max(s1, s2+shift)
		hi := min(e1, e2+shift)
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}

// Overlaps reports whether r and o share at least one minute.
func (r Range) Overlaps(o Range) bool {
	return r.OverlapMinutes(o) > 0
}

func (r Range) unroll() (int, int) {
	return r.Start.min, r.Start.min + r.DurationMinutes()
}

// String returns the canonical "HH:MM—HH:MM" form.
func (r Range) String() string {
	return Format(r)
}

// Format renders r as "HH:MM—HH:MM", converting through decimal hours.
func Format(r Range) string {
	return FormatHours(r.Start.Hours()) + Separator + FormatHours(r.End.Hours())
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.Start.String() + "-" + r.End.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(b []byte) error {
	parsed, err := ParseRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func wrap(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
