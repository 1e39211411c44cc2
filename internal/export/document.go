// Package export converts timetables to and from portable documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Format is an export format name.
type Format string

const (
	FormatHTML Format = "html"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat validates a format name. An empty name defaults to YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "yml":
		return FormatYAML, nil
	case FormatHTML, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath guesses a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", fmt.Errorf("%w: no extension in %q", ErrUnknownFormat, path)
	}
	return ParseFormat(path[i+1:])
}

// Document is the portable form of a timetable.
type Document struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Start       string         `yaml:"start" json:"start"`
	End         string         `yaml:"end" json:"end"`
	HourHeight  float64        `yaml:"hour_height,omitempty" json:"hour_height,omitempty"`
	Unit        string         `yaml:"unit,omitempty" json:"unit,omitempty"`
	Slots       []SlotDocument `yaml:"slots" json:"slots"`
}

// SlotDocument is the portable form of a slot. Layout fields are written
// on export and ignored on import.
type SlotDocument struct {
	Title       string `yaml:"title" json:"title"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end"`
	Day         string `yaml:"day,omitempty" json:"day,omitempty"`
	Location    string `yaml:"location,omitempty" json:"location,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Duration float64 `yaml:"duration,omitempty" json:"duration,omitempty"`
	Offset   float64 `yaml:"offset,omitempty" json:"offset,omitempty"`
	Top      float64 `yaml:"top,omitempty" json:"top,omitempty"`
	Height   float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Lane     int     `yaml:"lane,omitempty" json:"lane,omitempty"`
	Lanes    int     `yaml:"lanes,omitempty" json:"lanes,omitempty"`
}

// FromBoard builds a Document from a board, including computed layout.
func FromBoard(b *timetable.Board, unit string) Document {
	t := b.Timetable
	doc := Document{
		Title:       t.Title,
		Description: t.Description,
		Start:       t.Hours.Start.String(),
		End:         t.Hours.End.String(),
		HourHeight:  t.HourHeight,
		Unit:        unit,
		Slots:       make([]SlotDocument, 0, b.Len()),
	}

	for _, p := range b.Placements(timetable.EveryDay) {
		s := p.Slot
		sd := SlotDocument{
			Title:       s.Title,
			Start:       s.Range.Start.String(),
			End:         s.Range.End.String(),
			Location:    s.Location,
			Description: s.Description,
			Duration:    s.Range.Duration(),
			Offset:      s.Range.Offset(t.Hours.Start),
			Top:         p.Geometry.Top,
			Height:      p.Geometry.Height,
			Lane:        p.Lane.Index,
			Lanes:       p.Lane.Count,
		}
		if s.Day != timetable.EveryDay {
			sd.Day = timetable.DayName(s.Day)
		}
		doc.Slots = append(doc.Slots, sd)
	}
	return doc
}

// Encode writes doc in the given data format (YAML or JSON).
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q is not a data format", ErrUnknownFormat, f)
	}
}

// Decode reads a Document in the given data format.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decoding json: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q is not a data format", ErrUnknownFormat, f)
	}
	return doc, nil
}

// BuildOptions controls how a Document becomes domain objects.
type BuildOptions struct {
	DefaultHourHeight float64
	// Fallback replaces malformed slot times when set. Missing times are
	// always an error.
	Fallback *timerange.Clock
	// OnFallback is called for every replaced value.
	OnFallback func(slot, field, value string)
}

// Build validates doc and returns the timetable and its slots.
func (doc Document) Build(opts BuildOptions) (*timetable.Timetable, []*timetable.Slot, error) {
	height := doc.HourHeight
	if height == 0 {
		height = opts.DefaultHourHeight
	}
	t, err := timetable.NewTimetable(doc.Title, doc.Start, doc.End, height)
	if err != nil {
		return nil, nil, fmt.Errorf("timetable %q: %w", doc.Title, err)
	}
	t.Description = doc.Description

	slots := make([]*timetable.Slot, 0, len(doc.Slots))
	for i, sd := range doc.Slots {
		start := opts.resolve(sd.Title, "start", sd.Start)
		end := opts.resolve(sd.Title, "end", sd.End)

		s, err := timetable.NewSlot(sd.Title, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("slot %d (%q): %w", i+1, sd.Title, err)
		}
		day, err := timetable.ParseDay(sd.Day)
		if err != nil {
			return nil, nil, fmt.Errorf("slot %d (%q): %w", i+1, sd.Title, err)
		}
		s.Day = day
		s.Location = sd.Location
		s.Description = sd.Description

		if err := t.Validate(s); err != nil {
			return nil, nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		slots = append(slots, s)
	}
	return t, slots, nil
}

func (o BuildOptions) resolve(slot, field, value string) string {
	value = strings.TrimSpace(value)
	if o.Fallback == nil || value == "" {
		return value
	}
	if _, err := timerange.Parse(value); err != nil && o.OnFallback != nil {
		o.OnFallback(slot, field, value)
	}
	return timerange.ParseOr(value, *o.Fallback).String()
}
