package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"

	"github.com/javiermolinar/horario/internal/layout"
	"github.com/javiermolinar/horario/internal/timetable"
)

var pageTemplate = template.Must(template.New("timetable").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.timetable{position:relative;font-family:sans-serif}
.timetable__hour{position:absolute;left:0;right:0;border-top:1px solid #ddd;font-size:.75em;color:#888}
.timetable__slots{position:absolute;top:0;bottom:0;left:4em;right:0}
.timetable__slot{position:absolute;box-sizing:border-box;overflow:hidden;padding:.25em;border-left:3px solid #8caaee;background:#eef2fb}
.timetable__time{font-size:.8em;color:#555}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{with .Description}}<div class="timetable__description">{{.}}</div>{{end}}
<div class="timetable" id="timetable-{{.Key}}" style="{{.Size}}" data-start="{{.Start}}" data-end="{{.End}}">
{{range .Hours}}<div class="timetable__hour" style="{{.Style}}">{{.Label}}</div>
{{end}}<div class="timetable__slots">
{{range .Slots}}<div class="timetable__slot" style="{{.Style}}" data-start="{{.Start}}" data-end="{{.End}}">
<div class="timetable__time">{{.Time}}</div>
<div class="timetable__title">{{.Title}}</div>
{{with .Location}}<div class="timetable__location">{{.}}</div>{{end}}
{{with .Description}}<div class="timetable__body">{{.}}</div>{{end}}
</div>
{{end}}</div>
</div>
</body>
</html>
`))

type pageData struct {
	Title       string
	Description template.HTML
	Key         string
	Start, End  string
	Size        template.CSS
	Hours       []hourLine
	Slots       []slotBlock
}

type hourLine struct {
	Label string
	Style template.CSS
}

type slotBlock struct {
	Title       string
	Time        string
	Start, End  string
	Location    string
	Description template.HTML
	Style       template.CSS
}

// HTML renders a board as a standalone page with absolutely positioned
// slots. Descriptions are treated as markdown.
func HTML(w io.Writer, b *timetable.Board, unit string) error {
	t := b.Timetable
	scale := layout.Scale{HourHeight: t.HourHeight, Unit: unit}

	desc, err := markdown(t.Description)
	if err != nil {
		return err
	}

	data := pageData{
		Title:       t.Title,
		Description: desc,
		Key:         t.Key,
		Start:       t.Hours.Start.String(),
		End:         t.Hours.End.String(),
		Size:        template.CSS(fmt.Sprintf("height:%s%s", layout.FormatNumber(scale.Size(t.Hours)), unit)),
	}

	for i := range layout.RowCount(t.Hours, 60) {
		top := float64(i) * t.HourHeight
		data.Hours = append(data.Hours, hourLine{
			Label: layout.RowLabel(t.Hours.Start, i, 60).String(),
			Style: template.CSS(fmt.Sprintf("top:%s%s", layout.FormatNumber(top), unit)),
		})
	}

	for _, p := range b.Placements(timetable.EveryDay) {
		body, err := markdown(p.Slot.Description)
		if err != nil {
			return err
		}
		width := 100.0 / float64(max(p.Lane.Count, 1))
		style := fmt.Sprintf("%s;left:%s%%;width:%s%%",
			p.Geometry.CSS(unit), layout.FormatNumber(width*float64(p.Lane.Index)), layout.FormatNumber(width))
		data.Slots = append(data.Slots, slotBlock{
			Title:       p.Slot.Title,
			Time:        p.Slot.Range.String(),
			Start:       p.Slot.Range.Start.String(),
			End:         p.Slot.Range.End.String(),
			Location:    p.Slot.Location,
			Description: body,
			Style:       template.CSS(style),
		})
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func markdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	// goldmark drops raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil
}
