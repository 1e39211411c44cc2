// Package view renders timetable boards for the terminal.
package view

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/horario/internal/timetable"
)

// FormatDuration formats minutes as "Xh Ym".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatStats summarises board coverage on one line.
func FormatStats(st timetable.Stats) string {
	parts := []string{
		fmt.Sprintf("%d slots", st.Slots),
		FormatDuration(st.BookedMinutes) + " booked",
		FormatDuration(st.FreeMinutes) + " free",
	}
	if st.OverlapMinutes > 0 {
		parts = append(parts, FormatDuration(st.OverlapMinutes)+" overlapping")
	}
	return strings.Join(parts, " · ")
}
