package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

func newBoard(t *testing.T, start, end string, slots ...[3]string) *timetable.Board {
	t.Helper()
	tt, err := timetable.NewTimetable("Night", start, end, 4)
	if err != nil {
		t.Fatal(err)
	}
	var list []*timetable.Slot
	for _, s := range slots {
		slot, err := timetable.NewSlot(s[0], s[1], s[2])
		if err != nil {
			t.Fatal(err)
		}
		list = append(list, slot)
	}
	b, err := timetable.NewBoard(tt, list)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBuildGrid_RowsAcrossMidnight(t *testing.T) {
	b := newBoard(t, "22:00", "02:00",
		[3]string{"Set", "23:00", "01:00"},
	)

	grid := BuildGrid(b, GridOptions{MinutesPerRow: 60, Day: timetable.EveryDay, Selected: -1})

	if len(grid.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(grid.Rows))
	}
	wantTimes := []string{"22:00", "23:00", "00:00", "01:00"}
	for i, want := range wantTimes {
		if grid.Rows[i][0] != want {
			t.Errorf("row %d label = %q, want %q", i, grid.Rows[i][0], want)
		}
	}
	if grid.Rows[1][1] != "Set" || grid.Rows[2][1] != "23:00—01:00" {
		t.Errorf("unexpected slot cells: %q / %q", grid.Rows[1][1], grid.Rows[2][1])
	}
	if grid.Kinds[0][1] != CellEmpty || grid.Kinds[3][1] != CellEmpty {
		t.Errorf("slot leaked outside its rows: %v", grid.Kinds)
	}
	if grid.SlotRows[0] != 1 {
		t.Errorf("SlotRows[0] = %d, want 1", grid.SlotRows[0])
	}
}

func TestBuildGrid_OverlapUsesLanes(t *testing.T) {
	b := newBoard(t, "09:00", "12:00",
		[3]string{"A", "09:00", "10:00"},
		[3]string{"B", "09:30", "11:00"},
	)

	grid := BuildGrid(b, GridOptions{MinutesPerRow: 30, Day: timetable.EveryDay, Selected: -1})

	if len(grid.Headers) != 3 {
		t.Fatalf("headers = %v, want time plus two lanes", grid.Headers)
	}
	if grid.Rows[0][1] != "A" || grid.Rows[1][2] != "B" {
		t.Errorf("unexpected lane cells: %v", grid.Rows)
	}
	if grid.Kinds[0][1] != CellOverlap {
		t.Errorf("kind = %v, want CellOverlap", grid.Kinds[0][1])
	}
}

func TestBuildGrid_WeekdaysShareLanesWithoutOverlap(t *testing.T) {
	b := newBoard(t, "09:00", "12:00",
		[3]string{"Mon", "10:00", "11:00"},
		[3]string{"Tue", "10:00", "11:00"},
	)
	for i, s := range b.Slots() {
		if err := s.SetDay(i); err != nil {
			t.Fatal(err)
		}
	}

	grid := BuildGrid(b, GridOptions{MinutesPerRow: 60, Day: timetable.EveryDay, Selected: -1})

	if len(grid.Headers) != 3 {
		t.Fatalf("headers = %v, want time plus two lanes", grid.Headers)
	}
	for col := 1; col <= 2; col++ {
		if k := grid.Kinds[1][col]; k == CellOverlap {
			t.Errorf("lane %d marked as overlap, slots are on different days", col)
		}
	}
}

func TestBuildGrid_SelectedAndCurrent(t *testing.T) {
	b := newBoard(t, "09:00", "12:00",
		[3]string{"A", "09:00", "10:00"},
		[3]string{"B", "10:00", "11:00"},
	)
	now := timerange.MustParse("10:30")

	grid := BuildGrid(b, GridOptions{MinutesPerRow: 60, Day: timetable.EveryDay, Selected: 0, Now: &now})

	if grid.Kinds[0][1] != CellSelected {
		t.Errorf("selected kind = %v", grid.Kinds[0][1])
	}
	if grid.Kinds[1][1] != CellCurrent {
		t.Errorf("current kind = %v", grid.Kinds[1][1])
	}
}

func TestBuildGrid_TruncatesToWidth(t *testing.T) {
	b := newBoard(t, "09:00", "10:00",
		[3]string{"A very long slot title indeed", "09:00", "10:00"},
	)

	grid := BuildGrid(b, GridOptions{MinutesPerRow: 60, Width: 20, Day: timetable.EveryDay, Selected: -1})
	if w := ansi.StringWidth(grid.Rows[0][1]); w > 9 {
		t.Errorf("cell width = %d, want at most 9: %q", w, grid.Rows[0][1])
	}
	if !strings.HasSuffix(grid.Rows[0][1], "…") {
		t.Errorf("expected ellipsis, got %q", grid.Rows[0][1])
	}
}

func TestGridContent_Window(t *testing.T) {
	b := newBoard(t, "09:00", "17:00")
	grid := BuildGrid(b, GridOptions{MinutesPerRow: 60, Day: timetable.EveryDay, Selected: -1})

	w := grid.Window(6, 5)
	if len(w.Rows) != 2 || w.Rows[0][0] != "15:00" {
		t.Errorf("unexpected window: %v", w.Rows)
	}
	if got := grid.Window(-3, 1); got.Rows[0][0] != "09:00" {
		t.Errorf("negative offset not clamped: %v", got.Rows)
	}
}

func TestRenderGrid(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	b := newBoard(t, "09:00", "11:00",
		[3]string{"Standup", "09:00", "09:30"},
	)
	styles := NewGridStyles(theme.NewPalette(nil))
	out := RenderGrid(BuildGrid(b, GridOptions{MinutesPerRow: 30, Day: timetable.EveryDay, Selected: -1}), styles, 0)

	plain := ansi.Strip(out)
	for _, want := range []string{"Time", "Every day", "09:00", "10:30", "Standup"} {
		if !strings.Contains(plain, want) {
			t.Errorf("render missing %q:\n%s", want, plain)
		}
	}
	if plain == out {
		t.Error("expected styled output with a truecolor profile")
	}
}

func TestFormatStats(t *testing.T) {
	got := FormatStats(timetable.Stats{Slots: 2, BookedMinutes: 90, OverlapMinutes: 15, FreeMinutes: 30})
	want := "2 slots · 1h 30m booked · 30m free · 15m overlapping"
	if got != want {
		t.Errorf("FormatStats = %q, want %q", got, want)
	}
}

func TestRenderFooter_DropsTopLines(t *testing.T) {
	out := RenderFooter(FooterViewState{
		InnerW:     30,
		FooterH:    2,
		StatsLine:  "stats",
		DetailLine: "detail",
		StatusLine: "status",
		HelpLine:   "help",
	})
	plain := ansi.Strip(out)
	if strings.Contains(plain, "stats") || !strings.Contains(plain, "help") || !strings.Contains(plain, "status") {
		t.Errorf("unexpected footer:\n%s", plain)
	}
}

func TestOverlay(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	out := ansi.Strip(Overlay(base, "XX", 10, 5, ""))
	lines := strings.Split(out, "\n")
	if lines[2] != "....XX...." {
		t.Errorf("overlay line = %q", lines[2])
	}
}
