package integration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
)

// openRepo creates a repository at path with automatic cleanup.
func openRepo(t *testing.T, path string) *db.SQLite {
	t.Helper()
	repo, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// createTimetable is a helper to create and insert a timetable.
func createTimetable(t *testing.T, repo *db.SQLite, title, start, end string) *timetable.Timetable {
	t.Helper()
	tt, err := timetable.NewTimetable(title, start, end, 4)
	if err != nil {
		t.Fatalf("failed to create timetable: %v", err)
	}
	if err := repo.CreateTimetable(context.Background(), tt); err != nil {
		t.Fatalf("failed to insert timetable: %v", err)
	}
	return tt
}

// createSlot is a helper to create and insert a slot.
func createSlot(t *testing.T, repo *db.SQLite, timetableID int64, title, start, end string) *timetable.Slot {
	t.Helper()
	s, err := timetable.NewSlot(title, start, end)
	if err != nil {
		t.Fatalf("failed to create slot: %v", err)
	}
	s.TimetableID = timetableID
	if err := repo.CreateSlot(context.Background(), s); err != nil {
		t.Fatalf("failed to insert slot: %v", err)
	}
	return s
}

func TestBoardSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horario.db")
	ctx := context.Background()

	repo, err := db.New(path)
	if err != nil {
		t.Fatal(err)
	}
	tt := createTimetable(t, repo, "Night market", "20:00", "04:00")
	createSlot(t, repo, tt.ID, "Band", "23:30", "01:00")
	createSlot(t, repo, tt.ID, "Late food", "00:30", "03:00")
	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openRepo(t, path)
	b, err := timetable.LoadBoard(ctx, reopened, tt.ID)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if b.Timetable.Key != tt.Key {
		t.Errorf("key = %q, want %q", b.Timetable.Key, tt.Key)
	}

	placements := b.Placements(timetable.EveryDay)
	if len(placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(placements))
	}
	band, food := placements[0], placements[1]
	if band.Geometry.Top != 14 || band.Geometry.Height != 6 {
		t.Errorf("band geometry = %+v, want top 14 height 6", band.Geometry)
	}
	if food.Geometry.Top != 18 || food.Geometry.Height != 10 {
		t.Errorf("food geometry = %+v, want top 18 height 10", food.Geometry)
	}
	if band.Lane.Count != 2 || food.Lane.Index != 1 {
		t.Errorf("expected side by side lanes, got %+v and %+v", band.Lane, food.Lane)
	}

	st := b.Stats(timetable.EveryDay)
	if st.OverlapMinutes != 30 || st.BookedMinutes != 210 || st.FreeMinutes != 270 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestExportImportAcrossDatabases(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	source := openRepo(t, filepath.Join(dir, "source.db"))
	dest := openRepo(t, filepath.Join(dir, "dest.db"))

	tt := createTimetable(t, source, "Overnight", "22:00", "06:00")
	createSlot(t, source, tt.ID, "Shift A", "22:00", "02:00")
	createSlot(t, source, tt.ID, "Shift B", "02:00", "06:00")

	b, err := timetable.LoadBoard(ctx, source, tt.ID)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []export.Format{export.FormatYAML, export.FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := export.Encode(&buf, export.FromBoard(b, "em"), f); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			doc, err := export.Decode(&buf, f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			imported, slots, err := doc.Build(export.BuildOptions{})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if imported.Key == tt.Key {
				t.Error("imported timetable should get a new key")
			}
			if err := dest.CreateTimetable(ctx, imported); err != nil {
				t.Fatal(err)
			}
			for _, s := range slots {
				s.TimetableID = imported.ID
				if err := dest.CreateSlot(ctx, s); err != nil {
					t.Fatal(err)
				}
			}

			copyBoard, err := timetable.LoadBoard(ctx, dest, imported.ID)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, s := range copyBoard.Slots() {
				got = append(got, s.Title+" "+s.Range.String())
			}
			want := "Shift A 22:00—02:00,Shift B 02:00—06:00"
			if strings.Join(got, ",") != want {
				t.Errorf("slots = %v, want %s", got, want)
			}
		})
	}
}

func TestHTMLExport(t *testing.T) {
	repo := openRepo(t, filepath.Join(t.TempDir(), "horario.db"))
	tt := createTimetable(t, repo, "Late show", "21:00", "01:00")
	createSlot(t, repo, tt.ID, "Headliner", "23:00", "00:30")

	b, err := timetable.LoadBoard(context.Background(), repo, tt.ID)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := export.HTML(&buf, b, "rem"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `style="top:8rem;height:6rem;left:0%;width:100%"`) {
		t.Errorf("unexpected html:\n%s", buf.String())
	}
}

func TestMoveSlotKeepsInvariants(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "horario.db"))
	tt := createTimetable(t, repo, "Evening", "18:00", "00:00")
	s := createSlot(t, repo, tt.ID, "Dinner", "19:00", "20:00")

	if err := repo.UpdateSlotRange(ctx, s.ID, timerange.Must("23:00", "00:00")); err != nil {
		t.Fatalf("move to the last hour: %v", err)
	}
	err := repo.UpdateSlotRange(ctx, s.ID, timerange.Must("23:30", "00:30"))
	if !errors.Is(err, timetable.ErrSlotOutsideHours) {
		t.Errorf("expected ErrSlotOutsideHours, got %v", err)
	}

	slots, err := repo.ListSlots(ctx, tt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := slots[0].Range.String(); got != "23:00—00:00" {
		t.Errorf("range = %s, want 23:00—00:00", got)
	}
	if slots[0].Range.Duration() != 1 {
		t.Errorf("duration = %v, want 1", slots[0].Range.Duration())
	}
}
