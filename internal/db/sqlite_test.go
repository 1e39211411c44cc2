package db

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
)

func TestCreateTimetable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Festival", "20:00", "02:00")
	tt.Description = "Main **stage**"
	if err := repo.CreateTimetable(ctx, tt); err != nil {
		t.Fatalf("CreateTimetable failed: %v", err)
	}
	if tt.ID == 0 {
		t.Error("expected ID to be set after insert")
	}

	got, err := repo.GetTimetable(ctx, tt.ID)
	if err != nil {
		t.Fatalf("GetTimetable failed: %v", err)
	}
	if got.Title != "Festival" || got.Key != tt.Key || got.Description != tt.Description {
		t.Errorf("unexpected timetable %+v", got)
	}
	if got.Hours != tt.Hours {
		t.Errorf("hours = %s, want %s", got.Hours, tt.Hours)
	}
	if got.HourHeight != 4 {
		t.Errorf("hour height = %v, want 4", got.HourHeight)
	}

	byKey, err := repo.GetTimetableByKey(ctx, tt.Key)
	if err != nil {
		t.Fatalf("GetTimetableByKey failed: %v", err)
	}
	if byKey.ID != tt.ID {
		t.Errorf("GetTimetableByKey returned id %d, want %d", byKey.ID, tt.ID)
	}
}

func TestNew_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	if err := os.WriteFile(path, bytes.Repeat([]byte("not sqlite "), 200), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := New(path)
	if err == nil {
		_ = repo.Close()
		t.Fatal("expected an error opening a file that is not a database")
	}
	if repo != nil {
		t.Errorf("New returned a repository alongside error %v", err)
	}
}

func TestGetTimetable_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetTimetable(context.Background(), 42)
	if !errors.Is(err, timetable.ErrTimetableNotFound) {
		t.Fatalf("expected ErrTimetableNotFound, got %v", err)
	}
	_, err = repo.GetTimetableByKey(context.Background(), "nope")
	if !errors.Is(err, timetable.ErrTimetableNotFound) {
		t.Fatalf("expected ErrTimetableNotFound, got %v", err)
	}
}

func TestListTimetables(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, title := range []string{"Zumba", "Agenda", "Meetup"} {
		if err := repo.CreateTimetable(ctx, newTimetable(t, title, "09:00", "17:00")); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.ListTimetables(ctx)
	if err != nil {
		t.Fatalf("ListTimetables failed: %v", err)
	}
	want := []string{"Agenda", "Meetup", "Zumba"}
	if len(list) != len(want) {
		t.Fatalf("got %d timetables, want %d", len(list), len(want))
	}
	for i, tt := range list {
		if tt.Title != want[i] {
			t.Errorf("timetable[%d] = %s, want %s", i, tt.Title, want[i])
		}
	}
}

func TestCreateSlot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Night", "20:00", "02:00")
	if err := repo.CreateTimetable(ctx, tt); err != nil {
		t.Fatal(err)
	}

	sl := newSlot(t, tt.ID, "Headliner", "23:30", "01:00")
	sl.Location = "Main stage"
	_ = sl.SetDay(4)
	if err := repo.CreateSlot(ctx, sl); err != nil {
		t.Fatalf("CreateSlot failed: %v", err)
	}
	if sl.ID == 0 {
		t.Error("expected ID to be set after insert")
	}

	slots, err := repo.ListSlots(ctx, tt.ID)
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1", len(slots))
	}
	got := slots[0]
	if got.Range != sl.Range || got.Location != "Main stage" || got.Day != 4 {
		t.Errorf("unexpected slot %+v", got)
	}
	if got.Range.Duration() != 1.5 {
		t.Errorf("duration = %v, want 1.5", got.Range.Duration())
	}
}

func TestCreateSlot_OutsideHours(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Day", "09:00", "17:00")
	if err := repo.CreateTimetable(ctx, tt); err != nil {
		t.Fatal(err)
	}

	err := repo.CreateSlot(ctx, newSlot(t, tt.ID, "Dinner", "18:00", "19:00"))
	if !errors.Is(err, timetable.ErrSlotOutsideHours) {
		t.Fatalf("expected ErrSlotOutsideHours, got %v", err)
	}

	slots, _ := repo.ListSlots(ctx, tt.ID)
	if len(slots) != 0 {
		t.Errorf("rejected slot should not be stored, got %d", len(slots))
	}
}

func TestCreateSlot_UnknownTimetable(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateSlot(context.Background(), newSlot(t, 99, "x", "09:00", "10:00"))
	if !errors.Is(err, timetable.ErrTimetableNotFound) {
		t.Fatalf("expected ErrTimetableNotFound, got %v", err)
	}
}

func TestUpdateSlotRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Day", "09:00", "17:00")
	if err := repo.CreateTimetable(ctx, tt); err != nil {
		t.Fatal(err)
	}
	sl := newSlot(t, tt.ID, "Talk", "10:00", "11:00")
	if err := repo.CreateSlot(ctx, sl); err != nil {
		t.Fatal(err)
	}

	moved := timerange.Must("14:00", "15:30")
	if err := repo.UpdateSlotRange(ctx, sl.ID, moved); err != nil {
		t.Fatalf("UpdateSlotRange failed: %v", err)
	}
	slots, _ := repo.ListSlots(ctx, tt.ID)
	if slots[0].Range != moved {
		t.Errorf("range = %s, want %s", slots[0].Range, moved)
	}

	err := repo.UpdateSlotRange(ctx, sl.ID, timerange.Must("16:00", "18:00"))
	if !errors.Is(err, timetable.ErrSlotOutsideHours) {
		t.Errorf("expected ErrSlotOutsideHours, got %v", err)
	}

	err = repo.UpdateSlotRange(ctx, 999, moved)
	if !errors.Is(err, timetable.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestDeleteSlot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Day", "09:00", "17:00")
	_ = repo.CreateTimetable(ctx, tt)
	sl := newSlot(t, tt.ID, "Talk", "10:00", "11:00")
	_ = repo.CreateSlot(ctx, sl)

	if err := repo.DeleteSlot(ctx, sl.ID); err != nil {
		t.Fatalf("DeleteSlot failed: %v", err)
	}
	if err := repo.DeleteSlot(ctx, sl.ID); !errors.Is(err, timetable.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound on second delete, got %v", err)
	}
}

func TestDeleteTimetable_RemovesSlots(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Day", "09:00", "17:00")
	_ = repo.CreateTimetable(ctx, tt)
	_ = repo.CreateSlot(ctx, newSlot(t, tt.ID, "Talk", "10:00", "11:00"))

	if err := repo.DeleteTimetable(ctx, tt.ID); err != nil {
		t.Fatalf("DeleteTimetable failed: %v", err)
	}

	slots, err := repo.ListSlots(ctx, tt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Errorf("expected slots to be removed, got %d", len(slots))
	}
	if err := repo.DeleteTimetable(ctx, tt.ID); !errors.Is(err, timetable.ErrTimetableNotFound) {
		t.Errorf("expected ErrTimetableNotFound, got %v", err)
	}
}

func TestListSlots_CorruptTimeIsError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Day", "09:00", "17:00")
	_ = repo.CreateTimetable(ctx, tt)
	sl := newSlot(t, tt.ID, "Talk", "10:00", "11:00")
	_ = repo.CreateSlot(ctx, sl)

	if _, err := repo.db.Exec(`UPDATE slots SET start_time = '9am' WHERE id = ?`, sl.ID); err != nil {
		t.Fatal(err)
	}

	_, err := repo.ListSlots(ctx, tt.ID)
	if !errors.Is(err, timerange.ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestLoadBoard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tt := newTimetable(t, "Night", "20:00", "02:00")
	_ = repo.CreateTimetable(ctx, tt)
	for _, r := range [][2]string{{"01:00", "02:00"}, {"20:00", "21:00"}} {
		if err := repo.CreateSlot(ctx, newSlot(t, tt.ID, r[0], r[0], r[1])); err != nil {
			t.Fatal(err)
		}
	}

	b, err := timetable.LoadBoard(ctx, repo, tt.ID)
	if err != nil {
		t.Fatalf("LoadBoard failed: %v", err)
	}
	slots := b.Slots()
	if len(slots) != 2 || slots[0].Title != "20:00" {
		t.Errorf("expected evening slot first, got %v", slots)
	}
}

func newTimetable(t *testing.T, title, start, end string) *timetable.Timetable {
	t.Helper()
	tt, err := timetable.NewTimetable(title, start, end, 4)
	if err != nil {
		t.Fatalf("NewTimetable: %v", err)
	}
	return tt
}

func newSlot(t *testing.T, timetableID int64, title, start, end string) *timetable.Slot {
	t.Helper()
	sl, err := timetable.NewSlot(title, start, end)
	if err != nil {
		t.Fatalf("NewSlot: %v", err)
	}
	sl.TimetableID = timetableID
	return sl
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
