package timetable

import (
	"context"

	"github.com/javiermolinar/horario/internal/timerange"
)

// Repository defines the storage interface for timetables and slots.
type Repository interface {
	// CreateTimetable adds a new timetable and sets its ID.
	CreateTimetable(ctx context.Context, t *Timetable) error

	// GetTimetable retrieves a timetable by ID.
	// Returns ErrTimetableNotFound if it does not exist.
	GetTimetable(ctx context.Context, id int64) (*Timetable, error)

	// GetTimetableByKey retrieves a timetable by its public key.
	GetTimetableByKey(ctx context.Context, key string) (*Timetable, error)

	// ListTimetables returns all timetables ordered by title.
	ListTimetables(ctx context.Context) ([]*Timetable, error)

	// DeleteTimetable removes a timetable and its slots.
	DeleteTimetable(ctx context.Context, id int64) error

	// CreateSlot adds a slot to its timetable and sets its ID.
	// Returns ErrSlotOutsideHours if it does not fit the timetable.
	CreateSlot(ctx context.Context, s *Slot) error

	// ListSlots returns the slots of a timetable.
	ListSlots(ctx context.Context, timetableID int64) ([]*Slot, error)

	// UpdateSlotRange moves or resizes a slot.
	UpdateSlotRange(ctx context.Context, id int64, r timerange.Range) error

	// DeleteSlot removes a slot.
	DeleteSlot(ctx context.Context, id int64) error

	// Close releases any resources held by the repository.
	Close() error
}

// LoadBoard fetches a timetable and its slots as a Board.
func LoadBoard(ctx context.Context, repo Repository, timetableID int64) (*Board, error) {
	t, err := repo.GetTimetable(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	slots, err := repo.ListSlots(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return NewBoard(t, slots)
}
