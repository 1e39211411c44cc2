// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/horario/internal/timerange"
	"github.com/javiermolinar/horario/internal/timetable"
)

// SQLite implements timetable.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const timetableColumns = `id, key, title, description, start_time, end_time, hour_height, created_at`

// CreateTimetable adds a new timetable to the repository.
func (s *SQLite) CreateTimetable(ctx context.Context, t *timetable.Timetable) error {
	query := `
		INSERT INTO timetables (key, title, description, start_time, end_time, hour_height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		t.Key,
		t.Title,
		t.Description,
		t.Hours.Start.String(),
		t.Hours.End.String(),
		t.HourHeight,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting timetable: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTimetable retrieves a timetable by ID.
func (s *SQLite) GetTimetable(ctx context.Context, id int64) (*timetable.Timetable, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+timetableColumns+` FROM timetables WHERE id = ?`, id)
	t, err := scanTimetable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", timetable.ErrTimetableNotFound, id)
	}
	return t, err
}

// GetTimetableByKey retrieves a timetable by its public key.
func (s *SQLite) GetTimetableByKey(ctx context.Context, key string) (*timetable.Timetable, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+timetableColumns+` FROM timetables WHERE key = ?`, key)
	t, err := scanTimetable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", timetable.ErrTimetableNotFound, key)
	}
	return t, err
}

// ListTimetables returns all timetables ordered by title.
func (s *SQLite) ListTimetables(ctx context.Context) ([]*timetable.Timetable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+timetableColumns+` FROM timetables ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("querying timetables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*timetable.Timetable
	for rows.Next() {
		t, err := scanTimetable(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timetables: %w", err)
	}

	return result, nil
}

// DeleteTimetable removes a timetable and its slots.
func (s *SQLite) DeleteTimetable(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE timetable_id = ?`, id); err != nil {
		return fmt.Errorf("deleting slots: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM timetables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timetable: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", timetable.ErrTimetableNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateSlot adds a slot to its timetable.
// Returns ErrSlotOutsideHours if the slot does not fit the timetable hours.
func (s *SQLite) CreateSlot(ctx context.Context, sl *timetable.Slot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+timetableColumns+` FROM timetables WHERE id = ?`, sl.TimetableID)
	t, err := scanTimetable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", timetable.ErrTimetableNotFound, sl.TimetableID)
	}
	if err != nil {
		return err
	}
	if err := t.Validate(sl); err != nil {
		return err
	}

	query := `
		INSERT INTO slots (timetable_id, title, description, location, start_time, end_time, day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		sl.TimetableID,
		sl.Title,
		sl.Description,
		sl.Location,
		sl.Range.Start.String(),
		sl.Range.End.String(),
		sl.Day,
		sl.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	sl.ID = id

	return nil
}

// ListSlots returns the slots of a timetable ordered by start time.
func (s *SQLite) ListSlots(ctx context.Context, timetableID int64) ([]*timetable.Slot, error) {
	query := `
		SELECT id, timetable_id, title, description, location, start_time, end_time, day, created_at
		FROM slots
		WHERE timetable_id = ?
		ORDER BY start_time, id
	`

	rows, err := s.db.QueryContext(ctx, query, timetableID)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []*timetable.Slot
	for rows.Next() {
		var (
			sl         timetable.Slot
			start, end string
			createdAt  string
		)
		err := rows.Scan(
			&sl.ID,
			&sl.TimetableID,
			&sl.Title,
			&sl.Description,
			&sl.Location,
			&start,
			&end,
			&sl.Day,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}

		sl.Range, err = timerange.New(start, end)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", sl.ID, err)
		}

		sl.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		slots = append(slots, &sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return slots, nil
}

// UpdateSlotRange moves or resizes a slot.
// Returns ErrSlotOutsideHours if the new range does not fit the timetable.
func (s *SQLite) UpdateSlotRange(ctx context.Context, id int64, r timerange.Range) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		title      string
		start, end string
	)
	query := `
		SELECT s.title, t.start_time, t.end_time
		FROM slots s JOIN timetables t ON t.id = s.timetable_id
		WHERE s.id = ?
	`
	err = tx.QueryRowContext(ctx, query, id).Scan(&title, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", timetable.ErrSlotNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("querying slot: %w", err)
	}

	hours, err := timerange.New(start, end)
	if err != nil {
		return fmt.Errorf("timetable hours: %w", err)
	}
	t := &timetable.Timetable{Hours: hours}
	if err := t.Validate(&timetable.Slot{Title: title, Range: r}); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `UPDATE slots SET start_time = ?, end_time = ? WHERE id = ?`,
		r.Start.String(), r.End.String(), id)
	if err != nil {
		return fmt.Errorf("updating slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteSlot removes a slot.
func (s *SQLite) DeleteSlot(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", timetable.ErrSlotNotFound, id)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTimetable(row scanner) (*timetable.Timetable, error) {
	var (
		t          timetable.Timetable
		start, end string
		createdAt  string
	)

	err := row.Scan(
		&t.ID,
		&t.Key,
		&t.Title,
		&t.Description,
		&start,
		&end,
		&t.HourHeight,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning timetable: %w", err)
	}

	t.Hours, err = timerange.New(start, end)
	if err != nil {
		return nil, fmt.Errorf("timetable %d hours: %w", t.ID, err)
	}

	t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &t, nil
}
