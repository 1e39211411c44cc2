package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS timetables (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			key         TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			hour_height REAL NOT NULL CHECK(hour_height > 0),
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS slots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timetable_id INTEGER NOT NULL REFERENCES timetables(id) ON DELETE CASCADE,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			location     TEXT NOT NULL DEFAULT '',
			start_time   TEXT NOT NULL,
			end_time     TEXT NOT NULL,
			day          INTEGER NOT NULL DEFAULT -1 CHECK(day BETWEEN -1 AND 6),
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_slots_timetable ON slots(timetable_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
