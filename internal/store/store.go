// Package store persists the application state to a local SQLite database,
// the desktop analog of the original's browser storage.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/state"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database connection.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path (~/.calendarly/calendarly.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".calendarly", "calendarly.db"), nil
}

// Open opens or creates the SQLite database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// OpenDefault opens the database at the default path.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load builds the full application state from disk.
func (s *Store) Load() (*state.State, error) {
	st := state.New()

	rows, err := s.db.Query(`SELECT id, day, text, color, position FROM notes ORDER BY day, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n model.Note
		var day string
		var pos int
		if err := rows.Scan(&n.ID, &day, &n.Text, &n.Color, &pos); err != nil {
			return nil, err
		}
		st.Notes[day] = append(st.Notes[day], n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.db.Query(`SELECT id, day, text, start_time, end_time, color, position FROM schedule_items ORDER BY day, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item model.ScheduleItem
		var day string
		var pos int
		if err := itemRows.Scan(&item.ID, &day, &item.Text, &item.Start, &item.End, &item.Color, &pos); err != nil {
			return nil, err
		}
		st.Schedule[day] = append(st.Schedule[day], item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.db.Query(`SELECT day FROM important_days`)
	if err != nil {
		return nil, fmt.Errorf("failed to load important days: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var day string
		if err := dayRows.Scan(&day); err != nil {
			return nil, err
		}
		st.Important[day] = true
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	var theme string
	var use24 int
	err = s.db.QueryRow(`SELECT theme, use_24_hour_time FROM preferences WHERE id = 1`).Scan(&theme, &use24)
	switch err {
	case nil:
		st.Prefs = model.Preferences{Theme: theme, Use24HourTime: use24 != 0}
	case sql.ErrNoRows:
		// fresh database, defaults stand
	default:
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var updatedAt int64
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'updated_at_ms'`).Scan(&updatedAt); err == nil {
		st.UpdatedAt = updatedAt
	}

	return st, nil
}

// Save rewrites the full state in one transaction. Every mutation persists
// everything, mirroring the original's storage behavior, so the tables always
// match the in-memory state exactly.
func (s *Store) Save(st *state.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"notes", "schedule_items", "important_days"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for day, notes := range st.Notes {
		for pos, n := range notes {
			if _, err := tx.Exec(
				`INSERT INTO notes (id, day, text, color, position) VALUES (?, ?, ?, ?, ?)`,
				n.ID, day, n.Text, string(n.Color), pos,
			); err != nil {
				return fmt.Errorf("failed to save note: %w", err)
			}
		}
	}

	for day, items := range st.Schedule {
		for pos, item := range items {
			if _, err := tx.Exec(
				`INSERT INTO schedule_items (id, day, text, start_time, end_time, color, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				item.ID, day, item.Text, item.Start, item.End, string(item.Color), pos,
			); err != nil {
				return fmt.Errorf("failed to save schedule item: %w", err)
			}
		}
	}

	for day := range st.Important {
		if _, err := tx.Exec(`INSERT INTO important_days (day) VALUES (?)`, day); err != nil {
			return fmt.Errorf("failed to save important day: %w", err)
		}
	}

	use24 := 0
	if st.Prefs.Use24HourTime {
		use24 = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO preferences (id, theme, use_24_hour_time) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET theme = excluded.theme, use_24_hour_time = excluded.use_24_hour_time`,
		st.Prefs.Theme, use24,
	); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES ('updated_at_ms', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		st.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to save meta: %w", err)
	}

	return tx.Commit()
}

// Reset drops all persisted data, leaving an empty database behind.
func (s *Store) Reset() error {
	return s.Save(state.New())
}
