package store

import "fmt"

// migrate runs all database migrations.
func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateNotes,
		migrationCreateScheduleItems,
		migrationCreateImportantDays,
		migrationCreatePreferences,
		migrationCreateMeta,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateNotes = `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    day TEXT NOT NULL,
    text TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT 'gray',
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_day ON notes(day);
`

const migrationCreateScheduleItems = `
CREATE TABLE IF NOT EXISTS schedule_items (
    id TEXT PRIMARY KEY,
    day TEXT NOT NULL,
    text TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT 'gray',
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedule_items_day ON schedule_items(day);
`

const migrationCreateImportantDays = `
CREATE TABLE IF NOT EXISTS important_days (
    day TEXT PRIMARY KEY
);
`

const migrationCreatePreferences = `
CREATE TABLE IF NOT EXISTS preferences (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    theme TEXT NOT NULL DEFAULT 'dark',
    use_24_hour_time INTEGER NOT NULL DEFAULT 0
);
`

const migrationCreateMeta = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value INTEGER
);
`
