package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		color      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS obligations (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		due_date    TEXT NOT NULL,
		weight      REAL CHECK(weight IS NULL OR (weight >= 0 AND weight <= 100)),
		description TEXT NOT NULL DEFAULT '',
		subject_id  TEXT REFERENCES subjects(id) ON DELETE SET NULL,
		color       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_obligations_due ON obligations(due_date)`,

	`CREATE TABLE IF NOT EXISTS calendar_entries (
		id           TEXT PRIMARY KEY,
		subject_id   TEXT REFERENCES subjects(id) ON DELETE SET NULL,
		title        TEXT NOT NULL,
		kind         TEXT NOT NULL DEFAULT 'event'
		             CHECK(kind IN ('class','event','exam','assignment')),
		date         TEXT NOT NULL,
		start_time   TEXT NOT NULL DEFAULT '',
		end_time     TEXT NOT NULL DEFAULT '',
		weight       REAL,
		description  TEXT NOT NULL DEFAULT '',
		source       TEXT NOT NULL DEFAULT 'manual'
		             CHECK(source IN ('manual','ics')),
		external_key TEXT UNIQUE,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_calendar_entries_date ON calendar_entries(date)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_entries_subject ON calendar_entries(subject_id)`,

	`CREATE TABLE IF NOT EXISTS study_blocks (
		id            TEXT PRIMARY KEY,
		assignment_id INTEGER NOT NULL,
		obligation_id TEXT NOT NULL REFERENCES obligations(id) ON DELETE CASCADE,
		date          TEXT NOT NULL,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		subject_id    TEXT NOT NULL DEFAULT '',
		color         TEXT NOT NULL DEFAULT '',
		generated     INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_study_blocks_date ON study_blocks(date)`,
	`CREATE INDEX IF NOT EXISTS idx_study_blocks_obligation ON study_blocks(obligation_id)`,
}
