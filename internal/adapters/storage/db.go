package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables. Members and kids are independent person tables; the
	// attendance ledger references either by person id, so the cascade on
	// person deletion is handled in the remove orchestrator rather than
	// by a foreign key.
	schema := `
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact TEXT,
		residence TEXT,
		gender TEXT,
		department TEXT,
		status TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_by TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kids (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact TEXT,
		residence TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_by TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		date TEXT NOT NULL,
		present INTEGER NOT NULL,
		marked_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (person_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_members_name ON members(name);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_members_contact ON members(contact);
	CREATE INDEX IF NOT EXISTS idx_members_active ON members(active);
	CREATE INDEX IF NOT EXISTS idx_kids_name ON kids(name);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_kids_contact ON kids(contact);
	CREATE INDEX IF NOT EXISTS idx_kids_active ON kids(active);
	CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
	CREATE INDEX IF NOT EXISTS idx_attendance_person ON attendance(person_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_created ON attendance(created_at);
	`
	// SQLite treats NULLs as distinct in unique indexes, so persons with
	// no contact never conflict with each other.

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
