package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schedules (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		start_minute  INTEGER NOT NULL CHECK(start_minute >= 0 AND start_minute < 1440),
		end_minute    INTEGER NOT NULL CHECK(end_minute >= 0 AND end_minute < 1440),
		days_of_week  INTEGER NOT NULL DEFAULT 127 CHECK(days_of_week >= 0 AND days_of_week <= 127),
		enabled       INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled, created_at)`,

	`CREATE TABLE IF NOT EXISTS blocked_apps (
		package_name  TEXT PRIMARY KEY,
		display_name  TEXT NOT NULL DEFAULT '',
		enabled       INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS session_statistics (
		id                      TEXT PRIMARY KEY,
		start_time              TEXT NOT NULL,
		end_time                TEXT,
		blocked_attempts        INTEGER NOT NULL DEFAULT 0,
		time_saved_seconds      INTEGER NOT NULL DEFAULT 0,
		completed_successfully  INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_session_statistics_start ON session_statistics(start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_session_statistics_open ON session_statistics(end_time) WHERE end_time IS NULL`,

	`CREATE TABLE IF NOT EXISTS streak_data (
		id                    INTEGER PRIMARY KEY CHECK(id = 1),
		current_streak        INTEGER NOT NULL DEFAULT 0,
		longest_streak        INTEGER NOT NULL DEFAULT 0,
		last_completed_date   TEXT,
		last_milestone_shown  INTEGER NOT NULL DEFAULT 0
	)`,

	// Seed the singleton streak row
	`INSERT OR IGNORE INTO streak_data (id) VALUES (1)`,

	`CREATE TABLE IF NOT EXISTS registered_token (
		id             INTEGER PRIMARY KEY CHECK(id = 1),
		token_id       TEXT NOT NULL,
		registered_at  TEXT NOT NULL
	)`,

	// Optional label for the registered token
	`ALTER TABLE registered_token ADD COLUMN nickname TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS setup_state (
		id            INTEGER PRIMARY KEY CHECK(id = 1),
		completed     INTEGER NOT NULL DEFAULT 0,
		completed_at  TEXT
	)`,

	`INSERT OR IGNORE INTO setup_state (id) VALUES (1)`,
}
