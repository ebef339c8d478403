package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database created before tokens carried a nickname keeps its registered
// token and gains the column with an empty default.
func TestMigrate_UpgradePath_TokenWithoutNickname(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE registered_token (
			id             INTEGER PRIMARY KEY CHECK(id = 1),
			token_id       TEXT NOT NULL,
			registered_at  TEXT NOT NULL
		)`,
		`INSERT INTO registered_token (id, token_id, registered_at) VALUES (1, 'A1B2', '2025-11-02T08:00:00Z')`,
		`CREATE TABLE session_statistics (
			id                      TEXT PRIMARY KEY,
			start_time              TEXT NOT NULL,
			end_time                TEXT,
			blocked_attempts        INTEGER NOT NULL DEFAULT 0,
			time_saved_seconds      INTEGER NOT NULL DEFAULT 0,
			completed_successfully  INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT INTO session_statistics (id, start_time) VALUES ('open-1', '2025-11-02T09:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var tokenID, nickname string
	err = db.QueryRow(`SELECT token_id, nickname FROM registered_token WHERE id = 1`).Scan(&tokenID, &nickname)
	require.NoError(t, err)
	assert.Equal(t, "A1B2", tokenID)
	assert.Equal(t, "", nickname)

	var open int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session_statistics WHERE end_time IS NULL`).Scan(&open))
	assert.Equal(t, 1, open, "migration must not touch ledger rows")
}
