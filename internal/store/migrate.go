package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.
const (
	tableSessionEvents    = "session_events"
	tableChunkEvents      = "chunk_events"
	tableSTTRequestEvents = "stt_request_events"
)

// Every event table shares the id/sequence/timestamp prefix. Timestamps are
// Unix milliseconds in UTC.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS session_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence    INTEGER NOT NULL UNIQUE,
		timestamp   INTEGER NOT NULL,
		session_id  TEXT    NOT NULL,
		action      TEXT    NOT NULL,
		source      TEXT    NOT NULL DEFAULT '',
		level       TEXT    NOT NULL DEFAULT '',
		chunks      INTEGER NOT NULL DEFAULT 0,
		score       INTEGER NOT NULL DEFAULT 0,
		scored      INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS session_events_session_id ON session_events (session_id)`,

	`CREATE TABLE IF NOT EXISTS chunk_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence    INTEGER NOT NULL UNIQUE,
		timestamp   INTEGER NOT NULL,
		session_id  TEXT    NOT NULL,
		level       TEXT    NOT NULL,
		chunk_index INTEGER NOT NULL,
		expected    TEXT    NOT NULL,
		spoken      TEXT    NOT NULL DEFAULT '',
		accuracy    INTEGER NOT NULL,
		missed      TEXT    NOT NULL DEFAULT '[]',
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS chunk_events_session_id ON chunk_events (session_id)`,

	`CREATE TABLE IF NOT EXISTS stt_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		audio_bytes   INTEGER NOT NULL DEFAULT 0,
		audio_ms      INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		transcript    TEXT    NOT NULL DEFAULT '',
		hint          TEXT    NOT NULL DEFAULT ''
	)`,
}

// migrate creates any missing tables and indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}
