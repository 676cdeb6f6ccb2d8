// Package store provides durable, replayable storage for the update log
// an Engine applies: every inbound Update, in the order its sequence
// number was assigned, so a session can be reconstructed offline by
// replaying the log against a fresh Engine.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a SQLite-backed update log. Uses WAL mode, since the engine's
// single-writer Run loop and any concurrent read-only reporting query
// (trace/replay) must not contend on a lock.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path, applying the required
// pragmas and schema. Idempotent: safe to call against an existing file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	// SQLite supports exactly one writer; the engine's single-writer Run
	// loop is the only thing that ever appends, so one connection avoids
	// SQLITE_BUSY entirely rather than merely retrying around it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("open store: apply pragma %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying *sql.DB for callers that need a direct query.
func (s *Store) DB() *sql.DB { return s.db }

// Append inserts one update record. Uses the caller-assigned seq as the
// primary key so a replayed append (same seq, same payload) is a no-op
// rather than a duplicate row.
func (s *Store) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO updates (seq, trace_id, property_name, phase, timestamp, frame_id, payload, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`, rec.Seq, rec.TraceID, rec.PropertyName, rec.Phase, rec.Timestamp, rec.FrameID, rec.Payload, rec.ReceivedAt)
	if err != nil {
		return fmt.Errorf("append update: %w", err)
	}
	return nil
}
