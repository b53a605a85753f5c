// Package sqlite provides the durable journal collaborator backed by SQLite.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/greenhouse/internal/garden/event"
)

// Store is a SQLite-backed plant event journal.
type Store struct {
	db       *sql.DB
	registry *event.Registry
}

// Open opens (creating if needed) a journal database at path.
func Open(path string, registry *event.Registry) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("event registry is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, registry: registry}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func initPragmas(db *sql.DB) error {
	// WAL suits the journal's append-only write pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma: %w", err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	// Timestamps are stored as UTC epoch milliseconds so instants
	// round-trip exactly and never shift time zone on reload. The unique
	// (plant_id, seq) index is the compare-and-append guard: a stale
	// writer's insert violates it instead of landing twice.
	const schema = `CREATE TABLE IF NOT EXISTS plant_events (
	global_seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	plant_id     TEXT    NOT NULL,
	seq          INTEGER NOT NULL,
	event_type   TEXT    NOT NULL,
	timestamp_ms INTEGER NOT NULL,
	payload_json BLOB,
	UNIQUE (plant_id, seq)
);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
