// Package store persists the application registry: one record per managed
// name, covering installed applications, aliases, and the external side
// effects (path entries, desktop entries) attributed to each name.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Sentinel errors shared by the registry and its callers.
var (
	// ErrNotFound means the name has no record.
	ErrNotFound = errors.New("application not found")

	// ErrDanglingAlias means an alias record points at a name that no
	// longer has an installed record.
	ErrDanglingAlias = errors.New("alias target is not installed")

	// ErrNameConflict means the name is already taken by a record of a
	// different kind.
	ErrNameConflict = errors.New("name already in use")
)

// Store provides SQLite-backed registry operations.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the registry database at dbPath and ensures the
// schema exists. Use ":memory:" for in-memory databases in tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
