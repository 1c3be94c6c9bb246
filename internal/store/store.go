// Package store provides the local persistence layer: an embedded
// sqlite database holding users, playlists, play history and the
// current-user pointer.
//
// The store handle is opened once at startup, passed explicitly to the
// services that need it, and closed at shutdown.
package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "sonic"
	dbFileName = "sonic.db"
)

// ErrNotOpen is returned when an operation runs against a store that
// has not been opened or was already closed.
var ErrNotOpen = errors.New("store not open")

// Store owns the database handle and its lifecycle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database in the user data
// directory and initializes the schema.
func Open() (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle. Safe to call once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB exposes the underlying handle for single-statement queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx executes fn within a transaction: Begin, Rollback on error,
// Commit on success. Multi-record operations run through here so that
// partial application is never observable by a later read.
func (s *Store) WithTx(fn func(tx *sql.Tx) error) error {
	if s.db == nil {
		return ErrNotOpen
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
