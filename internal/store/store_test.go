package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenPath() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenPath_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"users", "playlists", "playlist_songs", "recently_played", "current_user"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}
}

func TestOpenPath_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath() error = %v", err)
	}
	_, err = s.DB().Exec(`
		INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1', 'alice', 'x', 0)
	`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reinitializing must not recreate collections or lose rows
	s2, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.DB().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("users after reopen = %d, want 1", count)
	}

	var version int
	if err := s2.DB().QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := openTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1', 'alice', 'x', 0)
		`)
		if err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("users after rollback = %d, want 0", count)
	}
}

func TestWithTx_Commit(t *testing.T) {
	s := openTestStore(t)

	err := s.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1', 'alice', 'x', 0)
		`)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("users after commit = %d, want 1", count)
	}
}

func TestWithTx_NotOpen(t *testing.T) {
	s := openTestStore(t)
	s.Close()

	err := s.WithTx(func(*sql.Tx) error { return nil })
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("WithTx() after Close error = %v, want ErrNotOpen", err)
	}
}
