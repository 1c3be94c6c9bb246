package store

import (
	"database/sql"
)

const currentSchemaVersion = 2

// initSchema creates the collections and indexes. It is idempotent:
// reopening an existing database leaves prior data untouched, and
// version bumps only add structure.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner_id);

		CREATE TABLE IF NOT EXISTS playlist_songs (
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			song_id TEXT NOT NULL,
			song TEXT NOT NULL,
			PRIMARY KEY (playlist_id, song_id),
			UNIQUE (playlist_id, position)
		);

		CREATE TABLE IF NOT EXISTS recently_played (
			owner_id TEXT NOT NULL,
			song_id TEXT NOT NULL,
			song TEXT NOT NULL,
			played_at INTEGER NOT NULL,
			PRIMARY KEY (owner_id, song_id)
		);

		CREATE INDEX IF NOT EXISTS idx_recent_owner_time
			ON recently_played(owner_id, played_at DESC);

		CREATE TABLE IF NOT EXISTS current_user (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id TEXT NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration from v1: playlists gained created_at
	_, _ = db.Exec(`ALTER TABLE playlists ADD COLUMN created_at INTEGER NOT NULL DEFAULT 0`)

	return nil
}
