// Package playlists provides user-owned playlist storage.
package playlists

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vjsonic/sonic/internal/catalog"
	"github.com/vjsonic/sonic/internal/store"
)

// ErrPlaylistNotFound is returned when a playlist does not exist or
// belongs to another user. The two cases are deliberately not
// distinguishable to the caller.
var ErrPlaylistNotFound = errors.New("playlist not found or access denied")

// Playlist is a named, ordered sequence of songs owned by one user.
// Song membership has no duplicate song ids.
type Playlist struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt int64
	Songs     []catalog.Song
}

// Manager provides playlist operations on top of the store.
type Manager struct {
	store *store.Store
}

// New creates a playlist manager bound to the given store.
func New(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Create creates a playlist for the owner, optionally pre-seeded with
// songs, and returns its id. Names are not unique.
func (m *Manager) Create(ownerID, name string, initial []catalog.Song) (string, error) {
	id := uuid.NewString()
	now := time.Now().Unix()

	err := m.store.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO playlists (id, owner_id, name, created_at)
			VALUES (?, ?, ?, ?)
		`, id, ownerID, name, now)
		if err != nil {
			return err
		}

		pos := 0
		for _, song := range initial {
			inserted, err := insertSong(tx, id, pos, song)
			if err != nil {
				return err
			}
			if inserted {
				pos++
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Rename changes the playlist name.
func (m *Manager) Rename(ownerID, playlistID, newName string) error {
	return m.store.WithTx(func(tx *sql.Tx) error {
		if err := checkOwner(tx, playlistID, ownerID); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE playlists SET name = ? WHERE id = ?`, newName, playlistID)
		return err
	})
}

// AddSong appends a song to the playlist. Adding a song whose id is
// already present is a no-op success.
func (m *Manager) AddSong(ownerID, playlistID string, song catalog.Song) error {
	return m.store.WithTx(func(tx *sql.Tx) error {
		if err := checkOwner(tx, playlistID, ownerID); err != nil {
			return err
		}

		var maxPos sql.NullInt64
		err := tx.QueryRow(`
			SELECT MAX(position) FROM playlist_songs WHERE playlist_id = ?
		`, playlistID).Scan(&maxPos)
		if err != nil {
			return err
		}
		pos := 0
		if maxPos.Valid {
			pos = int(maxPos.Int64) + 1
		}

		_, err = insertSong(tx, playlistID, pos, song)
		return err
	})
}

// RemoveSong removes a song by id. Removing a song that is not in the
// playlist is a no-op success.
func (m *Manager) RemoveSong(ownerID, playlistID, songID string) error {
	return m.store.WithTx(func(tx *sql.Tx) error {
		if err := checkOwner(tx, playlistID, ownerID); err != nil {
			return err
		}

		var pos int
		err := tx.QueryRow(`
			SELECT position FROM playlist_songs
			WHERE playlist_id = ? AND song_id = ?
		`, playlistID, songID).Scan(&pos)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?
		`, playlistID, songID)
		if err != nil {
			return err
		}

		// Close the gap so positions stay contiguous
		_, err = tx.Exec(`
			UPDATE playlist_songs
			SET position = position - 1
			WHERE playlist_id = ? AND position > ?
		`, playlistID, pos)
		return err
	})
}

// Delete removes the playlist and its songs.
func (m *Manager) Delete(ownerID, playlistID string) error {
	return m.store.WithTx(func(tx *sql.Tx) error {
		if err := checkOwner(tx, playlistID, ownerID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM playlists WHERE id = ?`, playlistID)
		return err
	})
}

// Get returns one playlist with its songs in order.
func (m *Manager) Get(ownerID, playlistID string) (*Playlist, error) {
	db := m.store.DB()
	if db == nil {
		return nil, store.ErrNotOpen
	}

	var pl Playlist
	err := db.QueryRow(`
		SELECT id, owner_id, name, created_at
		FROM playlists
		WHERE id = ? AND owner_id = ?
	`, playlistID, ownerID).Scan(&pl.ID, &pl.OwnerID, &pl.Name, &pl.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	pl.Songs, err = m.songs(db, playlistID)
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

// ListByOwner returns all playlists owned by the user, in insertion
// order, with full song snapshots.
func (m *Manager) ListByOwner(ownerID string) ([]Playlist, error) {
	db := m.store.DB()
	if db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := db.Query(`
		SELECT id, owner_id, name, created_at
		FROM playlists
		WHERE owner_id = ?
		ORDER BY created_at, rowid
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Playlist
	for rows.Next() {
		var pl Playlist
		if err := rows.Scan(&pl.ID, &pl.OwnerID, &pl.Name, &pl.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		result[i].Songs, err = m.songs(db, result[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (m *Manager) songs(db *sql.DB, playlistID string) ([]catalog.Song, error) {
	rows, err := db.Query(`
		SELECT song FROM playlist_songs
		WHERE playlist_id = ?
		ORDER BY position
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var song catalog.Song
		if err := json.Unmarshal([]byte(raw), &song); err != nil {
			return nil, fmt.Errorf("decode song record: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// checkOwner fails with ErrPlaylistNotFound unless the playlist exists
// and is owned by ownerID.
func checkOwner(tx *sql.Tx, playlistID, ownerID string) error {
	var owner string
	err := tx.QueryRow(`SELECT owner_id FROM playlists WHERE id = ?`, playlistID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrPlaylistNotFound
	}
	return nil
}

// insertSong stores the full song record at the given position.
// Returns false without error when the song id is already present.
func insertSong(tx *sql.Tx, playlistID string, pos int, song catalog.Song) (bool, error) {
	raw, err := json.Marshal(song)
	if err != nil {
		return false, fmt.Errorf("encode song record: %w", err)
	}
	res, err := tx.Exec(`
		INSERT OR IGNORE INTO playlist_songs (playlist_id, position, song_id, song)
		VALUES (?, ?, ?, ?)
	`, playlistID, pos, song.ID, string(raw))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
