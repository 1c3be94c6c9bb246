// Package history tracks recently played songs per user.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vjsonic/sonic/internal/catalog"
	"github.com/vjsonic/sonic/internal/store"
)

// maxEntries is the retained history bound per user; the oldest
// entries beyond it are evicted after every insert.
const maxEntries = 50

// Entry is one play event: the full song snapshot and when it was
// last played.
type Entry struct {
	Song     catalog.Song
	PlayedAt time.Time
}

// Tracker provides play-history operations on top of the store.
type Tracker struct {
	store *store.Store

	now func() time.Time // overridable in tests
}

// New creates a history tracker bound to the given store.
func New(s *store.Store) *Tracker {
	return &Tracker{store: s, now: time.Now}
}

// RecordPlay records that the user played the song. Replaying a song
// refreshes its timestamp instead of creating a duplicate entry, then
// the user's history is pruned to the 50 most recent songs.
func (t *Tracker) RecordPlay(ownerID string, song catalog.Song) error {
	raw, err := json.Marshal(song)
	if err != nil {
		return fmt.Errorf("encode song record: %w", err)
	}
	playedAt := t.now().UnixNano()

	return t.store.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO recently_played (owner_id, song_id, song, played_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(owner_id, song_id) DO UPDATE SET
				song = excluded.song,
				played_at = excluded.played_at
		`, ownerID, song.ID, string(raw), playedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM recently_played
			WHERE owner_id = ? AND song_id NOT IN (
				SELECT song_id FROM recently_played
				WHERE owner_id = ?
				ORDER BY played_at DESC
				LIMIT ?
			)
		`, ownerID, ownerID, maxEntries)
		return err
	})
}

// ListByOwner returns the user's recently played songs, newest first.
func (t *Tracker) ListByOwner(ownerID string) ([]catalog.Song, error) {
	entries, err := t.Entries(ownerID)
	if err != nil {
		return nil, err
	}
	songs := make([]catalog.Song, len(entries))
	for i, e := range entries {
		songs[i] = e.Song
	}
	return songs, nil
}

// Entries returns the user's history newest first, with timestamps.
func (t *Tracker) Entries(ownerID string) ([]Entry, error) {
	db := t.store.DB()
	if db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := db.Query(`
		SELECT song, played_at FROM recently_played
		WHERE owner_id = ?
		ORDER BY played_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var raw string
		var playedAt int64
		if err := rows.Scan(&raw, &playedAt); err != nil {
			return nil, err
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e.Song); err != nil {
			return nil, fmt.Errorf("decode song record: %w", err)
		}
		e.PlayedAt = time.Unix(0, playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
