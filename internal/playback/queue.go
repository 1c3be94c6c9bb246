package playback

import "github.com/vjsonic/sonic/internal/catalog"

// Queue is the ordered play queue with a current position.
type Queue struct {
	songs []catalog.Song
	index int // -1 if nothing selected
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{index: -1}
}

// Replace swaps the queue contents and moves to the given index,
// clamped into range. An empty song list resets the queue.
func (q *Queue) Replace(songs []catalog.Song, index int) *catalog.Song {
	q.songs = make([]catalog.Song, len(songs))
	copy(q.songs, songs)

	if len(q.songs) == 0 {
		q.index = -1
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index >= len(q.songs) {
		index = len(q.songs) - 1
	}
	q.index = index
	return q.Current()
}

// Current returns the song at the current position, or nil.
func (q *Queue) Current() *catalog.Song {
	if q.index < 0 || q.index >= len(q.songs) {
		return nil
	}
	song := q.songs[q.index]
	return &song
}

// CurrentIndex returns the current position (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.index
}

// HasNext returns true if a song follows the current position.
func (q *Queue) HasNext() bool {
	return q.index >= 0 && q.index < len(q.songs)-1
}

// HasPrevious returns true if a song precedes the current position.
func (q *Queue) HasPrevious() bool {
	return q.index > 0
}

// Next advances and returns the new current song, or nil (position
// unchanged) when already at the last song.
func (q *Queue) Next() *catalog.Song {
	if !q.HasNext() {
		return nil
	}
	q.index++
	return q.Current()
}

// Previous moves back and returns the new current song, or nil
// (position unchanged) when already at the first song.
func (q *Queue) Previous() *catalog.Song {
	if !q.HasPrevious() {
		return nil
	}
	q.index--
	return q.Current()
}

// setIndex restores a previously observed position. Out-of-range
// values are ignored.
func (q *Queue) setIndex(index int) {
	if index < -1 || index >= len(q.songs) {
		return
	}
	q.index = index
}

// Songs returns a copy of the queue contents.
func (q *Queue) Songs() []catalog.Song {
	songs := make([]catalog.Song, len(q.songs))
	copy(songs, q.songs)
	return songs
}

// Len returns the number of songs in the queue.
func (q *Queue) Len() int {
	return len(q.songs)
}

// IsEmpty returns true if the queue has no songs.
func (q *Queue) IsEmpty() bool {
	return len(q.songs) == 0
}
