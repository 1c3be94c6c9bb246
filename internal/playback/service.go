// Package playback coordinates the play queue with the audio engine.
package playback

import (
	"time"

	"github.com/vjsonic/sonic/internal/catalog"
)

// Recorder receives play events for the history. Implemented by the
// history tracker.
type Recorder interface {
	RecordPlay(ownerID string, song catalog.Song) error
}

// Service defines the playback coordinator contract.
type Service interface {
	// Playback control
	Play(song catalog.Song, queue []catalog.Song, index int) error
	Pause() error
	Resume() error
	Toggle() error
	Stop() error
	Next() error
	Previous() error
	SeekTo(pos time.Duration) error

	// State queries
	State() State
	IsPlaying() bool
	Current() *catalog.Song
	Position() time.Duration
	Duration() time.Duration

	// Queue queries
	Songs() []catalog.Song
	CurrentIndex() int
	QueueLen() int
	QueueIsEmpty() bool
	CanGoNext() bool
	CanGoPrevious() bool

	// Autoplay control
	Autoplay() bool
	SetAutoplay(enabled bool)
	ToggleAutoplay() bool

	// SetUser sets the account that play events are recorded under.
	// An empty id disables recording.
	SetUser(userID string)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
