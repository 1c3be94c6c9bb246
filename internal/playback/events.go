package playback

import (
	"time"

	"github.com/vjsonic/sonic/internal/catalog"
)

// StateChange is emitted when the coordinator state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the current song changes: on Play, on
// Next/Previous, and when a track ends and autoplay advances.
type TrackChange struct {
	Previous      *catalog.Song
	Current       *catalog.Song
	PreviousIndex int
	Index         int
}

// PositionChange is emitted when a seek occurs. The regular playback
// clock is read from the engine on demand, not streamed as events.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when an engine operation fails.
type ErrorEvent struct {
	Operation string // e.g. "load", "seek"
	SongID    string
	Err       error
}
