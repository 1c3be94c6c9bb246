// Package player wraps the audio engine: the external process that
// decodes and plays a stream URL. The engine is an opaque
// collaborator; it owns the timing clock and reports readiness and
// natural end of track through channels.
package player

import "time"

// Interface defines the audio engine contract for dependency
// injection and testing.
//
// Only one source is loaded at a time: Load swaps the source and
// implicitly cancels any in-flight load of the previous one. A loaded
// source starts paused; playback begins when Play is called.
type Interface interface {
	Load(url string) error
	Play() error
	Pause() error
	Stop() error
	SeekTo(pos time.Duration) error
	Position() time.Duration
	Duration() time.Duration

	// ReadyChan signals that the loaded source became playable.
	ReadyChan() <-chan struct{}
	// FinishedChan signals the natural end of the current track.
	// Source swaps do not fire it.
	FinishedChan() <-chan struct{}

	Close() error
}

// Verify implementations at compile time.
var (
	_ Interface = (*Engine)(nil)
	_ Interface = (*Mock)(nil)
)
