package playback

// State represents the playback coordinator state machine.
//
// Valid transitions:
//   - Idle    → Loading (via Play)
//   - Loading → Playing (engine ready, play flag set)
//   - Loading → Paused  (engine ready, play flag clear)
//   - Playing ↔ Paused  (via Pause/Resume/Toggle)
//   - any     → Loading (via Play: source swap)
//   - Playing → Loading (natural end with autoplay and a next track)
//   - Playing → Paused  (natural end otherwise; position holds at the
//     last track)
//   - any     → Idle    (via Stop)
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded or loading.
func (s State) IsActive() bool {
	return s != StateIdle
}
