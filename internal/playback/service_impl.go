package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vjsonic/sonic/internal/catalog"
	"github.com/vjsonic/sonic/internal/player"
)

// ErrNoStreamURL is returned when a song has no playable download URL
// in any quality tier.
var ErrNoStreamURL = errors.New("song has no playable source")

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	engine   player.Interface
	recorder Recorder
	queue    *Queue

	state State
	// playRequested is the play/pause intent flag. It decides whether
	// a source entering the ready state starts playing, and is pushed
	// to the engine whenever it changes.
	playRequested bool
	autoplay      bool
	userID        string

	subs   []*Subscription
	subsMu sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a playback coordinator on top of the audio engine.
// recorder may be nil to disable history recording.
func New(engine player.Interface, recorder Recorder) Service {
	s := &serviceImpl{
		engine:   engine,
		recorder: recorder,
		queue:    NewQueue(),
		state:    StateIdle,
		autoplay: true,
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// run reacts to the engine's ready and finished signals.
func (s *serviceImpl) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.engine.ReadyChan():
			s.handleReady()
		case <-s.engine.FinishedChan():
			s.handleFinished()
		}
	}
}

// Play replaces the queue and starts loading the song. An empty queue
// is treated as a singleton queue containing just the song.
func (s *serviceImpl) Play(song catalog.Song, queue []catalog.Song, index int) error {
	if len(queue) == 0 {
		queue = []catalog.Song{song}
		index = 0
	}

	s.mu.Lock()
	prev := s.queue.Current()
	prevIndex := s.queue.CurrentIndex()
	prevSongs := s.queue.Songs()
	prevPlay := s.playRequested
	current := s.queue.Replace(queue, index)
	s.playRequested = true
	if err := s.loadLocked(current); err != nil {
		// The engine never switched source, so the previous queue
		// stays in effect.
		s.queue.Replace(prevSongs, prevIndex)
		s.playRequested = prevPlay
		s.mu.Unlock()
		return err
	}
	index = s.queue.CurrentIndex()
	s.mu.Unlock()

	s.emitTrack(TrackChange{
		Previous:      prev,
		Current:       current,
		PreviousIndex: prevIndex,
		Index:         index,
	})
	return nil
}

// loadLocked pushes the song's source into the engine and enters
// Loading. Caller holds mu.
func (s *serviceImpl) loadLocked(song *catalog.Song) error {
	if song == nil {
		return ErrNoStreamURL
	}
	url := song.StreamURL()
	if url == "" {
		return ErrNoStreamURL
	}
	if err := s.engine.Load(url); err != nil {
		s.emitError("load", song.ID, err)
		return fmt.Errorf("load %q: %w", song.Name, err)
	}
	s.setStateLocked(StateLoading)
	return nil
}

func (s *serviceImpl) handleReady() {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return
	}
	if s.playRequested {
		if err := s.engine.Play(); err != nil {
			song := s.queue.Current()
			id := ""
			if song != nil {
				id = song.ID
			}
			s.mu.Unlock()
			s.emitError("play", id, err)
			return
		}
		s.setStateLocked(StatePlaying)
	} else {
		s.setStateLocked(StatePaused)
	}
	s.mu.Unlock()
}

// handleFinished applies the natural-end rule: record the finished
// song, then advance when autoplay is on and a next track exists,
// otherwise stop playing and hold position at the last track.
func (s *serviceImpl) handleFinished() {
	s.mu.Lock()
	if s.state != StatePlaying {
		// A stale engine signal, e.g. from a source displaced while it
		// was still loading. Nothing was playing to record or advance
		// from.
		s.mu.Unlock()
		return
	}
	finished := s.queue.Current()
	userID := s.userID

	var change *TrackChange
	if s.autoplay && s.queue.HasNext() {
		prevIndex := s.queue.CurrentIndex()
		next := s.queue.Next()
		if err := s.loadLocked(next); err == nil {
			change = &TrackChange{
				Previous:      finished,
				Current:       next,
				PreviousIndex: prevIndex,
				Index:         s.queue.CurrentIndex(),
			}
		} else {
			s.queue.setIndex(prevIndex)
			s.playRequested = false
			s.setStateLocked(StatePaused)
		}
	} else {
		s.playRequested = false
		s.setStateLocked(StatePaused)
	}
	s.mu.Unlock()

	if finished != nil && userID != "" && s.recorder != nil {
		if err := s.recorder.RecordPlay(userID, *finished); err != nil {
			s.emitError("record play", finished.ID, err)
		}
	}
	if change != nil {
		s.emitTrack(*change)
	}
}

// Pause suspends playback.
func (s *serviceImpl) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StatePlaying:
		if err := s.engine.Pause(); err != nil {
			return err
		}
		s.playRequested = false
		s.setStateLocked(StatePaused)
	case StateLoading:
		// Engine not ready yet; clear the intent and let handleReady
		// settle into Paused.
		s.playRequested = false
	case StateIdle, StatePaused:
	}
	return nil
}

// Resume continues playback of a paused track.
func (s *serviceImpl) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StatePaused:
		if err := s.engine.Play(); err != nil {
			return err
		}
		s.playRequested = true
		s.setStateLocked(StatePlaying)
	case StateLoading:
		// Engine not ready yet; mark the intent and let handleReady
		// start playback.
		s.playRequested = true
	case StateIdle, StatePlaying:
	}
	return nil
}

// Toggle switches between playing and paused.
func (s *serviceImpl) Toggle() error {
	if s.State() == StatePlaying {
		return s.Pause()
	}
	return s.Resume()
}

// Stop unloads the source and returns to Idle. The queue is kept.
func (s *serviceImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return nil
	}
	if err := s.engine.Stop(); err != nil {
		return err
	}
	s.playRequested = false
	s.setStateLocked(StateIdle)
	return nil
}

// Next advances to the next queued song. A no-op at the last index.
func (s *serviceImpl) Next() error {
	return s.step((*Queue).Next)
}

// Previous moves to the previous queued song. A no-op at index 0.
func (s *serviceImpl) Previous() error {
	return s.step((*Queue).Previous)
}

func (s *serviceImpl) step(move func(*Queue) *catalog.Song) error {
	s.mu.Lock()
	prev := s.queue.Current()
	prevIndex := s.queue.CurrentIndex()
	song := move(s.queue)
	if song == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.loadLocked(song); err != nil {
		s.queue.setIndex(prevIndex)
		s.mu.Unlock()
		return err
	}
	index := s.queue.CurrentIndex()
	s.mu.Unlock()

	s.emitTrack(TrackChange{
		Previous:      prev,
		Current:       song,
		PreviousIndex: prevIndex,
		Index:         index,
	})
	return nil
}

// SeekTo moves the engine clock and reports the new position.
func (s *serviceImpl) SeekTo(pos time.Duration) error {
	if err := s.engine.SeekTo(pos); err != nil {
		s.emitError("seek", "", err)
		return err
	}
	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendPosition(pos)
	}
	s.subsMu.RUnlock()
	return nil
}

// State returns the current coordinator state.
func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsPlaying returns whether the play flag is set.
func (s *serviceImpl) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playRequested
}

// Current returns the current song, or nil if none.
func (s *serviceImpl) Current() *catalog.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// Position projects the engine's playback clock.
func (s *serviceImpl) Position() time.Duration {
	return s.engine.Position()
}

// Duration projects the engine's track duration.
func (s *serviceImpl) Duration() time.Duration {
	return s.engine.Duration()
}

// Songs returns a copy of the queue contents.
func (s *serviceImpl) Songs() []catalog.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Songs()
}

// CurrentIndex returns the queue position (-1 if none).
func (s *serviceImpl) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

// QueueLen returns the number of queued songs.
func (s *serviceImpl) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// QueueIsEmpty returns true when nothing is queued.
func (s *serviceImpl) QueueIsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.IsEmpty()
}

// CanGoNext returns true if Next would advance.
func (s *serviceImpl) CanGoNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.HasNext()
}

// CanGoPrevious returns true if Previous would move back.
func (s *serviceImpl) CanGoPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.HasPrevious()
}

// Autoplay returns whether natural end advances to the next track.
func (s *serviceImpl) Autoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoplay
}

// SetAutoplay sets the autoplay flag.
func (s *serviceImpl) SetAutoplay(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoplay = enabled
}

// ToggleAutoplay flips the autoplay flag and returns the new value.
func (s *serviceImpl) ToggleAutoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoplay = !s.autoplay
	return s.autoplay
}

// SetUser sets the account play events are recorded under.
func (s *serviceImpl) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close shuts down the coordinator. The engine is closed by its owner.
func (s *serviceImpl) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}

// setStateLocked updates the state and notifies subscribers. Caller
// holds mu.
func (s *serviceImpl) setStateLocked(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next

	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendState(StateChange{Previous: prev, Current: next})
	}
	s.subsMu.RUnlock()
}

func (s *serviceImpl) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
	s.subsMu.RUnlock()
}

func (s *serviceImpl) emitError(op, songID string, err error) {
	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendError(ErrorEvent{Operation: op, SongID: songID, Err: err})
	}
	s.subsMu.RUnlock()
}
