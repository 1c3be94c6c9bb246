package player

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/wildeyedskies/go-mpv/mpv"
)

// Engine drives playback through an embedded mpv instance. mpv handles
// network streaming, demuxing and decoding of the catalog's download
// URLs.
type Engine struct {
	mu sync.Mutex

	handle *mpv.Mpv

	// Source bookkeeping: loading marks a loadfile still in flight,
	// loaded a source that reached file-loaded, and replacing
	// suppresses the end-file event of a source displaced by Load or
	// Stop so it is not reported as a natural finish.
	loading   bool
	loaded    bool
	replacing bool

	readyCh    chan struct{}
	finishedCh chan struct{}
	done       chan struct{}
	loopDone   chan struct{}

	closeOnce sync.Once
}

// NewEngine creates and initializes the mpv instance and starts its
// event loop.
func NewEngine() (*Engine, error) {
	handle := mpv.Create()

	_ = handle.SetOptionString("audio-display", "no")
	_ = handle.SetOptionString("video", "no")

	if err := handle.Initialize(); err != nil {
		handle.TerminateDestroy()
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}

	e := &Engine{
		handle:     handle,
		readyCh:    make(chan struct{}, 1),
		finishedCh: make(chan struct{}, 1),
		done:       make(chan struct{}),
		loopDone:   make(chan struct{}),
	}
	go e.eventLoop()
	return e, nil
}

func (e *Engine) eventLoop() {
	defer close(e.loopDone)
	for {
		select {
		case <-e.done:
			return
		default:
		}

		ev := e.handle.WaitEvent(1)
		if ev == nil {
			continue
		}

		switch ev.Event_Id {
		case mpv.EVENT_FILE_LOADED:
			e.markLoaded()
			signal(e.readyCh)
		case mpv.EVENT_END_FILE:
			if e.endFileIsNatural() {
				signal(e.finishedCh)
			}
		case mpv.EVENT_SHUTDOWN:
			return
		}
	}
}

// beginLoad records a source swap. Both an already loaded source and a
// load still in flight are displaced; either way the end-file event
// they surface is not a finish.
func (e *Engine) beginLoad() {
	e.mu.Lock()
	e.replacing = e.loaded || e.loading
	e.loading = true
	e.mu.Unlock()
}

// markStopped records an explicit stop, displacing whatever was loaded
// or loading.
func (e *Engine) markStopped() {
	e.mu.Lock()
	e.replacing = e.loaded || e.loading
	e.loading = false
	e.loaded = false
	e.mu.Unlock()
}

// markLoaded records the current source reaching file-loaded, clearing
// any pending swap suppression.
func (e *Engine) markLoaded() {
	e.mu.Lock()
	e.loading = false
	e.loaded = true
	e.replacing = false
	e.mu.Unlock()
}

// endFileIsNatural reports whether an end-file event is a track playing
// out, as opposed to the tail of a swap, a stop, or a source that never
// came up.
func (e *Engine) endFileIsNatural() bool {
	e.mu.Lock()
	natural := !e.replacing && e.loaded
	e.loaded = false
	e.mu.Unlock()
	return natural
}

// Load swaps the engine source to the given URL. The new source stays
// paused until Play.
func (e *Engine) Load(url string) error {
	e.beginLoad()

	if err := e.handle.SetPropertyString("pause", "yes"); err != nil {
		return fmt.Errorf("pause before load: %w", err)
	}
	if err := e.handle.Command([]string{"loadfile", url}); err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	return nil
}

// Play starts or resumes playback of the loaded source.
func (e *Engine) Play() error {
	return e.handle.SetPropertyString("pause", "no")
}

// Pause suspends playback, keeping the source loaded.
func (e *Engine) Pause() error {
	return e.handle.SetPropertyString("pause", "yes")
}

// Stop stops playback and unloads the source.
func (e *Engine) Stop() error {
	e.markStopped()
	return e.handle.Command([]string{"stop"})
}

// SeekTo moves the playback position.
func (e *Engine) SeekTo(pos time.Duration) error {
	secs := strconv.FormatFloat(pos.Seconds(), 'f', 3, 64)
	return e.handle.Command([]string{"seek", secs, "absolute"})
}

// Position returns the engine's playback clock, or 0 when no source
// is loaded.
func (e *Engine) Position() time.Duration {
	return e.propertyDuration("time-pos")
}

// Duration returns the loaded source duration, or 0 when unknown.
func (e *Engine) Duration() time.Duration {
	return e.propertyDuration("duration")
}

func (e *Engine) propertyDuration(name string) time.Duration {
	v, err := e.handle.GetProperty(name, mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0
	}
	secs, ok := v.(float64)
	if !ok || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// ReadyChan signals loaded sources becoming playable.
func (e *Engine) ReadyChan() <-chan struct{} {
	return e.readyCh
}

// FinishedChan signals natural end of track.
func (e *Engine) FinishedChan() <-chan struct{} {
	return e.finishedCh
}

// Close shuts the engine down and releases the mpv instance.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
		_ = e.handle.Command([]string{"quit"})
		// The handle must not be destroyed while the event loop may
		// still be inside WaitEvent; quit surfaces a shutdown event
		// that ends the loop.
		<-e.loopDone
		e.handle.TerminateDestroy()
	})
	return nil
}

// signal delivers a non-blocking notification.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
