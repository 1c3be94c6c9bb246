package player

import "time"

// Mock is a test double for the audio engine.
type Mock struct {
	position time.Duration
	duration time.Duration

	loadErr   error
	loadCalls []string
	playCalls int
	pauseCall int
	stopCalls int
	seekCalls []time.Duration

	readyCh    chan struct{}
	finishedCh chan struct{}
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		readyCh:    make(chan struct{}, 1),
		finishedCh: make(chan struct{}, 1),
	}
}

func (m *Mock) Load(url string) error {
	m.loadCalls = append(m.loadCalls, url)
	return m.loadErr
}

func (m *Mock) Play() error {
	m.playCalls++
	return nil
}

func (m *Mock) Pause() error {
	m.pauseCall++
	return nil
}

func (m *Mock) Stop() error {
	m.stopCalls++
	return nil
}

func (m *Mock) SeekTo(pos time.Duration) error {
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) ReadyChan() <-chan struct{} { return m.readyCh }

func (m *Mock) FinishedChan() <-chan struct{} { return m.finishedCh }

func (m *Mock) Close() error { return nil }

// Test helpers

func (m *Mock) SetLoadError(err error) { m.loadErr = err }

func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

func (m *Mock) SetPosition(d time.Duration) { m.position = d }

func (m *Mock) LoadCalls() []string { return m.loadCalls }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

// SimulateReady simulates the loaded source becoming playable.
func (m *Mock) SimulateReady() {
	select {
	case m.readyCh <- struct{}{}:
	default:
	}
}

// SimulateFinished simulates a track finishing naturally.
func (m *Mock) SimulateFinished() {
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}
