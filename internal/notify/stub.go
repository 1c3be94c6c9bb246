//go:build !linux

package notify

// stubNotifier drops notifications on platforms without a session bus.
type stubNotifier struct{}

// New returns a no-op notifier; now-playing bubbles are only wired up
// on linux.
func New() (Notifier, error) {
	return &stubNotifier{}, nil
}

func (s *stubNotifier) Notify(_ Notification) (uint32, error) {
	return 0, nil
}

func (s *stubNotifier) Close(_ uint32) error {
	return nil
}
