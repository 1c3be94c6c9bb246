// Package notify surfaces track changes as desktop notifications over
// the freedesktop D-Bus protocol. Without a reachable notification
// server the package degrades to a no-op.
package notify

// Urgency is the freedesktop notification priority hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop bubble. Now-playing updates set
// ReplacesID so consecutive tracks update a single bubble instead of
// stacking up.
type Notification struct {
	Title      string  // summary line (required)
	Body       string  // optional, supports basic markup
	Icon       string  // icon name or image path, optional
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 starts a new bubble
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify displays n and returns the server-assigned ID, usable as
	// ReplacesID on a later call. Returns 0 and no error when
	// notifications are unavailable.
	Notify(n Notification) (uint32, error)
	// Close dismisses a notification by ID.
	Close(id uint32) error
}
