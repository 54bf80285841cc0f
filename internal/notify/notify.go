package notify

import (
	"log/slog"
	"sync"
)

// Variant selects the toast styling for a notification.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
)

// Notification is one user-visible toast message.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier is the sink for user-visible notifications. Every mutation emits
// exactly one terminal notification through it.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the structured log. Used where no UI
// sink is attached (server-side wiring, background refreshes).
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notification sink.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(notification Notification) {
	switch notification.Variant {
	case VariantError:
		n.logger.Error("notification", "title", notification.Title, "description", notification.Description)
	case VariantWarning:
		n.logger.Warn("notification", "title", notification.Title, "description", notification.Description)
	default:
		n.logger.Info("notification", "title", notification.Title, "description", notification.Description)
	}
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates a recording notification sink.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// All returns the notifications recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Reset clears the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
)
