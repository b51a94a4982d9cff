// Package devices implements device-state reconciliation: diffing
// consecutive full device snapshots to raise exactly one notification per
// online/offline transition, the push-channel subscriber that feeds it, and
// the hub that polls Home Assistant and fans snapshots out to stream
// consumers.
package devices

import "log/slog"

// Severity levels for notifications.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Notification is a user-facing event, the server-side analog of a toast.
type Notification struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
}

// Notifier receives user-facing notifications. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

type slogNotifier struct{}

// NewSlogNotifier returns a Notifier that emits structured log records.
func NewSlogNotifier() Notifier {
	return slogNotifier{}
}

func (slogNotifier) Notify(n Notification) {
	if n.Severity == SeverityWarning {
		slog.Warn(n.Title, "detail", n.Detail)
		return
	}
	slog.Info(n.Title, "detail", n.Detail)
}
