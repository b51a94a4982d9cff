package devices

import (
	"sync"

	"github.com/mlee0412/frok-server/internal/model"
)

// HealthReconciler applies the snapshot-diffing pattern to the system
// stream's connectivity flags instead of a device list. On the first
// payload it notifies only on already-bad states; afterwards it fires one
// notification per flag edge in either direction.
type HealthReconciler struct {
	notifier Notifier

	mu   sync.Mutex
	prev *model.SystemHealth
}

func NewHealthReconciler(n Notifier) *HealthReconciler {
	return &HealthReconciler{notifier: n}
}

func (h *HealthReconciler) Apply(s model.SystemHealth) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.prev == nil {
		if !s.HAOk {
			h.notifier.Notify(Notification{Severity: SeverityWarning, Title: "Home Assistant is unreachable"})
		}
		if !s.DBOk {
			h.notifier.Notify(Notification{Severity: SeverityWarning, Title: "Database is unreachable"})
		}
	} else {
		h.edge(h.prev.HAOk, s.HAOk, "Home Assistant")
		h.edge(h.prev.DBOk, s.DBOk, "Database")
	}

	cp := s
	h.prev = &cp
}

func (h *HealthReconciler) edge(was, is bool, component string) {
	switch {
	case was && !is:
		h.notifier.Notify(Notification{Severity: SeverityWarning, Title: component + " is unreachable"})
	case !was && is:
		h.notifier.Notify(Notification{Severity: SeverityInfo, Title: component + " connection restored"})
	}
}
