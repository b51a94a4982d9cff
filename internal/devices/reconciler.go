package devices

import (
	"sync"

	"github.com/mlee0412/frok-server/internal/model"
)

// Reconciler consumes full device-list snapshots and detects per-device
// online/offline transitions. The comparison is purely value-based on the
// online predicate per device id, so replaying an identical snapshot
// produces no additional notifications.
type Reconciler struct {
	notifier Notifier

	mu      sync.Mutex
	prev    map[string]model.Device
	devices []model.Device
	seeded  bool
}

func NewReconciler(n Notifier) *Reconciler {
	return &Reconciler{notifier: n}
}

// Apply ingests one snapshot. The first snapshot of a session only seeds
// the baseline: no transition can be computed without a previous value.
// On every later snapshot, devices present in both the previous and the new
// list are compared on the online predicate; a true-to-false flip raises a
// "went offline" notification and the reverse flip a "back online" one.
// Newly appeared and disappeared devices generate no notification. The
// local device list is replaced wholesale regardless of transitions.
func (r *Reconciler) Apply(snap model.DeviceSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]model.Device, len(snap.Items))
	for _, d := range snap.Items {
		next[d.ID] = d
	}

	if r.seeded {
		for _, d := range snap.Items {
			old, ok := r.prev[d.ID]
			if !ok {
				continue
			}
			was, is := old.IsOnline(), d.IsOnline()
			switch {
			case was && !is:
				r.notifier.Notify(Notification{
					Severity: SeverityWarning,
					Title:    d.Name + " went offline",
					Detail:   d.ID,
				})
			case !was && is:
				r.notifier.Notify(Notification{
					Severity: SeverityInfo,
					Title:    d.Name + " is back online",
					Detail:   d.ID,
				})
			}
		}
	}

	r.prev = next
	r.devices = snap.Items
	r.seeded = true
}

// Devices returns the most recent snapshot's device list.
func (r *Reconciler) Devices() []model.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices
}
