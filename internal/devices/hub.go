package devices

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mlee0412/frok-server/internal/model"
)

// SnapshotSource provides the current full device list.
type SnapshotSource interface {
	States(ctx context.Context) ([]model.Device, error)
}

// Hub polls the snapshot source on a fixed cadence, feeds every snapshot
// through the reconciler, and fans it out to stream subscribers. Snapshots
// are always broadcast, changed or not; the reconciler's value-based diff
// keeps repeated identical snapshots from re-notifying.
type Hub struct {
	source   SnapshotSource
	rec      *Reconciler
	interval time.Duration

	mu   sync.Mutex
	subs map[chan model.DeviceSnapshot]struct{}
}

func NewHub(source SnapshotSource, rec *Reconciler, interval time.Duration) *Hub {
	return &Hub{
		source:   source,
		rec:      rec,
		interval: interval,
		subs:     make(map[chan model.DeviceSnapshot]struct{}),
	}
}

// Run polls until ctx is canceled. A failed poll is logged and skipped; the
// previous snapshot stays current.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Hub) tick(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	items, err := h.source.States(tickCtx)
	if err != nil {
		slog.Warn("Device poll failed", "error", err)
		return
	}

	snap := model.DeviceSnapshot{TS: time.Now().UnixMilli(), Items: items}
	h.rec.Apply(snap)
	h.broadcast(snap)
}

func (h *Hub) broadcast(snap model.DeviceSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- snap:
		default:
			// A subscriber that stopped draining loses snapshots
			// rather than stalling the hub; the next delivered one
			// is a full list anyway.
		}
	}
}

// Subscribe registers a stream consumer. The returned cancel func must be
// called when the consumer goes away.
func (h *Hub) Subscribe() (<-chan model.DeviceSnapshot, func()) {
	ch := make(chan model.DeviceSnapshot, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Snapshot returns the current device list as a snapshot payload. Items is
// never nil: before the first successful poll consumers get an empty array,
// not null.
func (h *Hub) Snapshot() model.DeviceSnapshot {
	items := h.rec.Devices()
	if items == nil {
		items = []model.Device{}
	}
	return model.DeviceSnapshot{TS: time.Now().UnixMilli(), Items: items}
}
