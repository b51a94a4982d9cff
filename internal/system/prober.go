// Package system measures backend connectivity (Home Assistant, database)
// on a fixed cadence and fans the readings out to system-stream
// subscribers.
package system

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mlee0412/frok-server/internal/model"
)

// Pinger reports reachability with a round-trip latency.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Prober runs the health probe loop.
type Prober struct {
	ha       Pinger
	db       DBPinger
	interval time.Duration
	started  time.Time

	mu   sync.Mutex
	subs map[chan model.SystemHealth]struct{}
	last *model.SystemHealth
}

func NewProber(ha Pinger, db DBPinger, interval time.Duration) *Prober {
	return &Prober{
		ha:       ha,
		db:       db,
		interval: interval,
		started:  time.Now(),
		subs:     make(map[chan model.SystemHealth]struct{}),
	}
}

// Run probes until ctx is canceled.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Prober) tick(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	health := model.SystemHealth{
		TS:      time.Now().UnixMilli(),
		UptimeS: int64(time.Since(p.started).Seconds()),
	}

	haLatency, err := p.ha.Ping(probeCtx)
	health.HAOk = err == nil
	health.HALatencyMs = haLatency.Milliseconds()
	if err != nil {
		slog.Debug("Home Assistant probe failed", "error", err)
	}

	dbStart := time.Now()
	if err := p.db.PingContext(probeCtx); err != nil {
		slog.Debug("Database probe failed", "error", err)
	} else {
		health.DBOk = true
	}
	health.DBLatencyMs = time.Since(dbStart).Milliseconds()

	p.mu.Lock()
	p.last = &health
	for ch := range p.subs {
		select {
		case ch <- health:
		default:
		}
	}
	p.mu.Unlock()
}

// Subscribe registers a stream consumer; the cancel func must be called
// when the consumer goes away.
func (p *Prober) Subscribe() (<-chan model.SystemHealth, func()) {
	ch := make(chan model.SystemHealth, 8)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	return ch, func() {
		p.mu.Lock()
		delete(p.subs, ch)
		p.mu.Unlock()
	}
}

// Last returns the most recent reading, or nil before the first probe.
func (p *Prober) Last() *model.SystemHealth {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
