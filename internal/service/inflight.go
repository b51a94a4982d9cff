package service

import (
	"context"
	"sync"
)

// turnToken identifies one registered in-flight turn so a finished turn only
// removes its own registration, never a successor's.
type turnToken struct {
	cancel context.CancelFunc
}

// inflightRegistry enforces the one-turn-per-thread rule: registering a new
// turn for a thread cancels whatever turn that thread already had running.
type inflightRegistry struct {
	mu    sync.Mutex
	turns map[string]*turnToken
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{turns: make(map[string]*turnToken)}
}

// begin registers cancel as the thread's current turn and cancels the
// superseded one, if any.
func (r *inflightRegistry) begin(threadID string, cancel context.CancelFunc) *turnToken {
	tok := &turnToken{cancel: cancel}
	r.mu.Lock()
	prev := r.turns[threadID]
	r.turns[threadID] = tok
	r.mu.Unlock()
	if prev != nil {
		prev.cancel()
	}
	return tok
}

// end removes the registration unless a newer turn already replaced it.
func (r *inflightRegistry) end(threadID string, tok *turnToken) {
	r.mu.Lock()
	if r.turns[threadID] == tok {
		delete(r.turns, threadID)
	}
	r.mu.Unlock()
}
