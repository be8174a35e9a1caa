package session

import "sync"

// Gate is the single mutual-exclusion primitive for user-triggered mutating
// actions: Idle → Busy → Idle. It is a lock, not a queue; an action
// attempted while the gate is held is rejected, never queued. Reads are not
// serialized by it.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

// TryAcquire takes the gate if it is idle. Returns false when busy.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release returns the gate to idle. Safe to call when already idle.
func (g *Gate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Busy reports the current gate state.
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
