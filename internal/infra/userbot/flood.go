package userbot

import (
	"sync"
	"time"
)

// FloodGate tracks the single "blocked until" timestamp that governs
// username-resolution calls. It is constructed once and injected into
// the client rather than living as a package global.
type FloodGate struct {
	mu           sync.Mutex
	blockedUntil time.Time
	now          func() time.Time
}

// NewFloodGate creates a new flood gate
func NewFloodGate() *FloodGate {
	return &FloodGate{now: time.Now}
}

// MayResolveUsername reports whether a username resolution may be
// attempted. An expired window is cleared on the way.
func (g *FloodGate) MayResolveUsername() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.blockedUntil.IsZero() {
		return true
	}
	if g.now().Before(g.blockedUntil) {
		return false
	}
	g.blockedUntil = time.Time{}
	return true
}

// RecordFloodWait blocks username resolution for the given duration.
// The most recent flood signal wins, even when it is shorter than the
// window already in place.
func (g *FloodGate) RecordFloodWait(wait time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blockedUntil = g.now().Add(wait)
}
