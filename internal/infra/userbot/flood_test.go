package userbot

import (
	"testing"
	"time"
)

func TestFloodGate_OpenByDefault(t *testing.T) {
	g := NewFloodGate()
	if !g.MayResolveUsername() {
		t.Error("Expected a fresh gate to allow resolution")
	}
}

func TestFloodGate_BlocksUntilExpiry(t *testing.T) {
	g := NewFloodGate()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	g.RecordFloodWait(60 * time.Second)
	if g.MayResolveUsername() {
		t.Error("Expected the gate to block during the flood window")
	}

	now = now.Add(61 * time.Second)
	if !g.MayResolveUsername() {
		t.Error("Expected the gate to open once the window expired")
	}
	// The expired window was cleared, not just bypassed.
	if !g.MayResolveUsername() {
		t.Error("Expected the cleared gate to stay open")
	}
}

func TestFloodGate_LastWriteWins(t *testing.T) {
	g := NewFloodGate()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	g.RecordFloodWait(300 * time.Second)
	g.RecordFloodWait(10 * time.Second)

	want := now.Add(10 * time.Second)
	if !g.blockedUntil.Equal(want) {
		t.Errorf("Expected the shorter, newer window to win, got %v", g.blockedUntil)
	}

	now = now.Add(11 * time.Second)
	if !g.MayResolveUsername() {
		t.Error("Expected the gate to open after the newer window expired")
	}
}
