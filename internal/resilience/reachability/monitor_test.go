package reachability

import (
	"testing"
	"time"
)

func edgeFired(m *Monitor) bool {
	select {
	case <-m.Edges():
		return true
	default:
		return false
	}
}

func waitEdge(t *testing.T, m *Monitor, within time.Duration) {
	t.Helper()
	select {
	case <-m.Edges():
	case <-time.After(within):
		t.Fatal("expected an online edge")
	}
}

func TestMonitor_ImmediateEdge(t *testing.T) {
	m := NewMonitor(0)

	m.Update(true)
	if !edgeFired(m) {
		t.Fatal("offline→online must fire an edge")
	}

	// Staying online fires nothing.
	m.Update(true)
	if edgeFired(m) {
		t.Error("duplicate online update must not fire")
	}

	// Going offline fires nothing.
	m.Update(false)
	if edgeFired(m) {
		t.Error("online→offline must not fire")
	}
	if m.Online() {
		t.Error("expected offline state")
	}
}

func TestMonitor_DebouncesFlapping(t *testing.T) {
	m := NewMonitor(30 * time.Millisecond)

	// Rapid flapping: online edges keep getting cancelled.
	for i := 0; i < 5; i++ {
		m.Update(true)
		m.Update(false)
	}
	time.Sleep(60 * time.Millisecond)
	if edgeFired(m) {
		t.Fatal("flapping must not produce an edge")
	}

	// A stable online period produces exactly one.
	m.Update(true)
	waitEdge(t, m, 200*time.Millisecond)
	if edgeFired(m) {
		t.Error("expected exactly one edge per stable online period")
	}
}

func TestMonitor_EdgesCoalesce(t *testing.T) {
	m := NewMonitor(0)

	// Two full offline→online cycles with nobody consuming: the channel
	// holds one pending edge, the rest coalesce.
	m.Update(true)
	m.Update(false)
	m.Update(true)

	if !edgeFired(m) {
		t.Fatal("expected one pending edge")
	}
	if edgeFired(m) {
		t.Error("edges must coalesce, not queue")
	}
}
