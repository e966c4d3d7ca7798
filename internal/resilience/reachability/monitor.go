// Package reachability turns an external connectivity signal into
// debounced offline→online edges. Detection itself lives outside this
// module; callers push raw boolean updates in.
package reachability

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Monitor consumes raw reachability updates and publishes stable online
// edges. Rapid flapping is debounced: an edge fires only after the signal
// holds online for the debounce window.
type Monitor struct {
	debounce time.Duration

	mu      sync.Mutex
	online  bool
	pending *time.Timer

	edges chan struct{}
}

// NewMonitor creates a monitor. debounce <= 0 disables debouncing and
// every offline→online transition fires immediately.
func NewMonitor(debounce time.Duration) *Monitor {
	return &Monitor{
		debounce: debounce,
		edges:    make(chan struct{}, 1),
	}
}

// Update pushes the current reachability state. Safe for concurrent use.
func (m *Monitor) Update(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if online == m.online {
		return
	}
	m.online = online

	if !online {
		// Going offline cancels any pending edge.
		if m.pending != nil {
			m.pending.Stop()
			m.pending = nil
		}
		return
	}

	if m.debounce <= 0 {
		m.fire()
		return
	}
	if m.pending != nil {
		m.pending.Stop()
	}
	m.pending = time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.pending = nil
		if m.online {
			m.fire()
		}
	})
}

// fire publishes an edge without blocking. A waiting edge coalesces with
// the new one; the consumer drains at its own pace.
func (m *Monitor) fire() {
	select {
	case m.edges <- struct{}{}:
	default:
		slog.Debug("reachability edge coalesced")
	}
}

// Online reports the last known state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Edges returns the channel that receives one value per stable
// offline→online transition.
func (m *Monitor) Edges() <-chan struct{} {
	return m.edges
}

// Watch copies updates from an external source channel until ctx ends.
func (m *Monitor) Watch(ctx context.Context, source <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-source:
			if !ok {
				return
			}
			m.Update(online)
		}
	}
}
