package health

import (
	"sync"
	"time"

	"github.com/jamlando/joanie-resilience/internal/resilience/flow"
	"github.com/jamlando/joanie-resilience/internal/resilience/queue"
	"github.com/jamlando/joanie-resilience/internal/resilience/reachability"
)

// Monitor aggregates queue, flow and reachability state into one report.
type Monitor struct {
	queue  *queue.Queue
	engine *flow.Engine
	reach  *reachability.Monitor

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport Report
}

// NewMonitor creates a health monitor.
func NewMonitor(q *queue.Queue, engine *flow.Engine, reach *reachability.Monitor) *Monitor {
	return &Monitor{queue: q, engine: engine, reach: reach}
}

// Check builds the current report. Results are cached briefly so a
// scrape storm does not hammer the queue lock.
func (m *Monitor) Check() Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 5*time.Second && !m.lastCheck.IsZero() {
		return m.lastReport
	}

	stats := m.queue.Statistics()
	report := Report{
		Status:         StatusHealthy,
		Online:         m.reach.Online(),
		QueueDepth:     stats.Total,
		QueueExhausted: stats.Exhausted,
		MeanAttempts:   stats.MeanAttempts,
	}
	if stats.OldestAt != nil {
		report.OldestEntryAge = time.Since(*stats.OldestAt).Round(time.Second).String()
	}
	if active := m.engine.Active(); active != nil {
		report.ActiveFlow = string(active.Category)
		report.FlowCursor = active.Cursor
	}

	switch {
	case stats.Total > 100 || stats.Exhausted > 20:
		report.Status = StatusCritical
	case stats.Total > 20 || stats.Exhausted > 0 || !report.Online:
		report.Status = StatusDegraded
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
