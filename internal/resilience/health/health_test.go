package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/infra/storage/memory"
	"github.com/jamlando/joanie-resilience/internal/resilience/analytics"
	"github.com/jamlando/joanie-resilience/internal/resilience/flow"
	"github.com/jamlando/joanie-resilience/internal/resilience/queue"
	"github.com/jamlando/joanie-resilience/internal/resilience/reachability"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

type fixture struct {
	queue   *queue.Queue
	engine  *flow.Engine
	reach   *reachability.Monitor
	monitor *Monitor
}

// Each test gets a fresh monitor because Check caches its report.
func newFixture(op queue.RetryOperation) *fixture {
	recorder := analytics.NewRecorder(analytics.NewMemorySink())
	reach := reachability.NewMonitor(0)
	q := queue.New(
		queue.Config{DrainInterval: time.Minute, DefaultMaxAttempts: 1},
		memory.NewQueueStore(),
		reach,
		recorder,
		op,
	)
	engine := flow.NewEngine(recorder, nil)
	return &fixture{
		queue:   q,
		engine:  engine,
		reach:   reach,
		monitor: NewMonitor(q, engine, reach),
	}
}

func (f *fixture) enqueue(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		d := taxonomy.Describe(taxonomy.KindNetworkUnavailable)
		if _, err := f.queue.Enqueue(d, nil, domain.PriorityNormal); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}
}

func TestCheck_Healthy(t *testing.T) {
	f := newFixture(nil)
	f.reach.Update(true)

	report := f.monitor.Check()
	if report.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	if !report.Online || report.QueueDepth != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestCheck_DegradedWhenOffline(t *testing.T) {
	f := newFixture(nil)

	report := f.monitor.Check()
	if report.Status != StatusDegraded {
		t.Errorf("offline subsystem must be degraded, got %s", report.Status)
	}
}

func TestCheck_DegradedOnExhausted(t *testing.T) {
	f := newFixture(func(ctx context.Context, fa domain.QueuedFailure) error {
		return errors.New("still failing")
	})
	f.reach.Update(true)

	f.enqueue(t, 1)
	f.queue.Drain(context.Background(), "test") // max attempts 1 → exhausted

	report := f.monitor.Check()
	if report.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.QueueExhausted != 1 {
		t.Errorf("expected 1 exhausted, got %d", report.QueueExhausted)
	}
}

func TestCheck_CriticalOnDepth(t *testing.T) {
	f := newFixture(nil)
	f.reach.Update(true)

	f.enqueue(t, 101)

	report := f.monitor.Check()
	if report.Status != StatusCritical {
		t.Errorf("expected critical at depth %d, got %s", report.QueueDepth, report.Status)
	}
	if report.OldestEntryAge == "" {
		t.Error("expected oldest entry age with entries present")
	}
}

func TestCheck_ReportsActiveFlow(t *testing.T) {
	f := newFixture(nil)
	f.reach.Update(true)
	f.engine.Start(taxonomy.Describe(taxonomy.KindNetworkUnavailable))

	report := f.monitor.Check()
	if report.ActiveFlow != string(taxonomy.CategoryNetwork) {
		t.Errorf("expected network flow reported, got %q", report.ActiveFlow)
	}
}

func TestCheck_CachesReport(t *testing.T) {
	f := newFixture(nil)
	f.reach.Update(true)

	first := f.monitor.Check()
	f.enqueue(t, 1)
	second := f.monitor.Check()

	if second.QueueDepth != first.QueueDepth {
		t.Error("report should be served from cache within the refresh window")
	}
}
