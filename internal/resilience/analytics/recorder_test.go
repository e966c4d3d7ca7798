package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// =============================================================================
// Mock Sink
// =============================================================================

type failingSink struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSink) Record(ctx context.Context, ev *domain.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("sink unavailable")
}

func (s *failingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

// =============================================================================
// Recorder
// =============================================================================

func TestRecorder_DeliversToSink(t *testing.T) {
	sink := NewMemorySink()
	r := NewRecorder(sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	d := taxonomy.Describe(taxonomy.KindRateLimitExceeded)
	r.Occurred(d, map[string]string{"operation": "upload"})
	r.RetryAttempted(d, 1)
	r.RetrySucceeded(d, 2)

	waitFor(t, func() bool { return len(sink.Events()) == 3 })

	events := sink.Events()
	if events[0].Kind != domain.EventOccurred {
		t.Errorf("expected occurred first, got %s", events[0].Kind)
	}
	if events[0].ErrorKind != taxonomy.KindRateLimitExceeded {
		t.Errorf("descriptor fields not copied: %+v", events[0])
	}
	if events[0].Context["operation"] != "upload" {
		t.Error("context not carried")
	}
	if events[2].Attempt != 2 {
		t.Errorf("expected attempt 2, got %d", events[2].Attempt)
	}
	for _, ev := range events {
		if ev.ID == "" || ev.At.IsZero() {
			t.Errorf("event missing id/timestamp: %+v", ev)
		}
	}
}

func TestRecorder_SinkFailuresAreSwallowed(t *testing.T) {
	sink := &failingSink{}
	r := NewRecorder(sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	// Must not panic or surface anything to the caller.
	d := taxonomy.Describe(taxonomy.KindServerError)
	r.Occurred(d, nil)
	r.Dismissed(d, nil)

	waitFor(t, func() bool { return sink.count() == 2 })
}

func TestRecorder_RecordBeforeStartBuffers(t *testing.T) {
	sink := NewMemorySink()
	r := NewRecorder(sink)

	r.Record(domain.EventDismissed, taxonomy.Describe(taxonomy.KindUnknown), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	waitFor(t, func() bool { return len(sink.Events()) == 1 })
}

func TestRecorder_FlushesOnShutdown(t *testing.T) {
	sink := NewMemorySink()
	r := NewRecorder(sink)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	for i := 0; i < 10; i++ {
		r.Occurred(taxonomy.Describe(taxonomy.KindNetworkUnavailable), nil)
	}
	cancel()
	r.Wait()

	if got := len(sink.Events()); got != 10 {
		t.Errorf("expected all 10 events flushed, got %d", got)
	}
}
