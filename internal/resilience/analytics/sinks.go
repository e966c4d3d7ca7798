package analytics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
)

// LogSink writes events to the structured log. Used when no durable
// event store is configured.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a sink that logs events at debug level.
func NewLogSink() *LogSink {
	return &LogSink{log: slog.With("component", "analytics")}
}

func (s *LogSink) Record(ctx context.Context, ev *domain.AnalyticsEvent) error {
	s.log.Debug("analytics event",
		"event", ev.Kind,
		"error_kind", ev.ErrorKind,
		"category", ev.Category,
		"severity", ev.Severity,
		"attempt", ev.Attempt,
		"step", ev.Step,
	)
	return nil
}

// MemorySink buffers events in memory, for tests and inspection.
type MemorySink struct {
	mu     sync.Mutex
	events []*domain.AnalyticsEvent
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(ctx context.Context, ev *domain.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far.
func (s *MemorySink) Events() []*domain.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	return out
}
