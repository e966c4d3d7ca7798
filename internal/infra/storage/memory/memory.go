package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/infra/storage"
)

// QueueStore keeps the snapshot in memory. Used in tests and when no
// durable backend is configured; a restart loses the queue, which the
// caller accepts by choosing this mode.
type QueueStore struct {
	mu   sync.RWMutex
	blob []byte
}

func NewQueueStore() *QueueStore {
	return &QueueStore{}
}

// Save serializes through JSON so the round-trip behaves exactly like
// the durable stores.
func (s *QueueStore) Save(ctx context.Context, entries []*domain.QueuedFailure) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = data
	return nil
}

func (s *QueueStore) Load(ctx context.Context) ([]*domain.QueuedFailure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.blob == nil {
		return nil, nil
	}
	var entries []*domain.QueuedFailure
	if err := json.Unmarshal(s.blob, &entries); err != nil {
		return nil, storage.ErrSnapshotCorrupt
	}
	return entries, nil
}

func (s *QueueStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	return nil
}

func (s *QueueStore) Count(ctx context.Context) (int, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Corrupt overwrites the stored blob, for snapshot-reset tests.
func (s *QueueStore) Corrupt(blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = blob
}

// EventStore appends analytics events in memory.
type EventStore struct {
	mu     sync.Mutex
	events []*domain.AnalyticsEvent
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(ctx context.Context, ev *domain.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *EventStore) Events() []*domain.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	return out
}
