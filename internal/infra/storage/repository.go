package storage

import (
	"context"
	"errors"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
)

var (
	// ErrSnapshotCorrupt is returned when a persisted queue snapshot
	// cannot be decoded. Callers discard the blob and start empty.
	ErrSnapshotCorrupt = errors.New("queue snapshot corrupt")
)

// QueueStore persists the full offline queue snapshot under a single
// named key. Writes replace the previous snapshot (last-writer-wins).
type QueueStore interface {
	// Save persists the entire queue in drain order.
	Save(ctx context.Context, entries []*domain.QueuedFailure) error

	// Load restores the queue in the order it was saved. A missing
	// snapshot yields an empty slice; an undecodable one yields
	// ErrSnapshotCorrupt.
	Load(ctx context.Context) ([]*domain.QueuedFailure, error)

	// Clear removes the snapshot.
	Clear(ctx context.Context) error

	// Count returns the number of entries in the persisted snapshot.
	Count(ctx context.Context) (int, error)
}

// EventStore is a durable sink for analytics events.
type EventStore interface {
	// Append records one event.
	Append(ctx context.Context, ev *domain.AnalyticsEvent) error
}
