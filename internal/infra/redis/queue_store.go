package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/infra/storage"
)

// snapshotKey is the single key the whole queue persists under.
const snapshotKey = "resilience:offline_queue"

// QueueStore implements storage.QueueStore on Redis: the full queue is
// one JSON blob, replaced wholesale on every save.
type QueueStore struct {
	rdb *redis.Client
}

// NewQueueStore creates a Redis-backed queue store.
func NewQueueStore(client *Client) *QueueStore {
	return &QueueStore{rdb: client.rdb}
}

// Save replaces the persisted snapshot.
func (s *QueueStore) Save(ctx context.Context, entries []*domain.QueuedFailure) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal queue snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store queue snapshot: %w", err)
	}
	return nil
}

// Load restores the snapshot. A corrupt blob comes back as
// storage.ErrSnapshotCorrupt so the queue can reset instead of crash.
func (s *QueueStore) Load(ctx context.Context) ([]*domain.QueuedFailure, error) {
	data, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read queue snapshot: %w", err)
	}

	var entries []*domain.QueuedFailure
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrSnapshotCorrupt, err)
	}
	return entries, nil
}

// Clear deletes the snapshot.
func (s *QueueStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, snapshotKey).Err()
}

// Count returns the number of persisted entries.
func (s *QueueStore) Count(ctx context.Context) (int, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
