package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/infra/storage"
)

// snapshotKey is the row the whole queue persists under. The table is a
// generic key-value store; the queue only ever uses this one key.
const snapshotKey = "offline_queue"

// QueueStore implements storage.QueueStore on PostgreSQL.
type QueueStore struct {
	db *DB
}

// NewQueueStore creates a PostgreSQL-backed queue store.
func NewQueueStore(db *DB) *QueueStore {
	return &QueueStore{db: db}
}

// Save upserts the snapshot, last-writer-wins.
func (s *QueueStore) Save(ctx context.Context, entries []*domain.QueuedFailure) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal queue snapshot: %w", err)
	}

	query := `
		INSERT INTO queue_snapshots (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, snapshotKey, data); err != nil {
		return fmt.Errorf("failed to store queue snapshot: %w", err)
	}
	return nil
}

// Load restores the snapshot. A corrupt payload maps to
// storage.ErrSnapshotCorrupt so the queue resets instead of crashing.
func (s *QueueStore) Load(ctx context.Context) ([]*domain.QueuedFailure, error) {
	var data []byte
	query := `SELECT payload FROM queue_snapshots WHERE key = $1`
	if err := s.db.GetContext(ctx, &data, query, snapshotKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read queue snapshot: %w", err)
	}

	var entries []*domain.QueuedFailure
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrSnapshotCorrupt, err)
	}
	return entries, nil
}

// Clear deletes the snapshot row.
func (s *QueueStore) Clear(ctx context.Context) error {
	query := `DELETE FROM queue_snapshots WHERE key = $1`
	if _, err := s.db.ExecContext(ctx, query, snapshotKey); err != nil {
		return fmt.Errorf("failed to clear queue snapshot: %w", err)
	}
	return nil
}

// Count returns the number of persisted entries.
func (s *QueueStore) Count(ctx context.Context) (int, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
