package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
)

// EventStore implements storage.EventStore on PostgreSQL: an
// append-only table of analytics events.
type EventStore struct {
	db *DB
}

// NewEventStore creates a PostgreSQL-backed event store.
func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// Append records one event.
func (s *EventStore) Append(ctx context.Context, ev *domain.AnalyticsEvent) error {
	var fields []byte
	if len(ev.Context) > 0 {
		var err error
		fields, err = json.Marshal(ev.Context)
		if err != nil {
			return fmt.Errorf("failed to marshal event context: %w", err)
		}
	}

	query := `
		INSERT INTO analytics_events
			(id, kind, error_kind, category, severity, retryable, attempt, step, context, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		ev.ID,
		string(ev.Kind),
		string(ev.ErrorKind),
		string(ev.Category),
		string(ev.Severity),
		ev.Retryable,
		ev.Attempt,
		ev.Step,
		fields,
		ev.At,
	)
	if err != nil {
		return fmt.Errorf("failed to append analytics event: %w", err)
	}
	return nil
}

// DeleteOlderThan removes events recorded before the cutoff. Used by the
// retention pruner.
func (s *EventStore) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analytics_events WHERE recorded_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analytics events: %w", err)
	}
	return res.RowsAffected()
}
