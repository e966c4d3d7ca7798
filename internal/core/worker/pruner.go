package worker

import (
	"context"
	"log/slog"
	"time"
)

// EventPruner deletes analytics events older than a cutoff.
type EventPruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Pruner deletes old analytics events based on retention policy.
type Pruner struct {
	retention time.Duration
	events    EventPruner
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, events EventPruner) *Pruner {
	return &Pruner{
		retention: retention,
		events:    events,
		log:       slog.With("component", "pruner"),
	}
}

// Start runs the pruner loop.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// Check interval: 10% of retention period, clamped to [1m, 1h]
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	cutoff := time.Now().Add(-p.retention)
	deleted, err := p.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.log.Error("failed to prune analytics events", "error", err)
		return
	}
	if deleted > 0 {
		p.log.Debug("pruned analytics events", "deleted", deleted, "cutoff", cutoff)
	}
}
