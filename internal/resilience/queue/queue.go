// Package queue implements the persisted offline error queue: a
// priority-ordered backlog of retryable failures, drained when
// connectivity returns or on a periodic tick.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/infra/storage"
	"github.com/jamlando/joanie-resilience/internal/resilience/analytics"
	"github.com/jamlando/joanie-resilience/internal/resilience/metrics"
	"github.com/jamlando/joanie-resilience/internal/resilience/reachability"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

var (
	// ErrNotAccepted is returned for failures the queue refuses:
	// non-retryable kinds or categories that need a recovery flow.
	ErrNotAccepted = errors.New("failure not eligible for offline queue")

	// ErrNotFound is returned for unknown entry IDs.
	ErrNotFound = errors.New("queued failure not found")
)

// RetryOperation re-executes the work behind a queued failure. Supplied
// by the caller; the queue never simulates outcomes itself.
type RetryOperation func(ctx context.Context, f domain.QueuedFailure) error

// Config holds queue tuning.
type Config struct {
	DrainInterval      time.Duration `yaml:"drain_interval"`
	DefaultMaxAttempts int           `yaml:"default_max_attempts"`
}

// Queue is the offline error queue. All mutations go through its mutex;
// persistence happens on every mutation via a coalescing background
// writer so the caller's critical path never waits on storage.
type Queue struct {
	cfg      Config
	store    storage.QueueStore
	reach    *reachability.Monitor
	recorder *analytics.Recorder
	retryOp  RetryOperation
	log      *slog.Logger

	mu      sync.Mutex
	entries []*domain.QueuedFailure

	draining  sync.Mutex // TryLock guards single drain in flight
	persistCh chan []*domain.QueuedFailure
	wg        sync.WaitGroup
}

// New creates a queue. retryOp may be nil until SetRetryOperation is
// called; drains are skipped while it is unset.
func New(
	cfg Config,
	store storage.QueueStore,
	reach *reachability.Monitor,
	recorder *analytics.Recorder,
	retryOp RetryOperation,
) *Queue {
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = 30 * time.Second
	}
	if cfg.DefaultMaxAttempts <= 0 {
		cfg.DefaultMaxAttempts = 3
	}
	return &Queue{
		cfg:       cfg,
		store:     store,
		reach:     reach,
		recorder:  recorder,
		retryOp:   retryOp,
		log:       slog.With("component", "offline_queue"),
		persistCh: make(chan []*domain.QueuedFailure, 1),
	}
}

// SetRetryOperation installs the caller-supplied retry callback.
func (q *Queue) SetRetryOperation(op RetryOperation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.retryOp = op
}

// Start restores the persisted snapshot and launches the persistence
// writer and the drain loop. Blocks until the snapshot is loaded.
func (q *Queue) Start(ctx context.Context) error {
	entries, err := q.store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotCorrupt) {
			// A bad snapshot must not take the queue down.
			q.log.Warn("discarding corrupt queue snapshot")
			entries = nil
			_ = q.store.Clear(ctx)
		} else {
			return fmt.Errorf("failed to load queue snapshot: %w", err)
		}
	}

	q.mu.Lock()
	q.entries = entries
	q.updateDepthMetrics()
	q.mu.Unlock()

	q.log.Info("offline queue restored", "entries", len(entries))

	q.wg.Add(2)
	go q.persistLoop(ctx)
	go q.drainLoop(ctx)
	return nil
}

// Wait blocks until background loops exit after context cancellation.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Enqueue accepts a failure for later replay. Only retryable failures in
// the network or server categories, or retryable storage-side kinds, are
// accepted; everything else belongs in a recovery flow.
func (q *Queue) Enqueue(
	d taxonomy.Descriptor,
	fields map[string]string,
	priority domain.Priority,
) (*domain.QueuedFailure, error) {
	if !eligible(d) {
		return nil, fmt.Errorf("%w: %s", ErrNotAccepted, d.Kind)
	}

	entry := &domain.QueuedFailure{
		ID:          uuid.New().String(),
		Kind:        d.Kind,
		Code:        d.Code,
		Category:    d.Category,
		Context:     fields,
		EnqueuedAt:  time.Now().UTC(),
		MaxAttempts: q.cfg.DefaultMaxAttempts,
		Priority:    priority,
	}

	q.mu.Lock()
	q.insert(entry)
	q.updateDepthMetrics()
	q.requestPersist()
	q.mu.Unlock()

	q.recorder.Occurred(d, fields)
	q.log.Debug("failure enqueued",
		"id", entry.ID, "kind", entry.Kind, "priority", priority.String())
	return entry, nil
}

// eligible gates what the queue accepts.
func eligible(d taxonomy.Descriptor) bool {
	if !d.Retryable {
		return false
	}
	switch d.Category {
	case taxonomy.CategoryNetwork, taxonomy.CategoryServer:
		return true
	}
	// Retryable system-side kinds (storage, uploads) also qualify.
	return d.Kind == taxonomy.KindStorageError || d.Kind == taxonomy.KindImageUploadFailed
}

// insert keeps entries ordered by priority desc, FIFO within a tier.
// Caller holds q.mu.
func (q *Queue) insert(entry *domain.QueuedFailure) {
	idx := len(q.entries)
	for i, e := range q.entries {
		if e.Priority < entry.Priority {
			idx = i
			break
		}
	}
	q.entries = append(q.entries, nil)
	copy(q.entries[idx+1:], q.entries[idx:])
	q.entries[idx] = entry
}

// Entries returns a copy of the queue in drain order.
func (q *Queue) Entries() []domain.QueuedFailure {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.QueuedFailure, len(q.entries))
	for i, e := range q.entries {
		out[i] = *e
	}
	return out
}

// Retry resets an entry's attempt count so the next drain picks it up
// again. Meant for user-driven retry of exhausted entries.
func (q *Queue) Retry(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.ID == id {
			e.AttemptCount = 0
			q.updateDepthMetrics()
			q.requestPersist()
			return nil
		}
	}
	return ErrNotFound
}

// Dismiss removes an entry at the user's request.
func (q *Queue) Dismiss(id string) error {
	q.mu.Lock()
	var dismissed *domain.QueuedFailure
	for i, e := range q.entries {
		if e.ID == id {
			dismissed = e
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	if dismissed != nil {
		q.updateDepthMetrics()
		q.requestPersist()
	}
	q.mu.Unlock()

	if dismissed == nil {
		return ErrNotFound
	}
	q.recorder.Dismissed(dismissed.Descriptor(), dismissed.Context)
	return nil
}

// Clear wipes the queue and its snapshot.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	q.entries = nil
	q.updateDepthMetrics()
	q.mu.Unlock()
	return q.store.Clear(ctx)
}

// requestPersist hands the current snapshot to the background writer.
// Caller holds q.mu, so there is a single producer: a pending stale
// snapshot is replaced rather than queued, keeping writes ordered.
func (q *Queue) requestPersist() {
	snap := make([]*domain.QueuedFailure, len(q.entries))
	for i, e := range q.entries {
		c := *e
		snap[i] = &c
	}
	select {
	case q.persistCh <- snap:
	default:
		select {
		case <-q.persistCh:
		default:
		}
		q.persistCh <- snap
	}
}

func (q *Queue) persistLoop(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			// Final write so a shutdown does not lose the last mutation.
			select {
			case snap := <-q.persistCh:
				q.save(snap)
			default:
			}
			return
		case snap := <-q.persistCh:
			q.save(snap)
		}
	}
}

func (q *Queue) save(snap []*domain.QueuedFailure) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := q.store.Save(ctx, snap); err != nil {
		q.log.Error("failed to persist queue snapshot", "error", err, "entries", len(snap))
	}
}

// updateDepthMetrics refreshes the queue gauges. Caller holds q.mu.
func (q *Queue) updateDepthMetrics() {
	counts := map[domain.Priority]int{}
	exhausted := 0
	for _, e := range q.entries {
		counts[e.Priority]++
		if e.Exhausted() {
			exhausted++
		}
	}
	for _, p := range []domain.Priority{
		domain.PriorityLow, domain.PriorityNormal, domain.PriorityHigh, domain.PriorityCritical,
	} {
		metrics.QueueDepth.WithLabelValues(p.String()).Set(float64(counts[p]))
	}
	metrics.QueueExhausted.Set(float64(exhausted))
}
