package queue

import (
	"context"
	"time"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/resilience/metrics"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// drainLoop runs drains on two triggers: a stable offline→online edge
// and a periodic tick while online.
func (q *Queue) drainLoop(ctx context.Context) {
	defer q.wg.Done()

	ticker := time.NewTicker(q.cfg.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.reach.Edges():
			q.Drain(ctx, "reachability")
		case <-ticker.C:
			if q.reach.Online() {
				q.Drain(ctx, "periodic")
			}
		}
	}
}

// Drain attempts every eligible entry once. Only one drain runs at a
// time; a request that arrives mid-drain is dropped, the next trigger
// covers it.
func (q *Queue) Drain(ctx context.Context, trigger string) {
	if !q.draining.TryLock() {
		q.log.Debug("drain already in flight, skipping", "trigger", trigger)
		return
	}
	defer q.draining.Unlock()

	q.mu.Lock()
	op := q.retryOp
	candidates := make([]domain.QueuedFailure, 0, len(q.entries))
	for _, e := range q.entries {
		if !e.Exhausted() && taxonomy.IsRetryable(e.Kind) {
			candidates = append(candidates, *e)
		}
	}
	q.mu.Unlock()

	if op == nil || len(candidates) == 0 {
		return
	}

	metrics.DrainsTotal.WithLabelValues(trigger).Inc()
	start := time.Now()
	q.log.Info("draining offline queue", "trigger", trigger, "candidates", len(candidates))

	resolved := 0
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		if err := op(ctx, c); err != nil {
			q.recordAttemptFailure(c.ID, err)
			continue
		}
		q.resolve(c.ID)
		resolved++
	}

	metrics.DrainDuration.Observe(time.Since(start).Seconds())
	q.log.Info("drain complete",
		"trigger", trigger, "resolved", resolved, "remaining", len(candidates)-resolved)
}

// resolve removes a successfully replayed entry.
func (q *Queue) resolve(id string) {
	q.mu.Lock()
	var done *domain.QueuedFailure
	for i, e := range q.entries {
		if e.ID == id {
			e.AttemptCount++
			done = e
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	if done != nil {
		q.updateDepthMetrics()
		q.requestPersist()
	}
	q.mu.Unlock()

	if done != nil {
		q.recorder.RetrySucceeded(done.Descriptor(), done.AttemptCount)
	}
}

// recordAttemptFailure bumps the attempt count. An entry that reaches
// MaxAttempts stays queued in a terminal state for the user to retry or
// dismiss; it is never silently dropped.
func (q *Queue) recordAttemptFailure(id string, attemptErr error) {
	q.mu.Lock()
	var failed *domain.QueuedFailure
	for _, e := range q.entries {
		if e.ID == id {
			e.AttemptCount++
			failed = e
			break
		}
	}
	if failed != nil {
		q.updateDepthMetrics()
		q.requestPersist()
	}
	q.mu.Unlock()

	if failed == nil {
		return
	}
	q.recorder.RetryFailed(failed.Descriptor(), failed.AttemptCount)
	if failed.Exhausted() {
		q.log.Warn("queued failure exhausted attempts",
			"id", failed.ID, "kind", failed.Kind,
			"attempts", failed.AttemptCount, "error", attemptErr)
	}
}
