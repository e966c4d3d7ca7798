// Package analytics records structured resilience events and forwards
// them to an external sink. Recording never fails the caller: sink
// errors are logged and swallowed, full buffers drop events.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/resilience/metrics"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// Sink receives recorded events. Implementations may be slow; the
// recorder decouples them from callers with a buffered worker.
type Sink interface {
	Record(ctx context.Context, ev *domain.AnalyticsEvent) error
}

// Recorder builds analytics events and ships them to a sink
// asynchronously.
type Recorder struct {
	sink   Sink
	events chan *domain.AnalyticsEvent
	log    *slog.Logger

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewRecorder creates a recorder over the given sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{
		sink:   sink,
		events: make(chan *domain.AnalyticsEvent, 256),
		log:    slog.With("component", "analytics"),
	}
}

// Start launches the delivery worker. Events recorded before Start are
// buffered up to capacity.
func (r *Recorder) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				r.flush()
				return
			case ev := <-r.events:
				r.deliver(ev)
			}
		}
	}()
}

// Wait blocks until the worker has drained after its context ended.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) flush() {
	for {
		select {
		case ev := <-r.events:
			r.deliver(ev)
		default:
			return
		}
	}
}

func (r *Recorder) deliver(ev *domain.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.sink.Record(ctx, ev); err != nil {
		r.log.Warn("failed to record analytics event",
			"event", ev.Kind, "error_kind", ev.ErrorKind, "error", err)
	}
}

// Record builds and submits an event. Never blocks and never returns an
// error; a full buffer drops the event with a metric bump.
func (r *Recorder) Record(kind domain.EventKind, d taxonomy.Descriptor, fields map[string]string) {
	r.submit(&domain.AnalyticsEvent{
		Kind:    kind,
		Context: fields,
	}, d)
}

func (r *Recorder) submit(ev *domain.AnalyticsEvent, d taxonomy.Descriptor) {
	ev.ID = uuid.New().String()
	ev.At = time.Now().UTC()
	ev.ErrorKind = d.Kind
	ev.Category = d.Category
	ev.Severity = d.Severity
	ev.Retryable = d.Retryable

	select {
	case r.events <- ev:
	default:
		metrics.EventsDropped.Inc()
		r.log.Debug("analytics buffer full, dropping event", "event", ev.Kind)
	}
}

// Occurred records a freshly classified failure.
func (r *Recorder) Occurred(d taxonomy.Descriptor, fields map[string]string) {
	metrics.ErrorsObserved.WithLabelValues(
		string(d.Kind), string(d.Category), string(d.Severity)).Inc()
	r.submit(&domain.AnalyticsEvent{Kind: domain.EventOccurred, Context: fields}, d)
}

// RetryAttempted implements retry.Observer.
func (r *Recorder) RetryAttempted(d taxonomy.Descriptor, attempt int) {
	metrics.RetryAttempts.Inc()
	r.submit(&domain.AnalyticsEvent{Kind: domain.EventRetryAttempted, Attempt: attempt}, d)
}

// RetrySucceeded implements retry.Observer.
func (r *Recorder) RetrySucceeded(d taxonomy.Descriptor, attempts int) {
	metrics.RetryOutcomes.WithLabelValues("success").Inc()
	r.submit(&domain.AnalyticsEvent{Kind: domain.EventRetrySucceeded, Attempt: attempts}, d)
}

// RetryFailed implements retry.Observer.
func (r *Recorder) RetryFailed(d taxonomy.Descriptor, attempts int) {
	metrics.RetryOutcomes.WithLabelValues("failure").Inc()
	r.submit(&domain.AnalyticsEvent{Kind: domain.EventRetryFailed, Attempt: attempts}, d)
}

// RecoveryAction records one recovery flow step execution.
func (r *Recorder) RecoveryAction(d taxonomy.Descriptor, step, outcome string) {
	metrics.RecoverySteps.WithLabelValues(string(d.Category), step, outcome).Inc()
	r.submit(&domain.AnalyticsEvent{
		Kind:    domain.EventRecoveryActionTriggered,
		Step:    step,
		Context: map[string]string{"outcome": outcome},
	}, d)
}

// Dismissed records a user dismissing a failure.
func (r *Recorder) Dismissed(d taxonomy.Descriptor, fields map[string]string) {
	r.submit(&domain.AnalyticsEvent{Kind: domain.EventDismissed, Context: fields}, d)
}
