package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsObserved tracks classified errors by kind and category
	ErrorsObserved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_errors_observed_total",
			Help: "Total number of classified errors observed",
		},
		[]string{"kind", "category", "severity"},
	)

	// RetryAttempts tracks retry executor attempts
	RetryAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resilience_retry_attempts_total",
			Help: "Total number of retry attempts executed",
		},
	)

	// RetryOutcomes tracks terminal retry outcomes
	RetryOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_retry_outcomes_total",
			Help: "Total number of terminal retry outcomes",
		},
		[]string{"outcome"},
	)

	// QueueDepth tracks offline queue depth per priority
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resilience_queue_depth",
			Help: "Current offline error queue depth",
		},
		[]string{"priority"},
	)

	// QueueExhausted tracks entries that used up all attempts
	QueueExhausted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilience_queue_exhausted",
			Help: "Entries retained after exhausting max attempts",
		},
	)

	// DrainsTotal tracks drain passes by trigger
	DrainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_queue_drains_total",
			Help: "Total number of queue drain passes",
		},
		[]string{"trigger"},
	)

	// DrainDuration tracks how long a drain pass takes
	DrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resilience_queue_drain_duration_seconds",
			Help:    "Queue drain pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RecoverySteps tracks executed recovery flow steps
	RecoverySteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_recovery_steps_total",
			Help: "Total number of recovery flow steps executed",
		},
		[]string{"category", "step", "outcome"},
	)

	// EventsDropped tracks analytics events dropped under backpressure
	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resilience_analytics_dropped_total",
			Help: "Analytics events dropped because the buffer was full",
		},
	)
)
