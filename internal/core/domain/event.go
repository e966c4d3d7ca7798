package domain

import (
	"time"

	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// EventKind labels an analytics event.
type EventKind string

const (
	EventOccurred                EventKind = "occurred"
	EventRetryAttempted          EventKind = "retry_attempted"
	EventRetrySucceeded          EventKind = "retry_succeeded"
	EventRetryFailed             EventKind = "retry_failed"
	EventRecoveryActionTriggered EventKind = "recovery_action_triggered"
	EventDismissed               EventKind = "dismissed"
)

// AnalyticsEvent is a fire-and-forget value copy describing something the
// resilience subsystem did. It carries no reference back to its source.
type AnalyticsEvent struct {
	ID        string            `json:"id"`
	Kind      EventKind         `json:"kind"`
	At        time.Time         `json:"at"`
	ErrorKind taxonomy.Kind     `json:"error_kind"`
	Category  taxonomy.Category `json:"category"`
	Severity  taxonomy.Severity `json:"severity"`
	Retryable bool              `json:"retryable"`
	Attempt   int               `json:"attempt,omitempty"`
	Step      string            `json:"step,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}
