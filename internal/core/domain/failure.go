package domain

import (
	"time"

	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// Priority orders queued failures for draining. Higher drains first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// QueuedFailure is one entry in the offline error queue. The queue owns
// these exclusively; only its drain routine mutates AttemptCount.
type QueuedFailure struct {
	ID           string            `json:"id"`
	Kind         taxonomy.Kind     `json:"kind"`
	Code         int               `json:"code,omitempty"`
	Category     taxonomy.Category `json:"category"`
	Context      map[string]string `json:"context,omitempty"`
	EnqueuedAt   time.Time         `json:"enqueuedAt"`
	AttemptCount int               `json:"attemptCount"`
	MaxAttempts  int               `json:"maxAttempts"`
	Priority     Priority          `json:"priority"`
}

// Descriptor re-derives the full descriptor from the stored kind.
func (f *QueuedFailure) Descriptor() taxonomy.Descriptor {
	return taxonomy.DescribeCode(f.Kind, f.Code)
}

// Exhausted reports whether the entry has used up its attempts. Exhausted
// entries stay in the queue until dismissed or manually retried.
func (f *QueuedFailure) Exhausted() bool {
	return f.AttemptCount >= f.MaxAttempts
}
