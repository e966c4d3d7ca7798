package queue

import (
	"time"

	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// Statistics is a point-in-time read of the queue.
type Statistics struct {
	Total        int                   `json:"total"`
	Exhausted    int                   `json:"exhausted"`
	ByPriority   map[string]int        `json:"by_priority"`
	ByKind       map[taxonomy.Kind]int `json:"by_kind"`
	MeanAttempts float64               `json:"mean_attempts"`
	OldestAt     *time.Time            `json:"oldest_at,omitempty"`
	NewestAt     *time.Time            `json:"newest_at,omitempty"`
}

// Statistics computes queue statistics without mutating anything.
func (q *Queue) Statistics() Statistics {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := Statistics{
		Total:      len(q.entries),
		ByPriority: make(map[string]int),
		ByKind:     make(map[taxonomy.Kind]int),
	}

	totalAttempts := 0
	for _, e := range q.entries {
		stats.ByPriority[e.Priority.String()]++
		stats.ByKind[e.Kind]++
		totalAttempts += e.AttemptCount
		if e.Exhausted() {
			stats.Exhausted++
		}
		if stats.OldestAt == nil || e.EnqueuedAt.Before(*stats.OldestAt) {
			at := e.EnqueuedAt
			stats.OldestAt = &at
		}
		if stats.NewestAt == nil || e.EnqueuedAt.After(*stats.NewestAt) {
			at := e.EnqueuedAt
			stats.NewestAt = &at
		}
	}
	if stats.Total > 0 {
		stats.MeanAttempts = float64(totalAttempts) / float64(stats.Total)
	}
	return stats
}

var priorityOrder = []domain.Priority{
	domain.PriorityCritical, domain.PriorityHigh, domain.PriorityNormal, domain.PriorityLow,
}

// PriorityNames returns priority labels from most to least urgent.
func PriorityNames() []string {
	names := make([]string, len(priorityOrder))
	for i, p := range priorityOrder {
		names[i] = p.String()
	}
	return names
}
