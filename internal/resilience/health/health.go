// Package health reports the resilience subsystem's observable state
// for presentation layers and operators.
package health

// Status represents the overall state of the subsystem.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// Report is the full health snapshot.
type Report struct {
	Status         Status  `json:"status"`
	Online         bool    `json:"online"`
	QueueDepth     int     `json:"queue_depth"`
	QueueExhausted int     `json:"queue_exhausted"`
	MeanAttempts   float64 `json:"mean_attempts"`
	OldestEntryAge string  `json:"oldest_entry_age,omitempty"`
	ActiveFlow     string  `json:"active_flow,omitempty"`
	FlowCursor     int     `json:"flow_cursor,omitempty"`
}
