// Package retry drives retry-with-backoff over arbitrary operations,
// using the taxonomy to decide what is worth retrying.
package retry

import (
	"fmt"
	"time"
)

// Policy configures retry behavior. Policies are immutable values;
// callers pick a preset or build their own.
type Policy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
	Jitter          bool
}

// DefaultPolicy suits most backend calls.
// 1s, 2s, 4s (max 30s) across 3 attempts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		BaseDelay:       1 * time.Second,
		MaxDelay:        30 * time.Second,
		BackoffMultiple: 2.0,
		Jitter:          true,
	}
}

// NetworkPolicy is more patient, for flaky connectivity.
func NetworkPolicy() Policy {
	return Policy{
		MaxAttempts:     5,
		BaseDelay:       2 * time.Second,
		MaxDelay:        60 * time.Second,
		BackoffMultiple: 2.0,
		Jitter:          true,
	}
}

// QuickPolicy retries fast for user-facing operations that cannot wait.
func QuickPolicy() Policy {
	return Policy{
		MaxAttempts:     2,
		BaseDelay:       500 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffMultiple: 1.5,
		Jitter:          false,
	}
}

// Validate rejects misconfigured policies. A bad policy is a programming
// error, not a runtime outcome, so Execute refuses to run with one.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry policy: max attempts must be >= 1, got %d", p.MaxAttempts)
	}
	if p.BaseDelay <= 0 {
		return fmt.Errorf("retry policy: base delay must be > 0, got %v", p.BaseDelay)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("retry policy: max delay %v < base delay %v", p.MaxDelay, p.BaseDelay)
	}
	if p.BackoffMultiple < 1 {
		return fmt.Errorf("retry policy: backoff multiple must be >= 1, got %v", p.BackoffMultiple)
	}
	return nil
}
