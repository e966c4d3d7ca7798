package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// Operation is the unit of work being retried.
type Operation[T any] func(ctx context.Context) (T, error)

// Predicate overrides the classifier's retryable flag when supplied.
// attempt is 1-indexed.
type Predicate func(err error, attempt int) bool

// Observer receives attempt-level events. Implementations must not block;
// the analytics recorder satisfies this.
type Observer interface {
	RetryAttempted(d taxonomy.Descriptor, attempt int)
	RetrySucceeded(d taxonomy.Descriptor, attempts int)
	RetryFailed(d taxonomy.Descriptor, attempts int)
}

// Status tags a retry outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusNonRetryable
	StatusExhausted
)

// Outcome is the terminal result of Execute. Exactly one of the three
// statuses applies; Descriptor is set for the two failure arms.
type Outcome[T any] struct {
	Status     Status
	Value      T
	Descriptor taxonomy.Descriptor
	Attempts   int
	Waits      int
}

// Execute retries op per the policy, using the classifier's retryable flag.
func Execute[T any](ctx context.Context, policy Policy, op Operation[T]) (Outcome[T], error) {
	return ExecuteWith(ctx, policy, op, nil, nil)
}

// ExecuteWith retries op up to policy.MaxAttempts times with exponential
// backoff between attempts. A non-retryable failure short-circuits with no
// further waiting. The returned error is non-nil only for an invalid
// policy or a cancelled context, never for "the operation failed" — those
// come back as NonRetryable or Exhausted outcomes.
func ExecuteWith[T any](
	ctx context.Context,
	policy Policy,
	op Operation[T],
	shouldRetry Predicate,
	obs Observer,
) (Outcome[T], error) {
	var out Outcome[T]
	if err := policy.Validate(); err != nil {
		return out, err
	}

	var desc taxonomy.Descriptor
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if obs != nil {
			obs.RetryAttempted(desc, attempt)
		}

		value, err := op(ctx)
		if err == nil {
			out.Status = StatusSuccess
			out.Value = value
			out.Attempts = attempt
			if obs != nil {
				obs.RetrySucceeded(desc, attempt)
			}
			return out, nil
		}

		desc = taxonomy.Classify(err)

		retryable := desc.Retryable
		if shouldRetry != nil {
			retryable = shouldRetry(err, attempt)
		}
		if !retryable {
			out.Status = StatusNonRetryable
			out.Descriptor = desc
			out.Attempts = attempt
			if obs != nil {
				obs.RetryFailed(desc, attempt)
			}
			return out, nil
		}

		if attempt == policy.MaxAttempts {
			break
		}

		delay := ComputeDelay(policy, attempt)
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(delay):
			out.Waits++
		}
	}

	out.Status = StatusExhausted
	out.Descriptor = desc
	out.Attempts = policy.MaxAttempts
	if obs != nil {
		obs.RetryFailed(desc, policy.MaxAttempts)
	}
	return out, nil
}

// ComputeDelay returns the backoff delay after the given attempt
// (1-indexed): min(base * multiple^(attempt-1), max), perturbed by ±10%
// when jitter is on, clamped to >= 0.
func ComputeDelay(policy Policy, attempt int) time.Duration {
	delay := float64(policy.BaseDelay) * math.Pow(policy.BackoffMultiple, float64(attempt-1))
	if delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}
	if policy.Jitter {
		delay += delay * 0.1 * (rand.Float64()*2 - 1)
		if delay < 0 {
			delay = 0
		}
	}
	return time.Duration(delay)
}
