package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

func testPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:     attempts,
		BaseDelay:       1 * time.Millisecond,
		MaxDelay:        10 * time.Millisecond,
		BackoffMultiple: 2.0,
	}
}

// =============================================================================
// Backoff
// =============================================================================

func TestComputeDelay_Monotonic(t *testing.T) {
	policy := Policy{
		MaxAttempts:     10,
		BaseDelay:       1 * time.Second,
		MaxDelay:        30 * time.Second,
		BackoffMultiple: 2.0,
	}

	prev := time.Duration(0)
	for attempt := 1; attempt <= 10; attempt++ {
		d := ComputeDelay(policy, attempt)
		if d < prev {
			t.Errorf("attempt %d: delay %v decreased from %v", attempt, d, prev)
		}
		if d > policy.MaxDelay {
			t.Errorf("attempt %d: delay %v exceeds max %v", attempt, d, policy.MaxDelay)
		}
		prev = d
	}

	// Spot-check the formula: 1s, 2s, 4s, capped at 30s
	if d := ComputeDelay(policy, 1); d != 1*time.Second {
		t.Errorf("expected 1s, got %v", d)
	}
	if d := ComputeDelay(policy, 3); d != 4*time.Second {
		t.Errorf("expected 4s, got %v", d)
	}
	if d := ComputeDelay(policy, 8); d != 30*time.Second {
		t.Errorf("expected 30s cap, got %v", d)
	}
}

func TestComputeDelay_JitterBounds(t *testing.T) {
	policy := Policy{
		MaxAttempts:     3,
		BaseDelay:       1 * time.Second,
		MaxDelay:        30 * time.Second,
		BackoffMultiple: 2.0,
		Jitter:          true,
	}

	for i := 0; i < 100; i++ {
		d := ComputeDelay(policy, 2) // 2s nominal
		if d < 1800*time.Millisecond || d > 2200*time.Millisecond {
			t.Fatalf("jittered delay %v outside ±10%% of 2s", d)
		}
	}
}

// =============================================================================
// Execute
// =============================================================================

func TestExecute_Termination(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) (int, error) {
		calls++
		return 0, taxonomy.New(taxonomy.KindServiceUnavailable, "down")
	}

	out, err := Execute(context.Background(), testPolicy(3), op)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Status != StatusExhausted {
		t.Fatalf("expected exhausted, got %v", out.Status)
	}
	if out.Attempts != 3 || calls != 3 {
		t.Errorf("expected 3 attempts, got outcome=%d calls=%d", out.Attempts, calls)
	}
	if out.Waits != 2 {
		t.Errorf("expected 2 waits, got %d", out.Waits)
	}
	if out.Descriptor.Kind != taxonomy.KindServiceUnavailable {
		t.Errorf("expected final descriptor, got %s", out.Descriptor.Kind)
	}
}

func TestExecute_NonRetryableShortCircuit(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		return "", taxonomy.New(taxonomy.KindInvalidCredentials, "bad password")
	}

	out, err := Execute(context.Background(), testPolicy(5), op)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Status != StatusNonRetryable {
		t.Fatalf("expected non-retryable, got %v", out.Status)
	}
	if calls != 1 || out.Attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got calls=%d attempts=%d", calls, out.Attempts)
	}
	if out.Waits != 0 {
		t.Errorf("expected 0 waits, got %d", out.Waits)
	}
}

func TestExecute_RateLimitScenario(t *testing.T) {
	// Fails twice with a retryable rate limit, succeeds on the 3rd call.
	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", taxonomy.New(taxonomy.KindRateLimitExceeded, "slow down")
		}
		return "story-42", nil
	}

	out, err := Execute(context.Background(), testPolicy(3), op)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Status != StatusSuccess {
		t.Fatalf("expected success, got %v", out.Status)
	}
	if out.Value != "story-42" {
		t.Errorf("expected value through, got %q", out.Value)
	}
	if out.Attempts != 3 || out.Waits != 2 {
		t.Errorf("expected 3 attempts / 2 waits, got %d/%d", out.Attempts, out.Waits)
	}
}

func TestExecute_PredicateOverridesClassifier(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) (int, error) {
		calls++
		// Classifier says non-retryable
		return 0, taxonomy.New(taxonomy.KindSessionExpired, "expired")
	}
	always := func(err error, attempt int) bool { return true }

	out, err := ExecuteWith(context.Background(), testPolicy(2), op, always, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Status != StatusExhausted || calls != 2 {
		t.Errorf("predicate should force retries: status=%v calls=%d", out.Status, calls)
	}
}

func TestExecute_InvalidPolicy(t *testing.T) {
	op := func(ctx context.Context) (int, error) { return 1, nil }

	_, err := Execute(context.Background(), Policy{MaxAttempts: 0}, op)
	if err == nil {
		t.Fatal("expected error for maxAttempts < 1")
	}
}

func TestExecute_CancelledDuringWait(t *testing.T) {
	policy := Policy{
		MaxAttempts:     3,
		BaseDelay:       1 * time.Hour, // would block forever without cancellation
		MaxDelay:        2 * time.Hour,
		BackoffMultiple: 2.0,
	}

	calls := 0
	op := func(ctx context.Context) (int, error) {
		calls++
		return 0, taxonomy.New(taxonomy.KindNetworkTimeout, "slow")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Execute(ctx, policy, op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("no attempt may fire after cancellation, got %d calls", calls)
	}
}

// =============================================================================
// Presets
// =============================================================================

func TestPresets_Valid(t *testing.T) {
	for name, p := range map[string]Policy{
		"default": DefaultPolicy(),
		"network": NetworkPolicy(),
		"quick":   QuickPolicy(),
	} {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
