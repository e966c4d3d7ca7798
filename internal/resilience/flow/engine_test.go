package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/jamlando/joanie-resilience/internal/resilience/analytics"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

func newTestEngine(handlers map[StepID]Handler) *Engine {
	return NewEngine(analytics.NewRecorder(analytics.NewMemorySink()), handlers)
}

// =============================================================================
// Step Catalog
// =============================================================================

func TestSequences_EndWithContactSupport(t *testing.T) {
	categories := []taxonomy.Category{
		taxonomy.CategoryNetwork, taxonomy.CategoryCredential,
		taxonomy.CategorySession, taxonomy.CategoryServer,
		taxonomy.CategorySystem, taxonomy.CategoryExternalSignIn,
		taxonomy.CategoryPasswordReset,
	}
	for _, cat := range categories {
		steps := StepsFor(cat)
		if len(steps) == 0 {
			t.Fatalf("%s: empty sequence", cat)
		}
		if steps[len(steps)-1].ID != StepContactSupport {
			t.Errorf("%s: final step must be contact_support, got %s",
				cat, steps[len(steps)-1].ID)
		}
		for _, s := range steps {
			if s.Title == "" || s.Description == "" {
				t.Errorf("%s: step %s missing copy", cat, s.ID)
			}
		}
	}
}

// =============================================================================
// Engine
// =============================================================================

func TestEngine_NetworkFlowCompletes(t *testing.T) {
	e := newTestEngine(nil)
	d := taxonomy.Describe(taxonomy.KindNetworkUnavailable)

	f := e.Start(d)
	if f.Category != taxonomy.CategoryNetwork || f.Cursor != 0 || f.Completed {
		t.Fatalf("unexpected initial flow: %+v", f)
	}
	if len(f.Steps) != 4 {
		t.Fatalf("expected 4 network steps, got %d", len(f.Steps))
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		var err error
		f, err = e.ExecuteCurrentStep(ctx)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if f.Cursor != i+1 {
			t.Errorf("after step %d: expected cursor %d, got %d", i, i+1, f.Cursor)
		}
	}
	if !f.Completed {
		t.Fatal("expected completed flow after final step")
	}

	// A 5th call is a no-op.
	f, err := e.ExecuteCurrentStep(ctx)
	if err != nil {
		t.Fatalf("no-op step errored: %v", err)
	}
	if f.Cursor != 4 || !f.Completed {
		t.Errorf("no-op must not move the cursor: %+v", f)
	}
}

func TestEngine_HandlerFailureStillAdvances(t *testing.T) {
	stepErr := errors.New("refresh rejected")
	e := newTestEngine(map[StepID]Handler{
		StepRefreshSession: func(ctx context.Context) error { return stepErr },
	})
	e.Start(taxonomy.Describe(taxonomy.KindSessionExpired))

	f, err := e.ExecuteCurrentStep(context.Background())
	if !errors.Is(err, stepErr) {
		t.Fatalf("expected handler error surfaced, got %v", err)
	}
	if f.Cursor != 1 {
		t.Error("cursor must advance even when the step fails")
	}
}

func TestEngine_HandlersRun(t *testing.T) {
	var ran []StepID
	handlers := map[StepID]Handler{}
	for _, id := range []StepID{StepCheckConnection, StepRetryOperation} {
		id := id
		handlers[id] = func(ctx context.Context) error {
			ran = append(ran, id)
			return nil
		}
	}
	e := newTestEngine(handlers)
	e.Start(taxonomy.Describe(taxonomy.KindNetworkTimeout))

	ctx := context.Background()
	e.ExecuteCurrentStep(ctx) // check_connection
	e.ExecuteCurrentStep(ctx) // retry_operation

	if len(ran) != 2 || ran[0] != StepCheckConnection || ran[1] != StepRetryOperation {
		t.Errorf("handlers ran out of order: %v", ran)
	}
}

func TestEngine_StartReplacesActiveFlow(t *testing.T) {
	e := newTestEngine(nil)
	e.Start(taxonomy.Describe(taxonomy.KindNetworkUnavailable))
	e.ExecuteCurrentStep(context.Background())

	f := e.Start(taxonomy.Describe(taxonomy.KindInvalidCredentials))
	if f.Category != taxonomy.CategoryCredential || f.Cursor != 0 {
		t.Errorf("expected fresh credential flow, got %+v", f)
	}
}

func TestEngine_Cancel(t *testing.T) {
	e := newTestEngine(nil)
	e.Start(taxonomy.Describe(taxonomy.KindPasswordResetFailed))
	e.Cancel()

	if e.Active() != nil {
		t.Error("expected no active flow after cancel")
	}

	// Executing with no active flow is a no-op.
	f, err := e.ExecuteCurrentStep(context.Background())
	if err != nil || f != nil {
		t.Errorf("expected nil flow, got %+v err=%v", f, err)
	}
}

func TestEngine_UnknownCategoryGetsSystemFlow(t *testing.T) {
	steps := StepsFor(taxonomy.Category("made_up"))
	system := StepsFor(taxonomy.CategorySystem)
	if len(steps) != len(system) {
		t.Errorf("unknown category should fall back to system sequence")
	}
}
