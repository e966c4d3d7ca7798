package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jamlando/joanie-resilience/internal/resilience/analytics"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

// Handler performs the side effect behind one step. The step's own
// failure does not stall the flow; the cursor advances regardless.
type Handler func(ctx context.Context) error

// Flow is one in-progress recovery walk. Cursor indexes the next step;
// Completed means the cursor ran off the end.
type Flow struct {
	Category  taxonomy.Category `json:"category"`
	Steps     []Step            `json:"steps"`
	Cursor    int               `json:"cursor"`
	Completed bool              `json:"completed"`

	descriptor taxonomy.Descriptor
}

// CurrentStep returns the step the cursor points at.
func (f *Flow) CurrentStep() (Step, bool) {
	if f.Completed || f.Cursor >= len(f.Steps) {
		return Step{}, false
	}
	return f.Steps[f.Cursor], true
}

// Engine sequences recovery flows, one active flow at a time.
type Engine struct {
	recorder *analytics.Recorder
	handlers map[StepID]Handler
	log      *slog.Logger

	mu     sync.Mutex
	active *Flow
}

// NewEngine creates an engine. Handlers are optional per step; a step
// with no handler is presentation-only and just advances.
func NewEngine(recorder *analytics.Recorder, handlers map[StepID]Handler) *Engine {
	if handlers == nil {
		handlers = map[StepID]Handler{}
	}
	return &Engine{
		recorder: recorder,
		handlers: handlers,
		log:      slog.With("component", "recovery_flow"),
	}
}

// SetHandler installs or replaces the handler for a step.
func (e *Engine) SetHandler(id StepID, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[id] = h
}

// Start instantiates the flow for the descriptor's category. A flow
// already in progress is replaced; the previous one counts as cancelled.
func (e *Engine) Start(d taxonomy.Descriptor) *Flow {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil && !e.active.Completed {
		e.recorder.RecoveryAction(e.active.descriptor, "flow", "cancelled")
		e.log.Debug("replacing active recovery flow",
			"old_category", e.active.Category, "new_category", d.Category)
	}

	e.active = &Flow{
		Category:   d.Category,
		Steps:      StepsFor(d.Category),
		descriptor: d,
	}
	e.recorder.RecoveryAction(d, "flow", "started")
	return e.snapshotLocked()
}

// Active returns a copy of the current flow, or nil.
func (e *Engine) Active() *Flow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *Flow {
	if e.active == nil {
		return nil
	}
	c := *e.active
	c.Steps = append([]Step(nil), e.active.Steps...)
	return &c
}

// ExecuteCurrentStep runs the handler for the step under the cursor and
// advances. The cursor moves even when the handler fails — the catalog
// ends every sequence with contact_support, so forward progress is
// always possible. A call past the end is a no-op.
func (e *Engine) ExecuteCurrentStep(ctx context.Context) (*Flow, error) {
	e.mu.Lock()
	if e.active == nil || e.active.Completed {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, nil
	}
	step := e.active.Steps[e.active.Cursor]
	handler := e.handlers[step.ID]
	d := e.active.descriptor
	e.mu.Unlock()

	var stepErr error
	if handler != nil {
		stepErr = handler(ctx)
	}

	outcome := "ok"
	if stepErr != nil {
		outcome = "failed"
		e.log.Warn("recovery step failed", "step", step.ID, "error", stepErr)
	}
	e.recorder.RecoveryAction(d, string(step.ID), outcome)

	e.mu.Lock()
	defer e.mu.Unlock()
	// The flow may have been replaced or cancelled while the handler ran.
	if e.active == nil || e.active.Completed || e.active.Cursor >= len(e.active.Steps) ||
		e.active.Steps[e.active.Cursor].ID != step.ID {
		return e.snapshotLocked(), stepErr
	}
	e.active.Cursor++
	if e.active.Cursor == len(e.active.Steps) {
		e.active.Completed = true
		e.recorder.RecoveryAction(d, "flow", "completed")
	}
	return e.snapshotLocked(), stepErr
}

// Cancel discards the active flow.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return
	}
	if !e.active.Completed {
		e.recorder.RecoveryAction(e.active.descriptor, "flow", "cancelled")
	}
	e.active = nil
}
