package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/viant/flow/internal/idgen"
	"github.com/viant/flow/model"
	"github.com/viant/flow/model/graph"
	"github.com/viant/flow/policy"
	"github.com/viant/flow/progress"
	"github.com/viant/flow/runtime/execution"
	"github.com/viant/flow/service/event"
	"github.com/viant/flow/tracing"
)

// ErrNoEntryPoints is returned by Run when the definition declares no entry
// point. It is the only configuration error Run surfaces; step failures are
// contained within their own subtree and never fail the run.
var ErrNoEntryPoints = errors.New("no entry point defined")

// Handler is the per-step callable. Entry points receive nil input;
// listeners receive the result of the step whose completion fired them.
// A non-nil error prunes the handler's own downstream subtree only.
type Handler[S any] func(ctx context.Context, session *execution.Session[S], input interface{}) (interface{}, error)

// Registry associates step IDs with their handlers.
type Registry[S any] map[string]Handler[S]

// Engine executes a flow definition against a single shared state value.
// Registration mutates the definition; the trigger graph is derived at Run
// time so that duplicate IDs surface as a build error, never mid-run.
type Engine[S any] struct {
	name       string
	definition *model.Definition
	handlers   Registry[S]
	session    *execution.Session[S]
	events     *event.Service
}

// Session exposes the engine's run state session.
func (e *Engine[S]) Session() *execution.Session[S] {
	return e.session
}

// Definition exposes the engine's definition.
func (e *Engine[S]) Definition() *model.Definition {
	return e.definition
}

// RegisterEntryPoint declares an entry-point step backed by the supplied
// handler. Entry points run unconditionally, in registration order.
func (e *Engine[S]) RegisterEntryPoint(id string, handler Handler[S]) *Engine[S] {
	e.definition.AddEntryPoint(id)
	e.handlers[id] = handler
	return e
}

// RegisterListener declares a listener step fired whenever any of the
// trigger steps completes (any-of semantics).
func (e *Engine[S]) RegisterListener(id string, triggers []string, handler Handler[S]) *Engine[S] {
	e.definition.AddListener(id, triggers...)
	e.handlers[id] = handler
	return e
}

// Run executes the flow to graph closure and returns the run record. Run
// fails only when the definition is unbuildable or declares no entry point;
// individual step errors are recorded on the process and contained within
// the failing step's subtree.
func (e *Engine[S]) Run(ctx context.Context) (*execution.Process, error) {
	triggerGraph, err := graph.Build(e.definition)
	if err != nil {
		return nil, err
	}

	process := execution.NewProcess(idgen.New(), e.name, e.definition)
	if !triggerGraph.HasEntryPoints() {
		process.SetState(execution.StateFailed)
		return process, fmt.Errorf("flow %s: %w", e.name, ErrNoEntryPoints)
	}

	ctx = execution.WithValue(ctx, process)
	ctx, span := tracing.StartSpan(ctx, "flow.run")
	span.WithAttributes(map[string]string{
		"flow.name":       e.name,
		"flow.process.id": process.ID,
	})
	defer func() { tracing.EndSpan(span, nil) }()

	run := &traversal[S]{
		engine:  e,
		graph:   triggerGraph,
		process: process,
		policy:  policy.FromContext(ctx),
		path:    make(map[string]bool),
	}

	process.SetState(execution.StateRunning)
	for _, entryID := range triggerGraph.EntryPoints {
		run.fire(ctx, entryID, "", nil, 0)
	}
	process.SetState(execution.StateCompleted)
	return process, nil
}

// traversal carries the mutable cursor of one Run invocation. path holds
// the step IDs on the current propagation branch; it is restored after each
// subtree so diamonds are unaffected while true cycles are cut.
type traversal[S any] struct {
	engine  *Engine[S]
	graph   *graph.TriggerGraph
	process *execution.Process
	policy  *policy.Policy
	path    map[string]bool
}

// fire invokes a single step and, on success, propagates its result to the
// step's listeners depth-first. Every invocation leaves an execution record
// on the process trace, including pruned ones.
func (t *traversal[S]) fire(ctx context.Context, stepID, triggerID string, input interface{}, depth int) {
	exec := execution.NewExecution(t.process.ID, stepID, triggerID, depth)
	t.process.Push(exec)

	if depth > t.policy.EffectiveMaxDepth() {
		t.prune(ctx, exec, fmt.Sprintf("max depth %d exceeded", t.policy.EffectiveMaxDepth()))
		return
	}
	if t.policy.IsBlocked(stepID) {
		t.prune(ctx, exec, "blocked by policy")
		return
	}
	if t.path[stepID] {
		t.prune(ctx, exec, fmt.Sprintf("cycle detected via %s", triggerID))
		if t.policy.CycleMode() == policy.OnCycleError {
			t.process.RecordError(stepID, fmt.Errorf("cycle detected: step %s re-entered via %s", stepID, triggerID))
		}
		return
	}

	handler, ok := t.engine.handlers[stepID]
	if !ok {
		err := fmt.Errorf("no handler registered for step %s", stepID)
		exec.Fail(err)
		t.process.RecordError(stepID, err)
		t.publish(ctx, event.TypeStepFailed, exec)
		progress.UpdateCtx(ctx, progress.Delta{Total: 1, Failed: 1})
		return
	}

	stepCtx, span := tracing.StartSpan(ctx, "flow.step")
	span.WithAttributes(map[string]string{
		"flow.step.id":    stepID,
		"flow.step.depth": strconv.Itoa(depth),
	})

	exec.Input = input
	exec.Start()
	t.publish(ctx, event.TypeStepStarted, exec)
	progress.UpdateCtx(ctx, progress.Delta{Total: 1})

	output, err := handler(stepCtx, t.engine.session, input)
	if err != nil {
		exec.Fail(err)
		t.process.RecordError(stepID, err)
		t.publish(ctx, event.TypeStepFailed, exec)
		progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
		tracing.EndSpan(span, err)
		return
	}
	exec.Complete(output)
	t.publish(ctx, event.TypeStepCompleted, exec)
	progress.UpdateCtx(ctx, progress.Delta{Completed: 1})
	tracing.EndSpan(span, nil)

	t.propagate(ctx, stepID, output, depth)
}

// propagate fires every listener of the producing step in registration
// order, each with the producer's result as input.
func (t *traversal[S]) propagate(ctx context.Context, producerID string, result interface{}, depth int) {
	listeners := t.graph.ListenersOf(producerID)
	if len(listeners) == 0 {
		return
	}
	t.path[producerID] = true
	for _, listenerID := range listeners {
		t.fire(ctx, listenerID, producerID, result, depth+1)
	}
	delete(t.path, producerID)
}

func (t *traversal[S]) prune(ctx context.Context, exec *execution.Execution, reason string) {
	exec.Prune(reason)
	t.publish(ctx, event.TypeStepPruned, exec)
	progress.UpdateCtx(ctx, progress.Delta{Total: 1, Pruned: 1})
}

// publish delivers a step lifecycle event when an event service is
// attached. Delivery is best-effort and never affects traversal.
func (t *traversal[S]) publish(ctx context.Context, eventType string, exec *execution.Execution) {
	if t.engine.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*execution.Execution](t.engine.events)
	if err != nil {
		return
	}
	eventContext := &event.Context{
		ProcessID:   exec.ProcessID,
		StepID:      exec.StepID,
		EventType:   eventType,
		Trigger:     exec.TriggerID,
		TimeTakenMs: int(exec.Elapsed().Milliseconds()),
	}
	if err = publisher.Publish(ctx, event.NewEvent(eventContext, exec)); err != nil {
		log.Printf("failed to publish %s event for step %s: %v", eventType, exec.StepID, err)
	}
}

// New creates an engine with an empty definition; steps are added with
// RegisterEntryPoint and RegisterListener.
func New[S any](initial S, opts ...Option[S]) *Engine[S] {
	ret := &Engine[S]{
		name:       "flow",
		definition: model.NewDefinition(""),
		handlers:   make(Registry[S]),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.definition.Name == "" {
		ret.definition.Name = ret.name
	}
	ret.session = execution.NewSession(idgen.New(), initial)
	return ret
}

// NewWithDefinition creates an engine from a prebuilt definition and a
// handler registry keyed by step ID.
func NewWithDefinition[S any](definition *model.Definition, handlers Registry[S], initial S, opts ...Option[S]) *Engine[S] {
	ret := New[S](initial, opts...)
	if definition != nil {
		ret.definition = definition
		if definition.Name != "" {
			ret.name = definition.Name
		}
	}
	for id, handler := range handlers {
		ret.handlers[id] = handler
	}
	return ret
}
