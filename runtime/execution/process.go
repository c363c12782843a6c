package execution

import (
	"sync"
	"time"

	"github.com/viant/flow/internal/clock"
	"github.com/viant/flow/model"
)

// Process state constants
const (
	StatePending   = "pending"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Process represents one run of a flow definition: a full traversal from
// all entry points to graph closure. Step errors never fail the process -
// they prune their own subtree and are collected in Errors keyed by step ID.
// StateFailed is reserved for configuration errors surfaced before any step
// executed.
type Process struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	State      string            `json:"state"`
	Definition *model.Definition `json:"definition,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	FinishedAt *time.Time        `json:"finishedAt,omitempty"`
	Trace      []*Execution      `json:"trace,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	mu         sync.RWMutex
}

// NewProcess creates a new process record
func NewProcess(id string, name string, definition *model.Definition) *Process {
	now := clock.Now()
	return &Process{
		ID:         id,
		Name:       name,
		State:      StatePending,
		Definition: definition,
		CreatedAt:  now,
		UpdatedAt:  now,
		Errors:     make(map[string]string),
	}
}

// Push appends invocation records to the process trace.
func (p *Process) Push(executions ...*Execution) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Trace = append(p.Trace, executions...)
}

// RecordError associates a step error with the process.
func (p *Process) RecordError(stepID string, err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Errors == nil {
		p.Errors = make(map[string]string)
	}
	p.Errors[stepID] = err.Error()
}

// LookupExecution returns the most recent invocation of the supplied step,
// or nil when the step never ran.
func (p *Process) LookupExecution(stepID string) *Execution {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := len(p.Trace) - 1; i >= 0; i-- {
		if p.Trace[i].StepID == stepID {
			return p.Trace[i]
		}
	}
	return nil
}

// Executions returns every invocation of the supplied step in traversal
// order; a step fired via two independent trigger edges appears once per
// firing.
func (p *Process) Executions(stepID string) []*Execution {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var ret []*Execution
	for _, exec := range p.Trace {
		if exec.StepID == stepID {
			ret = append(ret, exec)
		}
	}
	return ret
}

// GetState returns the process state
func (p *Process) GetState() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.State
}

// SetState updates the process state
func (p *Process) SetState(state string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = state
	switch state {
	case StateCompleted, StateFailed:
		now := clock.Now()
		p.FinishedAt = &now
	}
	p.UpdatedAt = clock.Now()
}

// HasErrors returns true when at least one step failed during the run.
func (p *Process) HasErrors() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.Errors) > 0
}

// CopyFrom updates exported, mutex-independent fields from src. It
// intentionally skips the mutex as copying it would corrupt internal state.
func (p *Process) CopyFrom(src any) {
	other, ok := src.(*Process)
	if !ok || other == nil || p == other {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = other.State
	p.UpdatedAt = other.UpdatedAt
	p.FinishedAt = other.FinishedAt
	p.Trace = other.Trace
	p.Errors = other.Errors
}

// Clone creates a deep copy of the process suitable for safe inspection
// outside the original store. The Definition pointer is shared because
// definitions are immutable after load.
func (p *Process) Clone() *Process {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := &Process{
		ID:         p.ID,
		Name:       p.Name,
		State:      p.State,
		Definition: p.Definition,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		FinishedAt: p.FinishedAt,
	}
	if len(p.Trace) > 0 {
		out.Trace = make([]*Execution, len(p.Trace))
		for i, exec := range p.Trace {
			out.Trace[i] = exec.Clone()
		}
	}
	if p.Errors != nil {
		out.Errors = make(map[string]string, len(p.Errors))
		for k, v := range p.Errors {
			out.Errors[k] = v
		}
	}
	return out
}
