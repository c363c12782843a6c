package execution

import (
	"fmt"

	"github.com/viant/flow/internal/clock"
	"github.com/viant/flow/internal/idgen"
	"time"
)

// Execution represents a single step invocation within one run. TriggerID
// names the step whose result fired this invocation; it is empty for entry
// points. Depth is the distance from the entry point that rooted the
// propagation chain.
type Execution struct {
	ID          string      `json:"id"`
	ProcessID   string      `json:"processId"`
	StepID      string      `json:"stepId"`
	TriggerID   string      `json:"triggerId,omitempty"`
	Depth       int         `json:"depth"`
	State       StepState   `json:"state"`
	Input       interface{} `json:"input,omitempty"`
	Output      interface{} `json:"output,omitempty"`
	Error       string      `json:"error,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	ScheduledAt time.Time   `json:"scheduledAt"`
	StartedAt   *time.Time  `json:"startedAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// NewExecution creates a pending execution record for a step invocation.
func NewExecution(processID, stepID, triggerID string, depth int) *Execution {
	return &Execution{
		ID:          generateExecutionID(processID, stepID),
		ProcessID:   processID,
		StepID:      stepID,
		TriggerID:   triggerID,
		Depth:       depth,
		State:       StepStatePending,
		ScheduledAt: clock.Now(),
	}
}

// Start marks the execution as started
func (e *Execution) Start() {
	now := clock.Now()
	e.StartedAt = &now
	e.State = StepStateRunning
}

// Complete marks the execution as completed
func (e *Execution) Complete(output interface{}) {
	now := clock.Now()
	e.CompletedAt = &now
	e.Output = output
	e.State = StepStateCompleted
}

// Fail marks the execution as failed
func (e *Execution) Fail(err error) {
	now := clock.Now()
	e.CompletedAt = &now
	if err != nil {
		e.Error = err.Error()
	}
	e.State = StepStateFailed
}

// Prune marks the execution as cut from the traversal before its handler
// ran, recording why.
func (e *Execution) Prune(reason string) {
	now := clock.Now()
	e.CompletedAt = &now
	e.Reason = reason
	e.State = StepStatePruned
}

// Elapsed returns the handler run time, or zero when the step never ran.
func (e *Execution) Elapsed() time.Duration {
	if e.StartedAt == nil || e.CompletedAt == nil {
		return 0
	}
	return e.CompletedAt.Sub(*e.StartedAt)
}

// Clone creates a copy of the execution record.
func (e *Execution) Clone() *Execution {
	if e == nil {
		return nil
	}
	clone := *e
	if e.StartedAt != nil {
		t := *e.StartedAt
		clone.StartedAt = &t
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		clone.CompletedAt = &t
	}
	return &clone
}

// generateExecutionID creates a unique ID for an execution
func generateExecutionID(processID, stepID string) string {
	return fmt.Sprintf("%s-%s-%s", processID, stepID, idgen.New())
}
