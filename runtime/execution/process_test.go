package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flow/model"
)

func TestProcess_Trace(t *testing.T) {
	def := model.NewDefinition("trace")
	def.AddEntryPoint("fetch")
	def.AddListener("double", "fetch")

	process := NewProcess("p-1", def.Name, def)
	assert.Equal(t, StatePending, process.GetState())

	first := NewExecution(process.ID, "fetch", "", 0)
	first.Start()
	first.Complete(10)
	second := NewExecution(process.ID, "double", "fetch", 1)
	second.Start()
	second.Fail(errors.New("boom"))
	process.Push(first, second)
	process.RecordError("double", errors.New("boom"))

	assert.Equal(t, first, process.LookupExecution("fetch"))
	assert.Nil(t, process.LookupExecution("missing"))
	assert.Len(t, process.Executions("double"), 1)
	assert.True(t, process.HasErrors())
	assert.Equal(t, "boom", process.Errors["double"])

	process.SetState(StateCompleted)
	assert.NotNil(t, process.FinishedAt)
}

func TestProcess_Clone(t *testing.T) {
	process := NewProcess("p-2", "clone", nil)
	exec := NewExecution(process.ID, "fetch", "", 0)
	exec.Start()
	exec.Complete("done")
	process.Push(exec)

	clone := process.Clone()
	assert.Equal(t, process.ID, clone.ID)
	assert.Len(t, clone.Trace, 1)

	// mutating the clone trace must not affect the original
	clone.Trace[0].Output = "changed"
	assert.Equal(t, "done", process.Trace[0].Output)
}

func TestExecution_Lifecycle(t *testing.T) {
	exec := NewExecution("p-3", "fetch", "", 0)
	assert.Equal(t, StepStatePending, exec.State)
	exec.Start()
	assert.Equal(t, StepStateRunning, exec.State)
	exec.Complete(42)
	assert.Equal(t, StepStateCompleted, exec.State)
	assert.Equal(t, 42, exec.Output)
	assert.True(t, exec.Elapsed() >= 0)

	pruned := NewExecution("p-3", "orphan", "fetch", 1)
	pruned.Prune("cycle detected")
	assert.Equal(t, StepStatePruned, pruned.State)
	assert.Equal(t, "cycle detected", pruned.Reason)
	assert.Equal(t, int64(0), int64(pruned.Elapsed()))
}
