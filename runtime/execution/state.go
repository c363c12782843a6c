package execution

// StepState represents the current state of a single step invocation.
type StepState string

const (
	StepStatePending   StepState = "pending"
	StepStateRunning   StepState = "running"
	StepStateCompleted StepState = "completed"
	StepStateFailed    StepState = "failed"

	// StepStatePruned marks an invocation that was cut from the traversal
	// before its handler ran - because an ancestor failed, a cycle was
	// detected, the depth limit was reached or a policy blocked the step.
	StepStatePruned StepState = "pruned"
)
