package event

import "time"

// Event types published by the engine for every step invocation.
const (
	TypeStepStarted   = "stepStarted"
	TypeStepCompleted = "stepCompleted"
	TypeStepFailed    = "stepFailed"
	TypeStepPruned    = "stepPruned"
)

// Context identifies the step invocation an event relates to. Trigger names
// the step whose result fired the invocation; it is empty for entry points.
type Context struct {
	ProcessID   string `json:"processID"`
	StepID      string `json:"stepID"`
	EventType   string `json:"eventType"`
	Trigger     string `json:"trigger,omitempty"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
