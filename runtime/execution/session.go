package execution

// Session carries the run state: a single value of the application's state
// type shared by reference across every step invocation in one run. It is
// created once at run start, lives for the duration of the run and is never
// copied per step - all steps observe the latest mutations made by steps
// invoked earlier in the same traversal.
//
// Traversal is strictly sequential, so no locking discipline is imposed on
// State; the consistency model is "last write wins, in traversal order".
type Session[S any] struct {
	ID    string
	State S
}

// NewSession creates a session around the supplied initial state value.
func NewSession[S any](id string, state S) *Session[S] {
	return &Session[S]{ID: id, State: state}
}
