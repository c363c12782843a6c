package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier as string. It is exposed
// as a variable so tests can stub it for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New is a thin wrapper around NewFunc.
func New() string { return NewFunc() }
