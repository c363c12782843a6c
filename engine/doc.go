// Package engine runs a trigger graph to closure: entry points execute
// sequentially in declaration order and every step result propagates
// depth-first to the listeners registered against the producing step.
//
// The engine is generic over the run state type. The root flow package
// provides a map-based facade for declarative definitions; applications
// with typed state use this package directly.
package engine
