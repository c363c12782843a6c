// Package executor bridges declarative steps with registered action
// services. It expands action inputs against the run state, converts them
// to the method's typed input and invokes the method.
package executor
