package engine

import (
	"github.com/viant/flow/service/event"
)

// Option customises an engine instance.
type Option[S any] func(*Engine[S])

// WithName sets the flow name used on run records and trace spans.
func WithName[S any](name string) Option[S] {
	return func(e *Engine[S]) {
		e.name = name
	}
}

// WithEventService attaches an event service; the engine publishes step
// started, completed, failed and pruned events to it.
func WithEventService[S any](service *event.Service) Option[S] {
	return func(e *Engine[S]) {
		e.events = service
	}
}
