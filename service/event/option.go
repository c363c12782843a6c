package event

import "github.com/viant/flow/service/messaging/memory"

type Option func(*Service)

// WithQueueConfig customises the memory queue configuration per event queue
// name.
func WithQueueConfig(fn func(name string) memory.Config) Option {
	return func(s *Service) {
		s.newQueueConfig = fn
	}
}
