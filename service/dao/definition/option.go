package definition

import "github.com/viant/flow/service/meta"

type Option func(*Service)

// WithStepsRootNodeName sets the document key holding the step mapping
func WithStepsRootNodeName(name string) Option {
	return func(s *Service) {
		s.stepsRootNodeName = name
	}
}

// WithMetaService sets the meta service
func WithMetaService(meta *meta.Service) Option {
	return func(s *Service) {
		s.metaService = meta
	}
}
