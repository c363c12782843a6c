package flow

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/flow/extension"
	"github.com/viant/flow/model/types"
	"github.com/viant/flow/service/action/nop"
	"github.com/viant/flow/service/action/printer"
	aexec "github.com/viant/flow/service/action/system/exec"
	asecret "github.com/viant/flow/service/action/system/secret"
	astorage "github.com/viant/flow/service/action/system/storage"
	"github.com/viant/flow/service/dao/definition"
	rmemory "github.com/viant/flow/service/dao/run/memory"
	"github.com/viant/flow/service/executor"
	"github.com/viant/flow/service/meta"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

// Service is the high-level facade wiring declarative definitions, action
// services and run persistence together. Use Runtime() to load and run
// flows.
type Service struct {
	runtime           *Runtime
	metaService       *meta.Service
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionServices []types.Service
	executorOptions   []executor.Option
	stepsRootNodeName string
	metaBaseURL       string
	metaFsOptions     []storage.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.actions = extension.NewActions(s.extensionTypes...)
	s.runtime.executor = executor.NewService(s.actions, s.executorOptions...)
	s.runtime.actions = s.actions
	s.runtime.converter = newConverter()
	s.actions.Register(printer.New())
	s.actions.Register(aexec.New())
	s.actions.Register(astorage.New())
	s.actions.Register(asecret.New())
	s.actions.Register(nop.New())
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
}

func (s *Service) ensureBaseSetup() {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.runtime.definitionDAO == nil {
		if s.stepsRootNodeName == "" {
			s.stepsRootNodeName = "steps"
		}
		s.runtime.definitionDAO = definition.New(
			definition.WithStepsRootNodeName(s.stepsRootNodeName),
			definition.WithMetaService(s.metaService))
	}
	if s.runtime.runDAO == nil {
		s.runtime.runDAO = rmemory.New()
	}
}

// RegisterExtensionTypes registers Go types usable as init parameter data
// types and action input/output types.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.actions.Types().Register(types[i])
	}
}

// RegisterExtensionServices registers additional action services.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// Runtime returns the flow runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

func newConverter() *conv.Converter {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return conv.NewConverter(options)
}

// New creates a flow service with the supplied options.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
