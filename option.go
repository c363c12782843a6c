package flow

import (
	"github.com/viant/afs/storage"
	"github.com/viant/flow/model/types"
	"github.com/viant/flow/policy"
	"github.com/viant/flow/runtime/execution"
	"github.com/viant/flow/service/dao"
	"github.com/viant/flow/service/dao/definition"
	"github.com/viant/flow/service/event"
	"github.com/viant/flow/service/executor"
	"github.com/viant/flow/service/meta"
	"github.com/viant/flow/tracing"
	"github.com/viant/x"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the facade service.
type Option func(s *Service)

// WithExtensionTypes sets the extension types
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithExtensionServices sets the extension action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithEventService attaches an event service receiving step lifecycle
// events from every run.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.runtime.events = service
	}
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithDefinitionDAO sets the definition DAO
func WithDefinitionDAO(dao *definition.Service) Option {
	return func(s *Service) {
		s.runtime.definitionDAO = dao
	}
}

// WithRunDAO sets the run record DAO
func WithRunDAO(dao dao.Service[string, execution.Process]) Option {
	return func(s *Service) {
		s.runtime.runDAO = dao
	}
}

// WithStepsRootNodeName sets the document key holding the step mapping
func WithStepsRootNodeName(name string) Option {
	return func(s *Service) {
		s.stepsRootNodeName = name
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.NewService (e.g. installing a step listener).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithPolicy sets the default traversal policy applied to every run that
// does not carry its own policy in the context.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.runtime.policy = p
	}
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times, the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times, the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
