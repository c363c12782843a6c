package flow

import (
	"context"
	"fmt"
	"log"
	"reflect"

	"github.com/viant/flow/engine"
	"github.com/viant/flow/extension"
	"github.com/viant/flow/model"
	"github.com/viant/flow/policy"
	"github.com/viant/flow/runtime/execution"
	"github.com/viant/flow/service/dao"
	"github.com/viant/flow/service/dao/definition"
	"github.com/viant/flow/service/event"
	"github.com/viant/flow/service/executor"
	"github.com/viant/structology/conv"
)

// State is the run state type used by declaratively defined flows. The
// state is shared by reference across every step of one run; each completed
// step additionally records its output in the state under its own ID, so
// downstream steps can reference it in their action inputs (e.g. $fetch).
type State = map[string]interface{}

// Runtime loads flow definitions and runs them to completion.
type Runtime struct {
	definitionDAO *definition.Service
	runDAO        dao.Service[string, execution.Process]
	executor      executor.Service
	events        *event.Service
	policy        *policy.Policy
	actions       *extension.Actions
	converter     *conv.Converter
}

// LoadDefinition loads a flow definition from the configured meta source,
// caching it by location.
func (r *Runtime) LoadDefinition(ctx context.Context, location string) (*model.Definition, error) {
	return r.definitionDAO.Load(ctx, location)
}

// DecodeYAMLDefinition decodes a flow definition from YAML bytes.
func (r *Runtime) DecodeYAMLDefinition(data []byte) (*model.Definition, error) {
	return r.definitionDAO.DecodeYAML(data)
}

// RefreshDefinition discards any cached copy of the definition at the given
// location and reloads it via the configured meta service.
func (r *Runtime) RefreshDefinition(ctx context.Context, location string) (*model.Definition, error) {
	if r == nil || r.definitionDAO == nil {
		return nil, fmt.Errorf("runtime not fully initialised, definitionDAO missing")
	}
	return r.definitionDAO.Refresh(ctx, location)
}

// UpsertDefinition parses the supplied YAML bytes and stores the resulting
// definition in the in-memory cache under the specified location, making it
// loadable without a backing document.
func (r *Runtime) UpsertDefinition(location string, data []byte) error {
	if r == nil || r.definitionDAO == nil {
		return fmt.Errorf("runtime not fully initialised, definitionDAO missing")
	}
	def, err := r.definitionDAO.DecodeYAML(data)
	if err != nil {
		return fmt.Errorf("failed to decode definition YAML: %w", err)
	}
	if def.Source == nil {
		def.Source = &model.Source{URL: location}
	} else {
		def.Source.URL = location
	}
	return r.definitionDAO.Upsert(location, def)
}

// Run executes the definition to graph closure and returns the run record.
// The record is persisted in the run DAO regardless of outcome. Run fails
// only when the definition is unbuildable or declares no entry point; step
// failures are contained within their own subtree and recorded on the
// returned process.
func (r *Runtime) Run(ctx context.Context, def *model.Definition, initialState State) (*execution.Process, error) {
	if def == nil {
		return nil, fmt.Errorf("definition was nil")
	}
	initial, err := r.initialState(def, initialState)
	if err != nil {
		return nil, err
	}

	handlers := make(engine.Registry[State], len(def.Steps))
	for _, step := range def.Steps {
		step := step
		handlers[step.ID] = func(ctx context.Context, session *execution.Session[State], input interface{}) (interface{}, error) {
			output, err := r.executor.Execute(ctx, step, session.State)
			if err != nil {
				return nil, err
			}
			session.State[step.ID] = output
			return output, nil
		}
	}

	if r.policy != nil && policy.FromContext(ctx) == nil {
		ctx = policy.WithPolicy(ctx, r.policy)
	}
	eng := engine.NewWithDefinition(def, handlers, initial, engine.WithEventService[State](r.events))
	process, runErr := eng.Run(ctx)
	if process != nil && r.runDAO != nil {
		if err := r.runDAO.Save(ctx, process); err != nil {
			log.Printf("failed to persist run %s: %v", process.ID, err)
		}
	}
	return process, runErr
}

// ProcessFromContext returns the run in progress attached to ctx, or nil.
// Action services use it to inspect the run that invoked them.
func (r *Runtime) ProcessFromContext(ctx context.Context) *execution.Process {
	return execution.ContextValue[*execution.Process](ctx)
}

// Process returns the run record with the supplied ID.
func (r *Runtime) Process(ctx context.Context, id string) (*execution.Process, error) {
	return r.runDAO.Load(ctx, id)
}

// Processes lists run records, optionally filtered (e.g. by state).
func (r *Runtime) Processes(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Process, error) {
	return r.runDAO.List(ctx, parameters...)
}

// initialState seeds the run state from the definition init parameters,
// overlaid with the caller supplied values. A parameter with a dataType
// naming a registered extension type is converted to an instance of it.
func (r *Runtime) initialState(def *model.Definition, overlay State) (State, error) {
	ret := State{}
	for _, parameter := range def.Init {
		value := parameter.Value
		if value == nil {
			value = parameter.Default
		}
		if parameter.DataType != "" && r.actions != nil {
			dataType := r.actions.Types().Lookup(parameter.DataType)
			if dataType == nil {
				return nil, fmt.Errorf("unknown data type %q for init parameter %s", parameter.DataType, parameter.Name)
			}
			instance := reflect.New(dataType.Type).Interface()
			if err := r.converter.Convert(value, instance); err != nil {
				return nil, fmt.Errorf("failed to convert init parameter %s to %s: %w", parameter.Name, parameter.DataType, err)
			}
			value = instance
		}
		ret[parameter.Name] = value
	}
	for k, v := range overlay {
		ret[k] = v
	}
	return ret, nil
}
