package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/viant/flow/extension"
	"github.com/viant/flow/model"
	"github.com/viant/structology/conv"
	"github.com/viant/toolbox/data"
)

// Listener is invoked once a step action completes, regardless of whether
// it returned an error. Implementations can log, collect metrics or
// perform any other side-effects they require.
type Listener func(step *model.Step, input, output interface{})

// StdoutListener serialises the step, its input and output into JSON and
// prints them to standard output. Marshalling errors are ignored, they
// indicate non-serialisable values.
func StdoutListener(step *model.Step, input, output interface{}) {
	if step == nil {
		return
	}
	encoded, _ := json.Marshal(step)
	fmt.Println(string(encoded))
	if input != nil {
		in, _ := json.Marshal(input)
		fmt.Println(string(in))
	}
	if output != nil {
		out, _ := json.Marshal(output)
		fmt.Println(string(out))
	}
}

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener overrides the listener invoked after every executed step.
// Passing nil disables the callback entirely.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// Service executes a step's bound action against the run state and
// returns the method output.
type Service interface {
	Execute(ctx context.Context, step *model.Step, state map[string]interface{}) (interface{}, error)
}

type service struct {
	actions   *extension.Actions
	converter *conv.Converter
	listener  Listener
}

func (s *service) Execute(ctx context.Context, step *model.Step, state map[string]interface{}) (interface{}, error) {
	action := step.Action
	if action == nil {
		return nil, nil
	}
	actionService := s.actions.Lookup(action.Service)
	if actionService == nil {
		return nil, fmt.Errorf("service %v not found", action.Service)
	}
	if action.Method == "" {
		return nil, fmt.Errorf("method not set for service %v", action.Service)
	}
	method, err := actionService.Method(action.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", action.Method, action.Service, err)
	}
	signature := actionService.Methods().Lookup(action.Method)
	if signature == nil {
		return nil, fmt.Errorf("signature not found for %v.%v", action.Service, action.Method)
	}

	expanded := s.expand(action.Input, state)

	input, err := s.typedValue(signature.Input, expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to build %v.%v input: %w", action.Service, action.Method, err)
	}
	output, err := s.typedValue(signature.Output, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to build %v.%v output: %w", action.Service, action.Method, err)
	}

	if err = method(ctx, input, output); err != nil {
		return nil, err
	}
	if s.listener != nil {
		s.listener(step, input, output)
	}
	return output, nil
}

// expand substitutes $key references in the action input with run state
// values.
func (s *service) expand(input interface{}, state map[string]interface{}) interface{} {
	if input == nil || len(state) == 0 {
		return input
	}
	aMap := data.Map(state)
	return aMap.Expand(input)
}

// typedValue converts a value to an instance of the supplied type.
func (s *service) typedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	if aType == nil {
		return value, nil
	}
	if aType.Kind() == reflect.Ptr {
		aType = aType.Elem()
	}
	instance := reflect.New(aType).Interface()
	if err := s.converter.Convert(value, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// NewService creates a new executor service instance.
func NewService(actions *extension.Actions, opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		actions:   actions,
		converter: conv.NewConverter(options),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
