package model

import (
	"fmt"

	"github.com/viant/flow/model/state"
)

// Role classifies a step within a flow definition.
type Role string

const (
	// RoleEntryPoint marks a step invoked unconditionally at the start of
	// every run, in declaration order.
	RoleEntryPoint Role = "entryPoint"

	// RoleListener marks a step invoked when any of its trigger steps
	// completes and yields a result.
	RoleListener Role = "listener"
)

type (
	// Source provides information about the origin of a definition
	Source struct {
		URL string `json:"url,omitempty" yaml:"url,omitempty"`
	}

	// Action binds a declarative step to a registered action service method.
	// Steps registered programmatically carry no Action; their handler is
	// supplied directly to the engine.
	Action struct {
		Service string      `json:"service,omitempty" yaml:"service,omitempty"`
		Method  string      `json:"method,omitempty" yaml:"method,omitempty"`
		Input   interface{} `json:"input,omitempty" yaml:"input,omitempty"`
	}

	// Step declares a named node of the trigger graph. A step is either an
	// entry point or a listener keyed on one or more trigger step IDs.
	Step struct {
		ID          string   `json:"id" yaml:"id"`
		Role        Role     `json:"role" yaml:"role"`
		Triggers    []string `json:"triggers,omitempty" yaml:"triggers,omitempty"`
		Description string   `json:"description,omitempty" yaml:"description,omitempty"`
		Action      *Action  `json:"action,omitempty" yaml:"action,omitempty"`
	}

	// Definition represents a flow definition: an ordered set of named
	// steps. It is immutable once handed to the engine; the graph builder
	// consumes it read-only.
	Definition struct {
		Source      *Source          `json:"source,omitempty" yaml:"source,omitempty"`
		Name        string           `json:"name" yaml:"name"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Version     string           `json:"version,omitempty" yaml:"version,omitempty"`
		Init        state.Parameters `json:"init,omitempty" yaml:"init,omitempty"`
		Steps       []*Step          `json:"steps,omitempty" yaml:"steps,omitempty"`
	}
)

// NewDefinition creates a named flow definition.
func NewDefinition(name string) *Definition {
	return &Definition{Name: name}
}

// WithDescription sets the definition description.
func (d *Definition) WithDescription(text string) *Definition {
	d.Description = text
	return d
}

// WithInit adds an initial state parameter applied before any step runs.
func (d *Definition) WithInit(name string, value interface{}) *Definition {
	if d.Init == nil {
		d.Init = make(state.Parameters, 0)
	}
	d.Init.Add(name, value)
	return d
}

// AddEntryPoint appends an entry-point step and returns it for further
// customisation.
func (d *Definition) AddEntryPoint(id string) *Step {
	step := &Step{ID: id, Role: RoleEntryPoint}
	d.Steps = append(d.Steps, step)
	return step
}

// AddListener appends a listener step registered against the supplied
// trigger step IDs and returns it for further customisation. Firing any one
// trigger invokes the listener (OR semantics).
func (d *Definition) AddListener(id string, triggers ...string) *Step {
	step := &Step{ID: id, Role: RoleListener, Triggers: triggers}
	d.Steps = append(d.Steps, step)
	return step
}

// Lookup returns the step with the supplied ID or nil.
func (d *Definition) Lookup(id string) *Step {
	for _, step := range d.Steps {
		if step.ID == id {
			return step
		}
	}
	return nil
}

// WithAction binds the step to a registered action service method.
func (s *Step) WithAction(service, method string, input interface{}) *Step {
	s.Action = &Action{Service: service, Method: method, Input: input}
	return s
}

// WithDescription sets the step description.
func (s *Step) WithDescription(text string) *Step {
	s.Description = text
	return s
}

// IsEntryPoint returns true for entry-point steps.
func (s *Step) IsEntryPoint() bool {
	return s.Role == RoleEntryPoint
}

// Validate performs a best-effort structural validation of the definition.
// The returned slice is empty when the definition is sound; otherwise it
// contains human-readable error descriptions.
//
// A trigger naming a step that does not exist is deliberately NOT an error:
// such a listener never fires. Cycles are not rejected either - the engine
// bounds them at traversal time.
func (d *Definition) Validate() []error {
	var issues []error

	seen := map[string]bool{}
	for _, step := range d.Steps {
		if step.ID == "" {
			issues = append(issues, fmt.Errorf("step with empty id"))
			continue
		}
		if seen[step.ID] {
			issues = append(issues, fmt.Errorf("duplicate step id %s", step.ID))
		}
		seen[step.ID] = true

		switch step.Role {
		case RoleEntryPoint:
			if len(step.Triggers) > 0 {
				issues = append(issues, fmt.Errorf("entry point %s declares triggers", step.ID))
			}
		case RoleListener:
			if len(step.Triggers) == 0 {
				issues = append(issues, fmt.Errorf("listener %s declares no triggers", step.ID))
			}
		default:
			issues = append(issues, fmt.Errorf("step %s has unknown role %q", step.ID, step.Role))
		}
	}
	return issues
}

// Clone creates a deep copy of the definition.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	clone := &Definition{
		Name:        d.Name,
		Description: d.Description,
		Version:     d.Version,
	}
	if d.Source != nil {
		source := *d.Source
		clone.Source = &source
	}
	if d.Init != nil {
		clone.Init = make(state.Parameters, len(d.Init))
		copy(clone.Init, d.Init)
	}
	if d.Steps != nil {
		clone.Steps = make([]*Step, len(d.Steps))
		for i, step := range d.Steps {
			clone.Steps[i] = step.Clone()
		}
	}
	return clone
}

// Clone creates a deep copy of a step.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	clone := &Step{
		ID:          s.ID,
		Role:        s.Role,
		Description: s.Description,
	}
	if s.Triggers != nil {
		clone.Triggers = make([]string, len(s.Triggers))
		copy(clone.Triggers, s.Triggers)
	}
	if s.Action != nil {
		clone.Action = &Action{
			Service: s.Action.Service,
			Method:  s.Action.Method,
			Input:   s.Action.Input,
		}
	}
	return clone
}
