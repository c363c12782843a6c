package graph

import (
	"fmt"

	"github.com/viant/flow/model"
)

// TriggerGraph is the derived, read-only form of a flow definition used by
// the engine at run time. EntryPoints preserves declaration order - it is
// the order entry points run in. Listeners maps a trigger step ID to the
// listener step IDs registered against it, in the order the listener steps
// were declared.
//
// A trigger key may name a step that does not exist in the definition; such
// an edge never fires.
type TriggerGraph struct {
	EntryPoints []string            `json:"entryPoints,omitempty"`
	Listeners   map[string][]string `json:"listeners,omitempty"`
}

// HasEntryPoints returns true when at least one entry point is declared.
func (g *TriggerGraph) HasEntryPoints() bool {
	return len(g.EntryPoints) > 0
}

// ListenersOf returns the listener step IDs registered against the supplied
// trigger, in registration order.
func (g *TriggerGraph) ListenersOf(trigger string) []string {
	return g.Listeners[trigger]
}

// Build derives a TriggerGraph from the supplied definition. Step IDs must
// be unique within one definition; a violation is a definition error
// reported here, at build time, never at run time. Build executes nothing
// and has no side effects beyond the returned structure.
func Build(definition *model.Definition) (*TriggerGraph, error) {
	if definition == nil {
		return nil, fmt.Errorf("definition was nil")
	}
	ret := &TriggerGraph{
		Listeners: make(map[string][]string),
	}
	seen := make(map[string]bool, len(definition.Steps))
	for _, step := range definition.Steps {
		if step.ID == "" {
			return nil, fmt.Errorf("definition %q declares a step with empty id", definition.Name)
		}
		if seen[step.ID] {
			return nil, fmt.Errorf("definition %q declares duplicate step id %s", definition.Name, step.ID)
		}
		seen[step.ID] = true

		switch step.Role {
		case model.RoleEntryPoint:
			ret.EntryPoints = append(ret.EntryPoints, step.ID)
		case model.RoleListener:
			if len(step.Triggers) == 0 {
				return nil, fmt.Errorf("listener %s declares no triggers", step.ID)
			}
			for _, trigger := range step.Triggers {
				ret.Listeners[trigger] = append(ret.Listeners[trigger], step.ID)
			}
		default:
			return nil, fmt.Errorf("step %s has unknown role %q", step.ID, step.Role)
		}
	}
	return ret, nil
}
