// Package definition loads and decodes declarative flow definitions.
package definition

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/viant/afs"
	"github.com/viant/flow/internal/yml"
	"github.com/viant/flow/model"
	"github.com/viant/flow/model/state"
	"github.com/viant/flow/service/dao/definition/triggers"
	"github.com/viant/flow/service/meta"
	"gopkg.in/yaml.v3"
)

// Service decodes YAML flow definitions and caches loaded definitions by
// location. Steps appear in the document as a mapping keyed by step ID;
// document order is preserved. A step with an "on" expression is a
// listener, a step without one is an entry point.
type Service struct {
	metaService       *meta.Service
	stepsRootNodeName string
	cache             sync.Map
}

// DecodeYAML decodes a definition from YAML
func (s *Service) DecodeYAML(encoded []byte) (*model.Definition, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.parseDefinition("", (*yml.Node)(&node))
}

// Load loads a definition from YAML at the specified URL, caching the
// result for subsequent calls.
func (s *Service) Load(ctx context.Context, URL string) (*model.Definition, error) {
	if cached, ok := s.cache.Load(URL); ok {
		return cached.(*model.Definition), nil
	}
	return s.Refresh(ctx, URL)
}

// Refresh reloads a definition from its source, replacing any cached copy.
func (s *Service) Refresh(ctx context.Context, URL string) (*model.Definition, error) {
	location := URL
	if filepath.Ext(location) == "" {
		location += ".yaml"
	}
	var node yaml.Node
	if err := s.metaService.Load(ctx, location, &node); err != nil {
		return nil, fmt.Errorf("failed to load definition from %s: %w", URL, err)
	}
	definition, err := s.parseDefinition(URL, (*yml.Node)(&node))
	if err != nil {
		return nil, err
	}
	s.cache.Store(URL, definition)
	return definition, nil
}

// Upsert places a definition in the cache under the supplied key, making
// it loadable without a backing document.
func (s *Service) Upsert(key string, definition *model.Definition) error {
	if definition == nil {
		return fmt.Errorf("definition was nil")
	}
	if issues := definition.Validate(); len(issues) > 0 {
		return issues[0]
	}
	s.cache.Store(key, definition)
	return nil
}

func (s *Service) parseDefinition(URL string, node *yml.Node) (*model.Definition, error) {
	definition := &model.Definition{
		Source: &model.Source{URL: URL},
		Name:   definitionNameFromURL(URL),
	}
	rootNode := node.Root()
	stepsNodeName := strings.ToLower(s.stepsRootNodeName)
	err := rootNode.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			if valueNode.Kind == yaml.ScalarNode {
				definition.Name = valueNode.Value
			}
		case "description":
			if valueNode.Kind == yaml.ScalarNode {
				definition.Description = valueNode.Value
			}
		case "version":
			if valueNode.Kind == yaml.ScalarNode {
				definition.Version = valueNode.Value
			}
		case "init":
			init, err := parseParameters(valueNode)
			if err != nil {
				return fmt.Errorf("failed to parse init parameters: %w", err)
			}
			definition.Init = init
		case stepsNodeName:
			steps, err := s.parseSteps(valueNode)
			if err != nil {
				return fmt.Errorf("failed to parse steps: %w", err)
			}
			definition.Steps = steps
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition from %s: %w", URL, err)
	}
	if definition.Name == "" {
		definition.Name = generateAnonymousName()
	}
	if issues := definition.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return definition, nil
}

// parseSteps converts the steps mapping into an ordered step list.
func (s *Service) parseSteps(node *yml.Node) ([]*model.Step, error) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("steps node should be a mapping")
	}
	var steps []*model.Step
	err := node.Pairs(func(id string, stepNode *yml.Node) error {
		step, err := parseStep(id, stepNode)
		if err != nil {
			return err
		}
		steps = append(steps, step)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// parseStep converts a YAML node to a model.Step
func parseStep(id string, node *yml.Node) (*model.Step, error) {
	step := &model.Step{ID: id, Role: model.RoleEntryPoint}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("step %s should be a mapping", id)
	}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "on":
			list, err := parseTriggers(valueNode)
			if err != nil {
				return fmt.Errorf("step %s has invalid trigger expression: %w", id, err)
			}
			if len(list) > 0 {
				step.Role = model.RoleListener
				step.Triggers = list
			}
		case "description":
			if valueNode.Kind == yaml.ScalarNode {
				step.Description = valueNode.Value
			}
		case "action":
			action, err := parseAction(valueNode)
			if err != nil {
				return fmt.Errorf("step %s has invalid action: %w", id, err)
			}
			step.Action = action
		case "input":
			if step.Action == nil {
				step.Action = &model.Action{}
			}
			step.Action.Input = valueNode.Interface()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// parseTriggers accepts either a scalar OR-expression or a sequence of
// step IDs.
func parseTriggers(node *yml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return triggers.Parse([]byte(node.Value))
	case yaml.SequenceNode:
		var list []string
		err := node.Items(func(_ int, item *yml.Node) error {
			parsed, err := triggers.Parse([]byte(item.Value))
			if err != nil {
				return err
			}
			list = append(list, parsed...)
			return nil
		})
		return list, err
	}
	return nil, fmt.Errorf("trigger node should be a scalar or a sequence")
}

// parseAction accepts either a "service:method" scalar or a mapping with
// service, method and input keys.
func parseAction(node *yml.Node) (*model.Action, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		parts := strings.SplitN(node.Value, ":", 2)
		action := &model.Action{Service: parts[0]}
		if len(parts) > 1 {
			action.Method = parts[1]
		}
		return action, nil
	case yaml.MappingNode:
		action := &model.Action{}
		err := node.Pairs(func(key string, valueNode *yml.Node) error {
			switch strings.ToLower(key) {
			case "service":
				action.Service = valueNode.Value
			case "method":
				action.Method = valueNode.Value
			case "input":
				action.Input = valueNode.Interface()
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return action, nil
	}
	return nil, fmt.Errorf("action node should be a scalar or a mapping")
}

// parseParameters converts a YAML mapping to state.Parameters
func parseParameters(node *yml.Node) (state.Parameters, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parameters node should be a mapping")
	}
	var params state.Parameters
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		params = append(params, &state.Parameter{Name: key, Value: valueNode.Interface()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}

// definitionNameFromURL extracts definition name from URL (file name
// without extension)
func definitionNameFromURL(URL string) string {
	if URL == "" {
		return ""
	}
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var counter int32

func generateAnonymousName() string {
	return fmt.Sprintf("anonymous-%d", atomic.AddInt32(&counter, 1))
}

// New creates a new definition service instance
func New(opts ...Option) *Service {
	ret := &Service{
		metaService:       meta.New(afs.New(), ""),
		stepsRootNodeName: "steps",
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
