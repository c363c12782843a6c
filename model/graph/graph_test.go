package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flow/model"
)

func TestBuild(t *testing.T) {
	testCases := []struct {
		description string
		definition  func() *model.Definition
		expectError bool
		expect      *TriggerGraph
	}{
		{
			description: "entry points preserve declaration order",
			definition: func() *model.Definition {
				def := model.NewDefinition("order")
				def.AddEntryPoint("a")
				def.AddEntryPoint("b")
				def.AddEntryPoint("c")
				return def
			},
			expect: &TriggerGraph{
				EntryPoints: []string{"a", "b", "c"},
				Listeners:   map[string][]string{},
			},
		},
		{
			description: "listeners grouped by trigger in declaration order",
			definition: func() *model.Definition {
				def := model.NewDefinition("listeners")
				def.AddEntryPoint("fetch")
				def.AddListener("double", "fetch")
				def.AddListener("audit", "fetch", "double")
				return def
			},
			expect: &TriggerGraph{
				EntryPoints: []string{"fetch"},
				Listeners: map[string][]string{
					"fetch":  {"double", "audit"},
					"double": {"audit"},
				},
			},
		},
		{
			description: "unresolvable trigger is registered but harmless",
			definition: func() *model.Definition {
				def := model.NewDefinition("loose")
				def.AddEntryPoint("fetch")
				def.AddListener("orphan", "noSuchStep")
				return def
			},
			expect: &TriggerGraph{
				EntryPoints: []string{"fetch"},
				Listeners: map[string][]string{
					"noSuchStep": {"orphan"},
				},
			},
		},
		{
			description: "duplicate step id is a build-time error",
			definition: func() *model.Definition {
				def := model.NewDefinition("dup")
				def.AddEntryPoint("fetch")
				def.AddEntryPoint("fetch")
				return def
			},
			expectError: true,
		},
		{
			description: "listener without triggers is a build-time error",
			definition: func() *model.Definition {
				def := model.NewDefinition("empty")
				def.AddEntryPoint("fetch")
				def.AddListener("lonely")
				return def
			},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		actual, err := Build(testCase.definition())
		if testCase.expectError {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestBuild_nilDefinition(t *testing.T) {
	_, err := Build(nil)
	assert.Error(t, err)
}
