package definition

import (
	"context"
	"testing"

	"embed"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/flow/model"
	"github.com/viant/flow/service/meta"
)

//go:embed testdata/*
var testFS embed.FS

func newTestService() *Service {
	return New(WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("valid definition", func(t *testing.T) {
		service := newTestService()
		actual, err := service.Load(ctx, "pricing.yaml")
		assert.NoError(t, err)
		if !assert.NotNil(t, actual) {
			return
		}
		assert.Equal(t, "pricing", actual.Name)
		assert.Equal(t, "fetch, double and report a price", actual.Description)
		if assert.Len(t, actual.Init, 1) {
			assert.Equal(t, "base", actual.Init[0].Name)
			assert.Equal(t, 10, actual.Init[0].Value)
		}
		if !assert.Len(t, actual.Steps, 3) {
			return
		}
		fetch := actual.Steps[0]
		assert.Equal(t, "fetch", fetch.ID)
		assert.Equal(t, model.RoleEntryPoint, fetch.Role)
		assert.Empty(t, fetch.Triggers)
		if assert.NotNil(t, fetch.Action) {
			assert.Equal(t, "printer", fetch.Action.Service)
			assert.Equal(t, "print", fetch.Action.Method)
			assert.Equal(t, map[string]interface{}{"message": "fetching"}, fetch.Action.Input)
		}

		double := actual.Steps[1]
		assert.Equal(t, model.RoleListener, double.Role)
		assert.Equal(t, []string{"fetch"}, double.Triggers)
		if assert.NotNil(t, double.Action) {
			assert.Equal(t, "printer", double.Action.Service)
			assert.Equal(t, "print", double.Action.Method)
		}

		report := actual.Steps[2]
		assert.Equal(t, model.RoleListener, report.Role)
		assert.Equal(t, []string{"double", "fetch"}, report.Triggers)
	})

	t.Run("extension defaulted", func(t *testing.T) {
		service := newTestService()
		actual, err := service.Load(ctx, "pricing")
		assert.NoError(t, err)
		if assert.NotNil(t, actual) {
			assert.Equal(t, "pricing", actual.Name)
		}
	})

	t.Run("duplicate step id", func(t *testing.T) {
		service := newTestService()
		_, err := service.Load(ctx, "dup.yaml")
		assert.Error(t, err)
	})

	t.Run("missing document", func(t *testing.T) {
		service := newTestService()
		_, err := service.Load(ctx, "unknown.yaml")
		assert.Error(t, err)
	})
}

func TestService_DecodeYAML(t *testing.T) {
	service := New()
	definition, err := service.DecodeYAML([]byte(`
name: inline
steps:
  seed:
    action: printer:print
  consume:
    on: seed
    action: printer:print
`))
	assert.NoError(t, err)
	if !assert.NotNil(t, definition) {
		return
	}
	assert.Equal(t, "inline", definition.Name)
	if assert.Len(t, definition.Steps, 2) {
		assert.True(t, definition.Steps[0].IsEntryPoint())
		assert.Equal(t, []string{"seed"}, definition.Steps[1].Triggers)
	}
}

func TestService_Upsert(t *testing.T) {
	service := New()
	definition := model.NewDefinition("adhoc")
	definition.AddEntryPoint("seed")
	definition.AddListener("consume", "seed")

	assert.NoError(t, service.Upsert("adhoc", definition))
	loaded, err := service.Load(context.Background(), "adhoc")
	assert.NoError(t, err)
	assert.Same(t, definition, loaded)

	invalid := model.NewDefinition("broken")
	invalid.AddListener("orphan")
	assert.Error(t, service.Upsert("broken", invalid))
}
