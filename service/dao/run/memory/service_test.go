package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flow/runtime/execution"
	"github.com/viant/flow/service/dao"
)

func TestService_CRUD(t *testing.T) {
	service := New()
	ctx := context.Background()

	err := service.Save(ctx, nil)
	assert.ErrorIs(t, err, dao.ErrNilEntity)

	process := execution.NewProcess("run-1", "pricing", nil)
	assert.NoError(t, service.Save(ctx, process))

	loaded, err := service.Load(ctx, "run-1")
	assert.NoError(t, err)
	assert.Equal(t, "pricing", loaded.Name)

	_, err = service.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	// save with the same ID updates in place
	update := execution.NewProcess("run-1", "pricing", nil)
	update.SetState(execution.StateCompleted)
	assert.NoError(t, service.Save(ctx, update))
	loaded, err = service.Load(ctx, "run-1")
	assert.NoError(t, err)
	assert.Equal(t, execution.StateCompleted, loaded.GetState())

	assert.NoError(t, service.Delete(ctx, "run-1"))
	assert.ErrorIs(t, service.Delete(ctx, "run-1"), dao.ErrNotFound)
}

func TestService_ListByState(t *testing.T) {
	service := New()
	ctx := context.Background()

	completed := execution.NewProcess("run-1", "a", nil)
	completed.SetState(execution.StateCompleted)
	running := execution.NewProcess("run-2", "b", nil)
	running.SetState(execution.StateRunning)
	assert.NoError(t, service.Save(ctx, completed))
	assert.NoError(t, service.Save(ctx, running))

	all, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := service.List(ctx, dao.NewParameter("State", execution.StateCompleted))
	assert.NoError(t, err)
	if assert.Len(t, matched, 1) {
		assert.Equal(t, "run-1", matched[0].ID)
	}
}
