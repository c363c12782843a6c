package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flow/policy"
	"github.com/viant/flow/progress"
	"github.com/viant/flow/runtime/execution"
	"github.com/viant/flow/service/event"
)

type state = map[string]interface{}

func recorder(calls *[]string, id string, fn Handler[state]) Handler[state] {
	return func(ctx context.Context, session *execution.Session[state], input interface{}) (interface{}, error) {
		*calls = append(*calls, id)
		if fn == nil {
			return nil, nil
		}
		return fn(ctx, session, input)
	}
}

func TestEngine_Run_Chain(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("fetch", recorder(&calls, "fetch", func(_ context.Context, session *execution.Session[state], _ interface{}) (interface{}, error) {
		session.State["value"] = 10
		return 10, nil
	}))
	e.RegisterListener("double", []string{"fetch"}, recorder(&calls, "double", func(_ context.Context, session *execution.Session[state], input interface{}) (interface{}, error) {
		doubled := input.(int) * 2
		session.State["value"] = doubled
		return doubled, nil
	}))
	e.RegisterListener("report", []string{"double"}, recorder(&calls, "report", func(_ context.Context, session *execution.Session[state], input interface{}) (interface{}, error) {
		session.State["report"] = fmt.Sprintf("value=%v", input)
		return nil, nil
	}))

	process, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch", "double", "report"}, calls)
	assert.Equal(t, execution.StateCompleted, process.GetState())
	assert.False(t, process.HasErrors())

	assert.Equal(t, 20, e.Session().State["value"])
	assert.Equal(t, "value=20", e.Session().State["report"])

	// listeners receive the nearest producer's result
	doubleExec := process.LookupExecution("double")
	require.NotNil(t, doubleExec)
	assert.Equal(t, 10, doubleExec.Input)
	assert.Equal(t, 20, doubleExec.Output)
	assert.Equal(t, "fetch", doubleExec.TriggerID)
	assert.Equal(t, 1, doubleExec.Depth)
}

func TestEngine_Run_EntryPointOrder(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("a", recorder(&calls, "a", nil))
	e.RegisterEntryPoint("b", recorder(&calls, "b", nil))
	e.RegisterListener("afterA", []string{"a"}, recorder(&calls, "afterA", nil))
	e.RegisterListener("afterB", []string{"b"}, recorder(&calls, "afterB", nil))

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	// a's whole subtree completes before b starts
	assert.Equal(t, []string{"a", "afterA", "b", "afterB"}, calls)
}

func TestEngine_Run_FailureContainment(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("seed", recorder(&calls, "seed", nil))
	e.RegisterListener("broken", []string{"seed"}, recorder(&calls, "broken", func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, fmt.Errorf("boom")
	}))
	e.RegisterListener("downstream", []string{"broken"}, recorder(&calls, "downstream", nil))
	e.RegisterListener("sibling", []string{"seed"}, recorder(&calls, "sibling", nil))

	process, err := e.Run(context.Background())
	require.NoError(t, err)

	// the failing listener prunes only its own subtree
	assert.Equal(t, []string{"seed", "broken", "sibling"}, calls)
	assert.Equal(t, execution.StateCompleted, process.GetState())
	assert.True(t, process.HasErrors())
	assert.Equal(t, "boom", process.Errors["broken"])
	assert.Nil(t, process.LookupExecution("downstream"))

	brokenExec := process.LookupExecution("broken")
	require.NotNil(t, brokenExec)
	assert.Equal(t, execution.StepStateFailed, brokenExec.State)
}

func TestEngine_Run_EntryPointFailureContained(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("first", recorder(&calls, "first", func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, fmt.Errorf("entry failed")
	}))
	e.RegisterEntryPoint("second", recorder(&calls, "second", nil))
	e.RegisterListener("afterFirst", []string{"first"}, recorder(&calls, "afterFirst", nil))

	process, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, "entry failed", process.Errors["first"])
}

func TestEngine_Run_NoEntryPoints(t *testing.T) {
	e := New[state](state{})
	e.RegisterListener("orphan", []string{"never"}, func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})
	process, err := e.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoEntryPoints)
	require.NotNil(t, process)
	assert.Equal(t, execution.StateFailed, process.GetState())
}

func TestEngine_Run_UnresolvedTriggerInert(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("seed", recorder(&calls, "seed", nil))
	e.RegisterListener("ghostListener", []string{"ghost"}, recorder(&calls, "ghostListener", nil))

	process, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"seed"}, calls)
	assert.False(t, process.HasErrors())
	assert.Nil(t, process.LookupExecution("ghostListener"))
}

func TestEngine_Run_FanOutOrderAndNoDedup(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("seed", recorder(&calls, "seed", nil))
	e.RegisterListener("left", []string{"seed"}, recorder(&calls, "left", nil))
	e.RegisterListener("right", []string{"seed"}, recorder(&calls, "right", nil))
	// fires once per firing edge, not once per run
	e.RegisterListener("join", []string{"left", "right"}, recorder(&calls, "join", nil))

	process, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"seed", "left", "join", "right", "join"}, calls)
	assert.Len(t, process.Executions("join"), 2)
}

func TestEngine_Run_CycleTerminates(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("start", recorder(&calls, "start", nil))
	e.RegisterListener("a", []string{"start", "b"}, recorder(&calls, "a", nil))
	e.RegisterListener("b", []string{"a"}, recorder(&calls, "b", nil))

	process, err := e.Run(context.Background())
	require.NoError(t, err)
	// a fires from start, b fires from a, a is pruned on re-entry via b
	assert.Equal(t, []string{"start", "a", "b"}, calls)

	executions := process.Executions("a")
	require.Len(t, executions, 2)
	assert.Equal(t, execution.StepStateCompleted, executions[0].State)
	assert.Equal(t, execution.StepStatePruned, executions[1].State)
	assert.Contains(t, executions[1].Reason, "cycle")
	assert.False(t, process.HasErrors())
}

func TestEngine_Run_CycleErrorMode(t *testing.T) {
	e := New[state](state{})
	e.RegisterEntryPoint("start", func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})
	e.RegisterListener("a", []string{"start", "a"}, func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})

	ctx := policy.WithPolicy(context.Background(), &policy.Policy{OnCycle: policy.OnCycleError})
	process, err := e.Run(ctx)
	require.NoError(t, err)
	assert.True(t, process.HasErrors())
	assert.Contains(t, process.Errors["a"], "cycle")
}

func TestEngine_Run_MaxDepth(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("s0", recorder(&calls, "s0", nil))
	e.RegisterListener("s1", []string{"s0"}, recorder(&calls, "s1", nil))
	e.RegisterListener("s2", []string{"s1"}, recorder(&calls, "s2", nil))
	e.RegisterListener("s3", []string{"s2"}, recorder(&calls, "s3", nil))

	ctx := policy.WithPolicy(context.Background(), &policy.Policy{MaxDepth: 2})
	process, err := e.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s0", "s1", "s2"}, calls)

	pruned := process.LookupExecution("s3")
	require.NotNil(t, pruned)
	assert.Equal(t, execution.StepStatePruned, pruned.State)
	assert.Contains(t, pruned.Reason, "max depth")
}

func TestEngine_Run_BlockList(t *testing.T) {
	var calls []string
	e := New[state](state{})
	e.RegisterEntryPoint("seed", recorder(&calls, "seed", nil))
	e.RegisterListener("secret", []string{"seed"}, recorder(&calls, "secret", nil))
	e.RegisterListener("afterSecret", []string{"secret"}, recorder(&calls, "afterSecret", nil))
	e.RegisterListener("open", []string{"seed"}, recorder(&calls, "open", nil))

	ctx := policy.WithPolicy(context.Background(), &policy.Policy{BlockList: []string{"Secret"}})
	process, err := e.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"seed", "open"}, calls)
	assert.False(t, process.HasErrors())

	blocked := process.LookupExecution("secret")
	require.NotNil(t, blocked)
	assert.Equal(t, execution.StepStatePruned, blocked.State)
	assert.Equal(t, "blocked by policy", blocked.Reason)
}

func TestEngine_Run_ProgressCounters(t *testing.T) {
	e := New[state](state{})
	e.RegisterEntryPoint("ok", func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})
	e.RegisterListener("bad", []string{"ok"}, func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, fmt.Errorf("nope")
	})

	ctx, tracker := progress.WithNewTracker(context.Background(), "", "counters", nil)
	_, err := e.Run(ctx)
	require.NoError(t, err)

	snapshot := tracker.Snapshot()
	assert.Equal(t, 2, snapshot.TotalSteps)
	assert.Equal(t, 1, snapshot.CompletedSteps)
	assert.Equal(t, 1, snapshot.FailedSteps)
	assert.Equal(t, 0, snapshot.PrunedSteps)
}

func TestEngine_Run_PublishesLifecycleEvents(t *testing.T) {
	events := event.New()
	e := New[state](state{}, WithEventService[state](events))
	e.RegisterEntryPoint("ok", func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})
	e.RegisterListener("bad", []string{"ok"}, func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, fmt.Errorf("nope")
	})

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	publisher, err := event.PublisherOf[*execution.Execution](events)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var types []string
	for i := 0; i < 4; i++ {
		anEvent, err := publisher.Consume(ctx)
		require.NoError(t, err)
		types = append(types, anEvent.Context.EventType)
	}
	assert.Equal(t, []string{
		event.TypeStepStarted, event.TypeStepCompleted,
		event.TypeStepStarted, event.TypeStepFailed,
	}, types)
}

func TestEngine_Run_DuplicateStepID(t *testing.T) {
	e := New[state](state{})
	e.RegisterEntryPoint("dup", func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})
	e.RegisterListener("dup", []string{"dup"}, func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		return nil, nil
	})
	_, err := e.Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate step id")
}

func TestEngine_SharedStateAcrossSubtrees(t *testing.T) {
	e := New[state](state{"count": 0})
	bump := func(context.Context, *execution.Session[state], interface{}) (interface{}, error) {
		s := e.Session().State
		s["count"] = s["count"].(int) + 1
		return nil, nil
	}
	e.RegisterEntryPoint("a", bump)
	e.RegisterEntryPoint("b", bump)
	e.RegisterListener("c", []string{"a", "b"}, bump)

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	// a, b and two firings of c all mutate the same state value
	assert.Equal(t, 4, e.Session().State["count"])
}
