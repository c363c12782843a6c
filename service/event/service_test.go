package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stepOutcome struct {
	StepID string
	Output interface{}
}

func TestService_TypedPublishSubscribe(t *testing.T) {
	service := New()

	var mu sync.Mutex
	var received []*Event[stepOutcome]
	err := SetListenerOf[stepOutcome](service, func(e *Event[stepOutcome]) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})
	assert.NoError(t, err)

	publisher, err := PublisherOf[stepOutcome](service)
	assert.NoError(t, err)

	eCtx := &Context{ProcessID: "p-1", StepID: "fetch", EventType: TypeStepCompleted}
	err = publisher.Publish(context.Background(), NewEvent(eCtx, stepOutcome{StepID: "fetch", Output: 10}))
	assert.NoError(t, err)

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		count := len(received)
		mu.Unlock()
		if count > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if assert.Len(t, received, 1) {
		assert.Equal(t, "fetch", received[0].Data.StepID)
		assert.Equal(t, TypeStepCompleted, received[0].Context.EventType)
	}
}

func TestService_CatchAllListener(t *testing.T) {
	service := New()

	var mu sync.Mutex
	var seen int
	service.SetListener(func(e *Event[any]) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	publisher, err := PublisherOf[stepOutcome](service)
	assert.NoError(t, err)

	eCtx := &Context{ProcessID: "p-2", StepID: "double", EventType: TypeStepFailed}
	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(eCtx, stepOutcome{StepID: "double"})))

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		count := seen
		mu.Unlock()
		if count > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	assert.Equal(t, 1, seen)
	mu.Unlock()
}
