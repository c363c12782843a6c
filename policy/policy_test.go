package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Defaults(t *testing.T) {
	var p *Policy
	assert.Equal(t, DefaultMaxDepth, p.EffectiveMaxDepth())
	assert.Equal(t, OnCyclePrune, p.CycleMode())
	assert.False(t, p.IsBlocked("anything"))
}

func TestPolicy_IsBlocked(t *testing.T) {
	p := &Policy{BlockList: []string{"Audit"}}
	assert.True(t, p.IsBlocked("audit"))
	assert.False(t, p.IsBlocked("fetch"))
}

func TestPolicy_Context(t *testing.T) {
	p := &Policy{MaxDepth: 5, OnCycle: OnCycleError}
	ctx := WithPolicy(context.Background(), p)
	actual := FromContext(ctx)
	assert.Equal(t, 5, actual.EffectiveMaxDepth())
	assert.Equal(t, OnCycleError, actual.CycleMode())
	assert.Nil(t, FromContext(context.Background()))
}
