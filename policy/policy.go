// Package policy provides optional traversal limits that can be attached to
// a flow run via context. It is deliberately decoupled from the engine so
// that using it is entirely opt-in - runs without a Policy in their context
// keep the default behaviour.

package policy

import (
	"context"
	"strings"
)

// Cycle handling modes recognised by the engine.
const (
	// OnCyclePrune silently cuts a listener that is already on the current
	// propagation path (default).
	OnCyclePrune = "prune"
	// OnCycleError additionally records the pruned edge as a step error on
	// the run record.
	OnCycleError = "error"
)

// DefaultMaxDepth bounds propagation chains when no policy overrides it. The
// traversal is a literal recursive walk, so the bound also protects the call
// stack on pathological definitions.
const DefaultMaxDepth = 1000

// Policy represents the traversal settings for the current flow run.
//
//   - MaxDepth bounds the listener chain length from any entry point.
//   - OnCycle controls how a listener already on the propagation path is
//     treated (prune / error).
//   - BlockList names steps that must not run; a blocked step prunes its
//     own subtree exactly like a failing one, without being an error.
//
// A nil *Policy means "no limits beyond DefaultMaxDepth" and is therefore
// the zero-cost default.
type Policy struct {
	MaxDepth  int      `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`
	OnCycle   string   `json:"onCycle,omitempty" yaml:"onCycle,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// EffectiveMaxDepth returns the configured depth limit or the default.
func (p *Policy) EffectiveMaxDepth() int {
	if p == nil || p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// CycleMode returns the configured cycle handling mode or OnCyclePrune.
func (p *Policy) CycleMode() string {
	if p == nil || p.OnCycle == "" {
		return OnCyclePrune
	}
	return p.OnCycle
}

// IsBlocked evaluates BlockList by exact, case-insensitive step ID match.
func (p *Policy) IsBlocked(stepID string) bool {
	if p == nil {
		return false
	}
	normalized := strings.ToLower(stepID)
	for _, blocked := range p.BlockList {
		if normalized == strings.ToLower(blocked) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy from ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
