package flow

import (
	"fmt"

	"github.com/viant/flow/policy"
)

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON, YAML, environment variables, etc. The
// zero-value is useful, all nested fields inherit their package defaults.
type Config struct {
	Policy policy.Policy `json:"policy" yaml:"policy"`
	Meta   MetaConfig    `json:"meta" yaml:"meta"`
}

// MetaConfig configures the definition source loader.
type MetaConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to
// NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		Policy: policy.Policy{
			MaxDepth: policy.DefaultMaxDepth,
			OnCycle:  policy.OnCyclePrune,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Policy.MaxDepth < 0 {
		return fmt.Errorf("policy.maxDepth must be >= 0")
	}
	switch c.Policy.OnCycle {
	case "", policy.OnCyclePrune, policy.OnCycleError:
	default:
		return fmt.Errorf("policy.onCycle must be %q or %q", policy.OnCyclePrune, policy.OnCycleError)
	}
	return nil
}

// NewFromConfig creates a flow service from a config; explicit options take
// precedence over config-derived ones.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var derived []Option
	if config != nil {
		runPolicy := config.Policy
		derived = append(derived, WithPolicy(&runPolicy))
		if config.Meta.BaseURL != "" {
			derived = append(derived, WithMetaBaseURL(config.Meta.BaseURL))
		}
	}
	return New(append(derived, options...)...), nil
}
