// Package model contains the in-memory representation of flow definitions
// and supporting types used by the engine.
//
// A flow definition is typically authored in Go through the fluent builders
// on Definition, or loaded from a YAML document into the structures defined
// here and in the `graph`, `state` and `types` sub-packages.
package model
