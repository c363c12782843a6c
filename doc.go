// Package flow provides a declarative, trigger-driven workflow engine.
//
// A flow is a set of named steps: entry points run unconditionally at the
// start of every run, listeners fire whenever any of their trigger steps
// completes. Propagation is synchronous and depth-first; a failing step
// prunes only its own downstream subtree.
//
// Flows are defined either programmatically against the generic engine
// package or declaratively in YAML, with steps bound to registered action
// services. End-users typically interact with the engine via the high-level
// Service facade exposed by this package:
//
//	srv := flow.New()
//	rt := srv.Runtime()
//	def, _ := rt.LoadDefinition(ctx, "pipeline.yaml")
//	process, _ := rt.Run(ctx, def, nil)
//
// For more details see the README and individual sub-packages.
package flow
