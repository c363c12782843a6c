// Package extension provides run-time registries for action services and
// user-defined Go types (for example custom action inputs or outputs).
//
// The registries are normally populated through the public APIs under the
// root flow package, therefore most applications do not need to import
// this package directly.
package extension
