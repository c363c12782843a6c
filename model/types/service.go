package types

// Service is an action service interface. An action service groups named,
// typed methods that declarative flow steps can be bound to.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
