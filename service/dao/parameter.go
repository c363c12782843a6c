package dao

// Parameter is a named filter value passed to List, e.g. State=completed.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a list filter; multiple values match any of them.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
