package codec

import (
	"fmt"
	"reflect"
	"slices"
)

// Arguments holds decoded parameter values in declaration order.
type Arguments struct {
	names  []string
	values []reflect.Value
}

// Len returns the number of decoded parameters.
func (a Arguments) Len() int {
	return len(a.values)
}

// Names returns the parameter names in declaration order.
func (a Arguments) Names() []string {
	return slices.Clone(a.names)
}

// Values returns the decoded values in declaration order, ready for reflect.Value.Call.
func (a Arguments) Values() []reflect.Value {
	return slices.Clone(a.values)
}

// Get returns the decoded value of the named parameter.
func (a Arguments) Get(name string) (any, bool) {
	i := slices.Index(a.names, name)
	if i < 0 {
		return nil, false
	}
	return a.values[i].Interface(), true
}

// Map returns the decoded values keyed by parameter name.
func (a Arguments) Map() map[string]any {
	out := make(map[string]any, len(a.names))
	for i, name := range a.names {
		out[name] = a.values[i].Interface()
	}
	return out
}

// Arg returns the named argument as a T.
func Arg[T any](args Arguments, name string) (T, error) {
	var zero T
	v, ok := args.Get(name)
	if !ok {
		return zero, fmt.Errorf("argument %q not found", name)
	}
	if v == nil {
		return zero, nil
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("argument %q is %T, not %T", name, v, zero)
	}
	return tv, nil
}
