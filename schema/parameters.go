package schema

import (
	"reflect"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Parameter describes one named argument of a tool.
type Parameter struct {
	// Name is the property name the model uses in the arguments object.
	Name string

	// Type is the Go type the argument decodes into.
	Type reflect.Type

	// Default is used when the argument is absent. A nil Default means the
	// parameter has no default value.
	Default any

	// Description is advertised to the model with the parameter schema.
	Description string
}

// HasDefault reports whether the parameter declares a default value.
func (p Parameter) HasDefault() bool {
	return p.Default != nil
}

// Nullable reports whether the parameter type accepts null.
func (p Parameter) Nullable() bool {
	return IsNullable(p.Type)
}

// Required reports whether the model has to supply the parameter.
// A default value or a nullable type each make it optional.
func (p Parameter) Required() bool {
	return !p.HasDefault() && !p.Nullable()
}

// IsNullable reports whether values of t can be nil, which is how Go spells optional.
func IsNullable(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	return false
}

// ForParameters builds the root object schema for a parameter list. Properties keep
// the order of params, required lists the parameters that are neither defaulted nor
// nullable.
func ForParameters(params []Parameter) *jsonschema.Schema {
	root := &jsonschema.Schema{
		Type:       TypeObject,
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}

	var required []string
	for _, p := range params {
		root.Properties.Set(p.Name, Infer(p.Type, p.Description))
		if p.Required() {
			required = append(required, p.Name)
		}
	}
	if len(required) > 0 {
		root.Required = required
	}
	return root
}
