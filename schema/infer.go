package schema

import (
	"encoding"
	"reflect"

	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

// Primitive kinds used in schema nodes.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

var (
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
)

// rule is one step of the inference chain. It returns nil when the type does not match.
type rule func(reflect.Type) *jsonschema.Schema

// rules is evaluated in order. Enumerations are named scalar types in Go so they have
// to be recognized before the primitive rules would claim them.
var rules = []rule{
	enumRule,
	stringRule,
	integerRule,
	numberRule,
	booleanRule,
	stringMapRule,
	sequenceRule,
	compositeRule,
}

// Infer returns the schema node for the type t. The description, when not empty,
// is set on the resulting node. Infer never fails: types that match none of the
// rules are described as strings.
func Infer(t reflect.Type, description string) *jsonschema.Schema {
	node := infer(t)
	if description != "" {
		node.Description = description
	}
	return node
}

// InferFor is the generic form of Infer.
func InferFor[T any](description string) *jsonschema.Schema {
	return Infer(reflect.TypeFor[T](), description)
}

func infer(t reflect.Type) *jsonschema.Schema {
	t = indirect(t)
	if t == nil {
		return &jsonschema.Schema{Type: TypeString}
	}
	for _, match := range rules {
		if node := match(t); node != nil {
			return node
		}
	}
	return &jsonschema.Schema{Type: TypeString}
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

func stringRule(t reflect.Type) *jsonschema.Schema {
	switch {
	case t.Kind() == reflect.String, implements(t, textMarshalerType):
		return &jsonschema.Schema{Type: TypeString}
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && !implements(t, jsonMarshalerType):
		// encoding/json writes byte slices as base64 strings
		return &jsonschema.Schema{Type: TypeString}
	}
	return nil
}

func integerRule(t reflect.Type) *jsonschema.Schema {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &jsonschema.Schema{Type: TypeInteger}
	}
	return nil
}

func numberRule(t reflect.Type) *jsonschema.Schema {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return &jsonschema.Schema{Type: TypeNumber}
	}
	return nil
}

func booleanRule(t reflect.Type) *jsonschema.Schema {
	if t.Kind() == reflect.Bool {
		return &jsonschema.Schema{Type: TypeBoolean}
	}
	return nil
}

func stringMapRule(t reflect.Type) *jsonschema.Schema {
	if t.Kind() != reflect.Map {
		return nil
	}
	key := t.Key()
	if key.Kind() == reflect.String || implements(key, textMarshalerType) {
		return &jsonschema.Schema{Type: TypeObject}
	}
	return nil
}

func sequenceRule(t reflect.Type) *jsonschema.Schema {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return &jsonschema.Schema{Type: TypeArray}
	}
	return nil
}

func compositeRule(t reflect.Type) *jsonschema.Schema {
	switch {
	case t.Kind() == reflect.Struct, t.Kind() == reflect.Map:
		return &jsonschema.Schema{Type: TypeObject}
	case t.Kind() != reflect.Interface && implements(t, jsonMarshalerType):
		return &jsonschema.Schema{Type: TypeObject}
	}
	return nil
}
