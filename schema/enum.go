package schema

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Enum is implemented by types with a closed set of literal values.
// EnumValues is called on the zero value of the type and must return the
// permitted values in declaration order.
//
//	type Unit string
//
//	const (
//		Celsius    Unit = "celsius"
//		Fahrenheit Unit = "fahrenheit"
//	)
//
//	func (Unit) EnumValues() []any { return []any{Celsius, Fahrenheit} }
type Enum interface {
	EnumValues() []any
}

var enumType = reflect.TypeFor[Enum]()

func enumRule(t reflect.Type) *jsonschema.Schema {
	if t.Kind() == reflect.Interface {
		return nil
	}
	values, ok := enumValues(t)
	if !ok {
		return nil
	}

	literals := make([]any, 0, len(values))
	for _, v := range values {
		if lit, ok := literal(v); ok {
			literals = append(literals, lit)
		}
	}
	return &jsonschema.Schema{Type: TypeString, Enum: literals}
}

// enumValues asks a zero value of t for its cases. A panicking implementation is
// treated as not being an enumeration.
func enumValues(t reflect.Type) (values []any, ok bool) {
	var recv any
	switch {
	case t.Implements(enumType):
		recv = reflect.Zero(t).Interface()
	case reflect.PointerTo(t).Implements(enumType):
		recv = reflect.New(t).Interface()
	default:
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			values, ok = nil, false
		}
	}()
	return recv.(Enum).EnumValues(), true
}

// literal coerces an enumeration case to a value a JSON schema can hold.
// The underlying scalar wins over any textual representation of the type.
func literal(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}

	switch lv := v.(type) {
	case encoding.TextMarshaler:
		b, err := lv.MarshalText()
		if err != nil {
			return nil, false
		}
		return string(b), true
	case fmt.Stringer:
		return lv.String(), true
	}
	return nil, false
}

// EnumLiterals returns the permitted literals of t when t (or the type it points to)
// is an enumeration.
func EnumLiterals(t reflect.Type) ([]any, bool) {
	t = indirect(t)
	if t == nil {
		return nil, false
	}
	node := enumRule(t)
	if node == nil {
		return nil, false
	}
	return node.Enum, true
}

// Literal coerces v the same way enumeration cases are coerced.
func Literal(v any) (any, bool) {
	return literal(v)
}
