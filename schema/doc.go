/*
Package schema derives JSON-Schema parameter descriptions from Go types.

The inference is total: every reflect.Type maps to a schema node, unknown or
unsupported types fall back to a string node so that building a tool never
fails because of its parameter types.

# Type mapping

Types are checked against an ordered list of rules, the first match wins:

 1. Enumerations (types implementing Enum) become {"type":"string","enum":[...]}
 2. Strings, []byte and encoding.TextMarshaler implementations become "string"
 3. Signed and unsigned integers become "integer"
 4. Floating point numbers become "number"
 5. Booleans become "boolean"
 6. Maps keyed by strings become an opaque "object"
 7. Slices and arrays become "array"
 8. Structs, other maps and json.Marshaler implementations become an opaque "object"
 9. Everything else becomes "string"

Pointers are dereferenced before the rules run; a pointer parameter is nullable
and therefore never required.

Nested objects are not introspected: a struct parameter is advertised as
{"type":"object"} without properties.

# Parameter lists

ForParameters builds the root object schema of a tool:

	params := []schema.Parameter{
		{Name: "location", Type: reflect.TypeFor[string](), Description: "The city and state"},
		{Name: "unit", Type: reflect.TypeFor[string](), Default: "celsius"},
	}
	root := schema.ForParameters(params)
	// {"type":"object","properties":{"location":{...},"unit":{...}},"required":["location"]}
*/
package schema
