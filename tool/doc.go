/*
Package tool turns Go functions into tools a language model can call.

A tool is an Entry: a Definition (name, description and the JSON schema of its
parameters) advertised to the model, paired with an Executor that receives the raw
JSON arguments the model produced and returns a JSON encoded result.

# Design Decisions

  - Reflection-based: the parameter schema is inferred from the function signature
  - Functional Options: names, defaults and descriptions are attached with options
  - Opaque execution: an Executor only sees bytes, so hand written executors and
    function backed ones are interchangeable

# Usage Examples

Basic Tool Definition:

	func getWeather(location string, unit Unit) (Weather, error) {
		// ...
	}

	entry := tool.Must(getWeather,
		tool.Description("Get the current weather in a given location"),
		tool.Parameters("location", "unit"),
		tool.Default("unit", Celsius),
		tool.Describe("location", "The city and state, e.g. San Francisco, CA"),
	)

Descriptions from a doc comment:

	entry := tool.Must(getWeather,
		tool.Parameters("location", "unit"),
		tool.Doc(`
			// getWeather returns the current weather in a given location.
			//
			// Parameters:
			//   - location: The city and state, e.g. San Francisco, CA
			//   - unit: The temperature unit
		`),
	)

Context injection:

	func lookup(ctx context.Context, id string) (Record, error)

The leading context.Context is supplied by the executor and never advertised.

Hand written executor:

	entry := tool.NewEntry(
		tool.Define("now", "Returns the current time"),
		tool.ExecutorFunc(func(ctx context.Context, _ []byte) ([]byte, error) {
			return codec.Encode(time.Now())
		}),
	)

# Errors

Executors built by New report argument problems as *codec.DecodeError and
unencodable results as *codec.EncodeError. Errors returned by the function itself
are passed through unchanged, a panic is recovered into an error.

# Thread Safety

An Entry is immutable once built. Executors may be called concurrently when the
conversation runs tool calls in parallel, so the wrapped functions should be safe
for concurrent use.
*/
package tool
