/*
Package toolloop lets a chat completion model call plain Go functions.

The module is split along the steps of a tool calling conversation:

  - schema infers the JSON schema advertised for a parameter list
  - codec decodes the model's JSON arguments into Go values and encodes results
  - tool builds a Definition and an Executor from a Go function
  - registry holds the tools of a conversation by name
  - messages is the conversation history
  - provider is the boundary to the chat completion API, provider/openai implements it
  - conversation runs the request, dispatch and feed back loop until the model answers

# Basic Usage

	func getWeather(location string, unit Unit) (Weather, error) {
		// ...
	}

	weatherTool := tool.Must(getWeather,
		tool.Name("get_weather"),
		tool.Description("Get the current weather in a given location"),
		tool.Parameters("location", "unit"),
		tool.Default("unit", Celsius),
	)

	model := openai.GPT4oMini()
	orchestrator := conversation.New(model.Provider(), registry.Build(weatherTool))

	state := conversation.NewState(model.Options(), messages.NewSystem("You are a helpful assistant"))
	answer, err := orchestrator.Ask(ctx, state, "What's the weather like in Boston today?")

# Architecture

A conversation round sends the whole history and every tool definition to the model.
When the reply asks for tools, each call is resolved in the registry, its arguments are
decoded against the inferred parameters, the function runs and the encoded result is
appended as a messages.FunctionCallOutput correlated by call ID. The loop ends when a
reply carries no tool calls, or fails with a typed error from the conversation package.

Registrations for many functions can be generated with cmd/toolloop-gen, and cmd/toolloop
is a command line front end over a set of demo tools.
*/
package toolloop
