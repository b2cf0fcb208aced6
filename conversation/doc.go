/*
Package conversation runs tool calling conversations against a chat completion API.

An Orchestrator owns a provider.Provider and a registry.Registry. Run sends the
history held by a State to the model together with the definitions of every
registered tool. When the reply asks for tools, each call is resolved against the
registry, executed, and its encoded result appended to the State as a
messages.FunctionCallOutput; then the model is asked again. The loop ends when the
model answers without tool calls, that response is returned.

	reg := registry.Build(weatherTool, timeTool)
	conv := conversation.New(openai.GPT4oMini().Provider(), reg,
		conversation.MaxRounds(5),
		conversation.Parallelism(4),
	)

	state := conversation.NewState(provider.Options{Model: "gpt-4o-mini"},
		messages.NewSystem("You are a helpful assistant"),
	)
	answer, err := conv.Ask(ctx, state, "What's the weather like in Boston today?")

# Failure

A run either completes every round or fails as a whole, nothing is retried:

  - a call for a tool that is not registered fails with *UnknownFunctionCallError
    before any tool of that round runs
  - arguments that do not decode fail with *InvalidArgumentsError
  - results that do not encode fail with *EncodingFailureError
  - errors of tools and of the provider are returned as they are
  - more than MaxRounds requests fail with *RoundLimitExceededError
  - cancelling the context fails with an error matching both ErrCanceled and
    the context error

# Concurrency

Tool calls of a round run one at a time unless Parallelism is raised. Outputs are
always appended in the order the model asked for them. A State must not be shared by
concurrent runs, the Orchestrator and the Registry can be.
*/
package conversation
