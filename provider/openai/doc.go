/*
Package openai implements provider.Provider on top of the OpenAI chat completions API.

# Message Mapping

  - messages.System becomes a system message
  - messages.User becomes a user message, its Sender is sent as the end user id
  - messages.Assistant with tool calls becomes an assistant message carrying them
  - messages.FunctionCallOutput becomes a tool message for its call id

Tool definitions are sent as function tools with their parameter schema as is.

# Available Models

  - GPT4oMini()
  - GPT4o()
  - O1Mini()

Other models are created with NewModel:

	model := openai.NewModel("gpt-4.1",
		option.WithAPIKey("your-key"),
	)
	conv := conversation.New(model.Provider(), reg)
	state := conversation.NewState(model.Options())

Models are cached by name and create their Provider on first use, so they can be
shared between goroutines.
*/
package openai
