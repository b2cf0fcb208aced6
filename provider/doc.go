// Package provider is the boundary between a conversation and the chat completion
// API that drives it.
//
// A Provider receives the full message history, the definitions of the tools the
// model may call and the request options, and returns the model's reply. The reply
// holds one or more choices, each an assistant message that either answers or asks
// for tool calls.
//
// Example usage:
//
//	p := openai.New(option.WithAPIKey(key))
//	resp, err := p.ChatCompletion(ctx, provider.Request{
//	    Messages: []messages.Message{messages.NewUser("What's the weather like in Boston?")},
//	    Tools:    reg.Tools(),
//	    Options:  provider.Options{Model: "gpt-4o-mini"},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, call := range resp.ToolCalls() {
//	    // dispatch
//	}
//
// The openai subpackage implements Provider on top of the OpenAI chat completions API.
package provider
