package provider

import (
	"context"

	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/tool"
	"github.com/go-openapi/strfmt"
)

// Provider defines the interface for chat completion APIs. Implementations translate
// a Request to the wire format of their service and the reply back to a Response.
type Provider interface {
	ChatCompletion(context.Context, Request) (*Response, error)
}

// ToolCall is a request from the model to invoke a tool.
type ToolCall = messages.ToolCall

// Request encapsulates everything sent to the model for one completion.
type Request struct {
	// Messages is the conversation history, oldest first.
	Messages []messages.Message

	// Tools defines the functions the model may call.
	Tools []tool.Definition

	// Options configures sampling and identifies the model.
	Options Options

	// Prevents unkeyed literals
	_ struct{}
}

// Options are the per request settings of a completion. Nil pointers leave the
// setting to the service default.
type Options struct {
	Model             string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	MaxTokens         *int64   `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Seed              *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	User              string   `json:"user,omitempty" yaml:"user,omitempty"`
	ParallelToolCalls *bool    `json:"parallel_tool_calls,omitempty" yaml:"parallel_tool_calls,omitempty"`
}

// Merge returns o with every setting that is unset in o taken from defaults.
func (o Options) Merge(defaults Options) Options {
	if o.Model == "" {
		o.Model = defaults.Model
	}
	if o.Temperature == nil {
		o.Temperature = defaults.Temperature
	}
	if o.TopP == nil {
		o.TopP = defaults.TopP
	}
	if o.MaxTokens == nil {
		o.MaxTokens = defaults.MaxTokens
	}
	if o.Seed == nil {
		o.Seed = defaults.Seed
	}
	if o.User == "" {
		o.User = defaults.User
	}
	if o.ParallelToolCalls == nil {
		o.ParallelToolCalls = defaults.ParallelToolCalls
	}
	return o
}

// Choice is one of the candidate replies in a response.
type Choice struct {
	Index        int64              `json:"index"`
	Message      messages.Assistant `json:"message"`
	FinishReason string             `json:"finish_reason,omitempty"`
}

// Usage reports the tokens consumed by a completion.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Response is the reply of the model to a Request.
type Response struct {
	ID        string          `json:"id"`
	Model     string          `json:"model,omitempty"`
	Choices   []Choice        `json:"choices"`
	Usage     Usage           `json:"usage"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// ToolCalls returns the tool calls of all choices, in choice order.
func (r *Response) ToolCalls() []ToolCall {
	if r == nil {
		return nil
	}
	var calls []ToolCall
	for _, c := range r.Choices {
		calls = append(calls, c.Message.ToolCalls...)
	}
	return calls
}
