package messages

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// Message is an entry in the conversation history.
type Message interface {
	// Kind returns the JSON discriminator of the message.
	Kind() string
	// Time returns when the message was created.
	Time() strfmt.DateTime

	message()
}

const (
	KindSystem             = "system"
	KindUser               = "user"
	KindAssistant          = "assistant"
	KindFunctionCallOutput = "function_call_output"
)

// System carries the instructions for the model.
type System struct {
	Content   string          `json:"content"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// NewSystem creates a system message stamped with the current time.
func NewSystem(content string) System {
	return System{Content: content, Timestamp: now()}
}

func (System) message()                {}
func (System) Kind() string            { return KindSystem }
func (s System) Time() strfmt.DateTime { return s.Timestamp }

// User is a prompt from the user. Sender optionally identifies the end user.
type User struct {
	Content   string          `json:"content"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// NewUser creates a user message stamped with the current time.
func NewUser(content string) User {
	return User{Content: content, Timestamp: now()}
}

func (User) message()                {}
func (User) Kind() string            { return KindUser }
func (u User) Time() strfmt.DateTime { return u.Timestamp }

// ToolCall is a request from the model to invoke a tool. Arguments is the raw JSON
// text the model produced.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Assistant is a reply from the model. A reply that asks for tools carries them in
// ToolCalls, Content is usually empty in that case.
type Assistant struct {
	Content   string          `json:"content,omitempty"`
	Refusal   string          `json:"refusal,omitempty"`
	ToolCalls []ToolCall      `json:"tool_calls,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// NewAssistant creates an assistant message stamped with the current time.
func NewAssistant(content string, calls ...ToolCall) Assistant {
	return Assistant{Content: content, ToolCalls: calls, Timestamp: now()}
}

func (Assistant) message()                {}
func (Assistant) Kind() string            { return KindAssistant }
func (a Assistant) Time() strfmt.DateTime { return a.Timestamp }

// HasToolCalls reports whether the reply asks for at least one tool.
func (a Assistant) HasToolCalls() bool { return len(a.ToolCalls) > 0 }

// FunctionCallOutput is the encoded result of a tool call, correlated with the
// request through CallID.
type FunctionCallOutput struct {
	CallID    string          `json:"call_id"`
	Output    string          `json:"output"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// NewFunctionCallOutput creates a function call output stamped with the current time.
func NewFunctionCallOutput(callID, output string) FunctionCallOutput {
	return FunctionCallOutput{CallID: callID, Output: output, Timestamp: now()}
}

func (FunctionCallOutput) message()                {}
func (FunctionCallOutput) Kind() string            { return KindFunctionCallOutput }
func (f FunctionCallOutput) Time() strfmt.DateTime { return f.Timestamp }

func now() strfmt.DateTime {
	return strfmt.DateTime(time.Now().UTC())
}
