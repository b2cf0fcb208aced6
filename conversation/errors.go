package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFunctionCall is matched by *UnknownFunctionCallError.
	ErrUnknownFunctionCall = errors.New("unknown function call")
	// ErrInvalidArguments is matched by *InvalidArgumentsError.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrEncodingFailure is matched by *EncodingFailureError.
	ErrEncodingFailure = errors.New("encoding failure")
	// ErrRoundLimitExceeded is matched by *RoundLimitExceededError.
	ErrRoundLimitExceeded = errors.New("round limit exceeded")
	// ErrUnexpectedResponse is matched by *UnexpectedResponseError.
	ErrUnexpectedResponse = errors.New("unexpected response")
	// ErrCanceled is returned, joined with the context error, when the caller cancels
	// a run while the model or a tool is working.
	ErrCanceled = errors.New("conversation canceled")
)

// UnknownFunctionCallError reports a tool call for a name that is not registered.
type UnknownFunctionCallError struct {
	Name   string
	CallID string
}

func (e *UnknownFunctionCallError) Error() string {
	return fmt.Sprintf("unknown function call %q", e.Name)
}

func (e *UnknownFunctionCallError) Is(target error) bool { return target == ErrUnknownFunctionCall }

// InvalidArgumentsError reports arguments that could not be decoded for a tool.
// Err is the *codec.DecodeError with the details.
type InvalidArgumentsError struct {
	Name   string
	CallID string
	Err    error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Name, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

func (e *InvalidArgumentsError) Is(target error) bool { return target == ErrInvalidArguments }

// EncodingFailureError reports a tool result that could not be serialized.
type EncodingFailureError struct {
	Name   string
	CallID string
	Err    error
}

func (e *EncodingFailureError) Error() string {
	return fmt.Sprintf("encoding failure for %s: %v", e.Name, e.Err)
}

func (e *EncodingFailureError) Unwrap() error { return e.Err }

func (e *EncodingFailureError) Is(target error) bool { return target == ErrEncodingFailure }

// RoundLimitExceededError reports a model that kept asking for tools after Limit rounds.
type RoundLimitExceededError struct {
	Limit int
}

func (e *RoundLimitExceededError) Error() string {
	return fmt.Sprintf("round limit of %d exceeded", e.Limit)
}

func (e *RoundLimitExceededError) Is(target error) bool { return target == ErrRoundLimitExceeded }

// UnexpectedResponseError reports a final response that Ask cannot turn into a single answer.
type UnexpectedResponseError struct {
	Reason string
}

func (e *UnexpectedResponseError) Error() string {
	return "unexpected response: " + e.Reason
}

func (e *UnexpectedResponseError) Is(target error) bool { return target == ErrUnexpectedResponse }

func canceled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}
