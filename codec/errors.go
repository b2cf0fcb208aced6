package codec

import (
	"errors"
	"fmt"
)

// ErrDecode is matched by every *DecodeError.
var ErrDecode = errors.New("decode arguments")

// ErrEncode is matched by every *EncodeError.
var ErrEncode = errors.New("encode result")

// DecodeError reports raw arguments that could not be turned into typed parameters.
type DecodeError struct {
	// Field is the offending parameter, empty when the document itself is invalid.
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := ErrDecode.Error()
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// EncodeError reports a result value that could not be serialized.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrEncode, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }
