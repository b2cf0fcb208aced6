package tool

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/casualjim/toolloop/codec"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

type signature struct {
	takesContext bool
	params       []reflect.Type
	returnsValue bool
	returnsError bool
}

func inspect(t reflect.Type) (signature, error) {
	var sig signature
	if t.IsVariadic() {
		return sig, errors.New("variadic functions are not supported")
	}

	start := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		sig.takesContext = true
		start = 1
	}
	for i := start; i < t.NumIn(); i++ {
		sig.params = append(sig.params, t.In(i))
	}

	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			sig.returnsError = true
		} else {
			sig.returnsValue = true
		}
	case 2:
		if t.Out(1) != errorType {
			return sig, fmt.Errorf("second result must be an error, got %s", t.Out(1))
		}
		sig.returnsValue = true
		sig.returnsError = true
	default:
		return sig, fmt.Errorf("expected at most 2 results, got %d", t.NumOut())
	}
	return sig, nil
}

type funcExecutor struct {
	name  string
	fn    reflect.Value
	sig   signature
	codec *codec.Codec
}

// Execute decodes the arguments, calls the function and encodes what it returned.
// Decoding failures are *codec.DecodeError, encoding failures *codec.EncodeError,
// errors returned by the function are passed through untouched.
func (f *funcExecutor) Execute(ctx context.Context, arguments []byte) (result []byte, err error) {
	args, err := f.codec.Decode(arguments)
	if err != nil {
		return nil, err
	}

	in := make([]reflect.Value, 0, args.Len()+1)
	if f.sig.takesContext {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	in = append(in, args.Values()...)

	out, err := f.call(in)
	if err != nil {
		return nil, err
	}

	if f.sig.returnsError {
		if errv := out[len(out)-1]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
	}

	var value any
	if f.sig.returnsValue {
		value = out[0].Interface()
	}
	return f.codec.Encode(value)
}

func (f *funcExecutor) call(in []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", f.name, r)
		}
	}()
	return f.fn.Call(in), nil
}
