package tool

import (
	"context"
	"fmt"
	"reflect"

	"github.com/casualjim/toolloop/codec"
	"github.com/casualjim/toolloop/pkg/reflectx"
	"github.com/casualjim/toolloop/pkg/stdx"
	"github.com/casualjim/toolloop/schema"
	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
)

// Definition is what gets advertised to the model for a tool.
// The root of Parameters is always an object schema.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// Define builds a definition from an explicit parameter list.
func Define(name, description string, params ...schema.Parameter) Definition {
	return Definition{
		Name:        name,
		Description: description,
		Parameters:  schema.ForParameters(params),
	}
}

// Executor runs a tool: it receives the raw JSON arguments produced by the model
// and returns the JSON encoded result.
type Executor interface {
	Execute(ctx context.Context, arguments []byte) ([]byte, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, arguments []byte) ([]byte, error)

func (f ExecutorFunc) Execute(ctx context.Context, arguments []byte) ([]byte, error) {
	return f(ctx, arguments)
}

// Entry pairs a definition with the executor that implements it.
type Entry struct {
	Definition Definition
	Executor   Executor
}

// Name returns the name of the tool.
func (e Entry) Name() string {
	return e.Definition.Name
}

// NewEntry pairs a definition with an executor. A conversation refuses to dispatch
// calls to an entry without one.
func NewEntry(def Definition, exec Executor) Entry {
	return Entry{Definition: def, Executor: exec}
}

// Option is a type alias for a function that modifies the
// configuration of a tool built from a Go function.
type Option = opts.Option[builder]

type builder struct {
	name         string
	description  string
	doc          string
	names        []string
	defaults     map[string]any
	descriptions map[string]string
	validate     bool
}

// Must wraps New and panics when the function cannot be turned into a tool.
func Must(fn any, options ...Option) Entry {
	return stdx.Must1(New(fn, options...))
}

// New creates a tool from a Go function.
//
// The function may take a context.Context as its first parameter, it is supplied
// by the executor and not advertised to the model. The remaining parameters are named
// with Parameters (unnamed ones are called param0, param1, ...). Supported results are
// (), (T), (error) and (T, error).
//
// Parameters:
//   - fn: The function to expose.
//   - options: Name, Description, Parameters, Default, Describe, Doc and ValidateArguments.
//
// Returns:
//
//	An Entry whose executor decodes the arguments, calls fn and encodes the result.
func New(fn any, options ...Option) (Entry, error) {
	if !reflectx.IsFunction(fn) {
		return Entry{}, fmt.Errorf("provided value is not a function")
	}

	var s builder
	if err := opts.Apply(&s, options); err != nil {
		return Entry{}, err
	}
	if s.name == "" {
		s.name = reflectx.FunctionName(fn)
	}
	if s.doc != "" {
		doc := ParseDoc(s.doc)
		if s.description == "" {
			s.description = doc.Summary
		}
		for name, text := range doc.Parameters {
			if _, ok := s.descriptions[name]; !ok {
				if s.descriptions == nil {
					s.descriptions = make(map[string]string)
				}
				s.descriptions[name] = text
			}
		}
	}

	sig, err := inspect(reflect.TypeOf(fn))
	if err != nil {
		return Entry{}, fmt.Errorf("tool %s: %w", s.name, err)
	}

	params, err := s.parameters(sig.params)
	if err != nil {
		return Entry{}, fmt.Errorf("tool %s: %w", s.name, err)
	}
	def := Definition{
		Name:        s.name,
		Description: s.description,
		Parameters:  schema.ForParameters(params),
	}

	var copts []codec.Option
	if s.validate {
		copts = append(copts, codec.WithSchemaValidation(def.Parameters))
	}
	cdc, err := codec.New(params, copts...)
	if err != nil {
		return Entry{}, fmt.Errorf("tool %s: %w", s.name, err)
	}

	return Entry{
		Definition: def,
		Executor: &funcExecutor{
			name:  s.name,
			fn:    reflect.ValueOf(fn),
			sig:   sig,
			codec: cdc,
		},
	}, nil
}

func (s *builder) parameters(types []reflect.Type) ([]schema.Parameter, error) {
	if len(s.names) > len(types) {
		return nil, fmt.Errorf("%d parameter names given for %d parameters", len(s.names), len(types))
	}
	seen := make(map[string]struct{}, len(types))
	params := make([]schema.Parameter, len(types))
	for i, t := range types {
		name := fmt.Sprintf("param%d", i)
		if i < len(s.names) && s.names[i] != "" {
			name = s.names[i]
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate parameter name %q", name)
		}
		seen[name] = struct{}{}
		params[i] = schema.Parameter{
			Name:        name,
			Type:        t,
			Default:     s.defaults[name],
			Description: s.descriptions[name],
		}
	}
	return params, nil
}

// Name sets the name the tool is advertised with.
// It defaults to the name of the function.
var Name = opts.ForName[builder, string]("name")

// Description sets the description of the tool.
var Description = opts.ForName[builder, string]("description")

// Doc derives the description of the tool and of its parameters from a doc comment.
// Explicit Description and Describe options take precedence.
var Doc = opts.ForName[builder, string]("doc")

// Parameters names the parameters of the function in order, skipping a leading
// context.Context.
func Parameters(names ...string) Option {
	return opts.Type[builder](func(o *builder) error {
		o.names = append([]string(nil), names...)
		return nil
	})
}

// Default declares a default value for a parameter. A parameter with a default is
// not required and falls back to value when the model omits it.
func Default(name string, value any) Option {
	return opts.Type[builder](func(o *builder) error {
		if value == nil {
			return fmt.Errorf("default for %s must not be nil", name)
		}
		if o.defaults == nil {
			o.defaults = make(map[string]any)
		}
		o.defaults[name] = value
		return nil
	})
}

// Describe sets the description of a single parameter.
func Describe(name, description string) Option {
	return opts.Type[builder](func(o *builder) error {
		if o.descriptions == nil {
			o.descriptions = make(map[string]string)
		}
		o.descriptions[name] = description
		return nil
	})
}

// ValidateArguments checks raw arguments against the advertised schema before decoding.
func ValidateArguments() Option {
	return opts.Type[builder](func(o *builder) error {
		o.validate = true
		return nil
	})
}
