// Package codec turns raw tool-call arguments into typed parameter values and
// tool results back into JSON.
package codec

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/casualjim/toolloop/schema"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"
)

const validationResource = "arguments.json"

// Codec decodes the arguments of one tool and encodes its results.
type Codec struct {
	params    []schema.Parameter
	validator *santhosh.Schema
}

// Option configures a Codec.
type Option func(*Codec) error

// WithSchemaValidation validates raw arguments against the given schema before decoding.
// Violations are reported as *DecodeError.
func WithSchemaValidation(root *jsonschema.Schema) Option {
	return func(c *Codec) error {
		if root == nil {
			return nil
		}
		b, err := json.Marshal(root)
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		doc, err := santhosh.UnmarshalJSON(bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
		compiler := santhosh.NewCompiler()
		if err := compiler.AddResource(validationResource, doc); err != nil {
			return fmt.Errorf("add schema: %w", err)
		}
		sch, err := compiler.Compile(validationResource)
		if err != nil {
			return fmt.Errorf("compile schema: %w", err)
		}
		c.validator = sch
		return nil
	}
}

// New creates a codec for the parameter list. Every default must fit the type of its
// parameter (and be one of its enumeration cases), otherwise New fails.
func New(params []schema.Parameter, opts ...Option) (*Codec, error) {
	c := &Codec{params: slices.Clone(params)}
	for _, p := range c.params {
		if !p.HasDefault() {
			continue
		}
		v, err := defaultValue(p)
		if err == nil {
			err = checkEnum(p, v)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid default for %s: %w", p.Name, err)
		}
	}
	for _, apply := range opts {
		if err := apply(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Parameters returns the parameters the codec decodes, in declaration order.
func (c *Codec) Parameters() []schema.Parameter {
	return slices.Clone(c.params)
}

// Decode parses raw into one value per parameter.
//
// Parameters with a default are decoded when present and fall back to the default
// otherwise; an explicit null counts as absent. All other parameters must be present
// and well typed, null is accepted for nullable types only. An empty payload is
// treated as an empty object.
func (c *Codec) Decode(raw []byte) (Arguments, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if !gjson.ValidBytes(raw) {
		return Arguments{}, &DecodeError{Reason: "malformed JSON"}
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Arguments{}, &DecodeError{Reason: "arguments must be a JSON object"}
	}

	if c.validator != nil {
		if err := c.validate(raw); err != nil {
			return Arguments{}, err
		}
	}

	fields := doc.Map()
	args := Arguments{
		names:  make([]string, 0, len(c.params)),
		values: make([]reflect.Value, 0, len(c.params)),
	}
	for _, p := range c.params {
		v, err := decodeParameter(p, fields)
		if err != nil {
			return Arguments{}, err
		}
		args.names = append(args.names, p.Name)
		args.values = append(args.values, v)
	}
	return args, nil
}

func (c *Codec) validate(raw []byte) error {
	inst, err := santhosh.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &DecodeError{Reason: "malformed JSON", Err: err}
	}
	if err := c.validator.Validate(inst); err != nil {
		return &DecodeError{Reason: "schema validation failed", Err: err}
	}
	return nil
}

func decodeParameter(p schema.Parameter, fields map[string]gjson.Result) (reflect.Value, error) {
	field, present := fields[p.Name]
	if present && field.Type == gjson.Null && p.HasDefault() {
		present = false
	}

	if !present {
		if p.HasDefault() {
			return defaultValue(p)
		}
		return reflect.Value{}, &DecodeError{Field: p.Name, Reason: "required value is missing"}
	}

	if field.Type == gjson.Null {
		if !p.Nullable() {
			return reflect.Value{}, &DecodeError{Field: p.Name, Reason: "null is not allowed"}
		}
		return reflect.Zero(p.Type), nil
	}

	target := reflect.New(p.Type)
	if err := json.Unmarshal([]byte(field.Raw), target.Interface()); err != nil {
		return reflect.Value{}, &DecodeError{Field: p.Name, Reason: fmt.Sprintf("cannot decode into %s", p.Type), Err: err}
	}
	value := target.Elem()
	if err := checkEnum(p, value); err != nil {
		return reflect.Value{}, err
	}
	return value, nil
}

func defaultValue(p schema.Parameter) (reflect.Value, error) {
	dv := reflect.ValueOf(p.Default)
	switch {
	case dv.Type().AssignableTo(p.Type):
		out := reflect.New(p.Type).Elem()
		out.Set(dv)
		return out, nil
	case convertible(dv.Type(), p.Type):
		if !fits(dv, p.Type) {
			return reflect.Value{}, lossyDefault(p)
		}
		return dv.Convert(p.Type), nil
	case p.Type.Kind() == reflect.Pointer && convertible(dv.Type(), p.Type.Elem()):
		if !fits(dv, p.Type.Elem()) {
			return reflect.Value{}, lossyDefault(p)
		}
		ptr := reflect.New(p.Type.Elem())
		ptr.Elem().Set(dv.Convert(p.Type.Elem()))
		return ptr, nil
	}

	// last resort: round trip the default through JSON
	b, err := json.Marshal(p.Default)
	if err != nil {
		return reflect.Value{}, &DecodeError{Field: p.Name, Reason: "default value cannot be encoded", Err: err}
	}
	target := reflect.New(p.Type)
	if err := json.Unmarshal(b, target.Interface()); err != nil {
		return reflect.Value{}, &DecodeError{Field: p.Name, Reason: fmt.Sprintf("default value does not fit %s", p.Type), Err: err}
	}
	return target.Elem(), nil
}

func lossyDefault(p schema.Parameter) error {
	return &DecodeError{Field: p.Name, Reason: fmt.Sprintf("default value %v does not fit %s", p.Default, p.Type)}
}

// convertible excludes the integer to string conversion, which yields a rune.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() != reflect.String {
		return true
	}
	return !isSigned(from.Kind()) && !isUnsigned(from.Kind())
}

// fits reports whether converting the numeric value v to t keeps its value.
func fits(v reflect.Value, t reflect.Type) bool {
	z := reflect.Zero(t)
	switch from, to := v.Kind(), t.Kind(); {
	case isFloat(from) && isSigned(to):
		f := v.Float()
		return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !z.OverflowInt(int64(f))
	case isFloat(from) && isUnsigned(to):
		f := v.Float()
		return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !z.OverflowUint(uint64(f))
	case isFloat(from) && to == reflect.Float32:
		return !z.OverflowFloat(v.Float())
	case isSigned(from) && isSigned(to):
		return !z.OverflowInt(v.Int())
	case isSigned(from) && isUnsigned(to):
		return v.Int() >= 0 && !z.OverflowUint(uint64(v.Int()))
	case isUnsigned(from) && isSigned(to):
		return v.Uint() <= math.MaxInt64 && !z.OverflowInt(int64(v.Uint()))
	case isUnsigned(from) && isUnsigned(to):
		return !z.OverflowUint(v.Uint())
	}
	return true
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func checkEnum(p schema.Parameter, value reflect.Value) error {
	allowed, ok := schema.EnumLiterals(p.Type)
	if !ok {
		return nil
	}
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	lit, ok := schema.Literal(value.Interface())
	if !ok {
		return nil
	}
	if slices.Contains(allowed, lit) {
		return nil
	}
	return &DecodeError{Field: p.Name, Reason: fmt.Sprintf("%v is not one of %v", lit, allowed)}
}

// Encode serializes a tool result. It fails only when v cannot be represented as JSON.
func (c *Codec) Encode(v any) ([]byte, error) {
	return Encode(v)
}

// Encode serializes v as JSON, reporting failures as *EncodeError.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return b, nil
}
