package codec

import (
	"errors"
	"reflect"
	"testing"

	"github.com/casualjim/toolloop/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unit string

func (unit) EnumValues() []any { return []any{unit("celsius"), unit("fahrenheit")} }

type weather struct {
	Temperature float64 `json:"temperature"`
	Unit        unit    `json:"unit"`
}

func weatherParams() []schema.Parameter {
	return []schema.Parameter{
		{Name: "location", Type: reflect.TypeFor[string]()},
		{Name: "unit", Type: reflect.TypeFor[string](), Default: "celsius"},
	}
}

func TestCodec_Decode(t *testing.T) {
	c, err := New(weatherParams())
	require.NoError(t, err)

	t.Run("default applied when absent", func(t *testing.T) {
		args, err := c.Decode([]byte(`{"location":"Boston"}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"location": "Boston", "unit": "celsius"}, args.Map())
		assert.Equal(t, []string{"location", "unit"}, args.Names())
	})

	t.Run("present value wins over default", func(t *testing.T) {
		args, err := c.Decode([]byte(`{"location":"Boston","unit":"fahrenheit"}`))
		require.NoError(t, err)
		u, err := Arg[string](args, "unit")
		require.NoError(t, err)
		assert.Equal(t, "fahrenheit", u)
	})

	t.Run("null counts as absent for defaulted parameters", func(t *testing.T) {
		args, err := c.Decode([]byte(`{"location":"Boston","unit":null}`))
		require.NoError(t, err)
		u, _ := args.Get("unit")
		assert.Equal(t, "celsius", u)
	})

	t.Run("values are ordered for calls", func(t *testing.T) {
		args, err := c.Decode([]byte(`{"unit":"kelvin","location":"Oslo"}`))
		require.NoError(t, err)
		vals := args.Values()
		require.Len(t, vals, 2)
		assert.Equal(t, "Oslo", vals[0].String())
		assert.Equal(t, "kelvin", vals[1].String())
	})
}

func TestCodec_DecodeErrors(t *testing.T) {
	params := []schema.Parameter{
		{Name: "location", Type: reflect.TypeFor[string]()},
		{Name: "days", Type: reflect.TypeFor[int]()},
		{Name: "unit", Type: reflect.TypeFor[unit](), Default: unit("celsius")},
		{Name: "limit", Type: reflect.TypeFor[*int]()},
	}
	c, err := New(params)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "malformed", input: `{"location":`, field: ""},
		{name: "not an object", input: `["Boston"]`, field: ""},
		{name: "missing required", input: `{"days":1,"limit":null}`, field: "location"},
		{name: "type mismatch", input: `{"location":"Boston","days":"two","limit":null}`, field: "days"},
		{name: "fraction into integer", input: `{"location":"Boston","days":1.5,"limit":null}`, field: "days"},
		{name: "null for plain value", input: `{"location":null,"days":1,"limit":null}`, field: "location"},
		{name: "enum outside of cases", input: `{"location":"Boston","days":1,"unit":"kelvin","limit":null}`, field: "unit"},
		{name: "nullable without default is still strict", input: `{"location":"Boston","days":1}`, field: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode([]byte(tt.input))
			require.Error(t, err)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestCodec_DecodeNullable(t *testing.T) {
	c, err := New([]schema.Parameter{
		{Name: "limit", Type: reflect.TypeFor[*int]()},
		{Name: "offset", Type: reflect.TypeFor[*int](), Default: 5},
	})
	require.NoError(t, err)

	args, err := c.Decode([]byte(`{"limit":null}`))
	require.NoError(t, err)

	limit, err := Arg[*int](args, "limit")
	require.NoError(t, err)
	assert.Nil(t, limit)

	offset, err := Arg[*int](args, "offset")
	require.NoError(t, err)
	require.NotNil(t, offset)
	assert.Equal(t, 5, *offset)

	args, err = c.Decode([]byte(`{"limit":3}`))
	require.NoError(t, err)
	limit, err = Arg[*int](args, "limit")
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, 3, *limit)
}

func TestCodec_DecodeEmptyPayload(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	for _, raw := range []string{"", "  ", "{}"} {
		args, err := c.Decode([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, 0, args.Len())
	}
}

func TestCodec_DefaultConversions(t *testing.T) {
	c, err := New([]schema.Parameter{
		{Name: "unit", Type: reflect.TypeFor[unit](), Default: "fahrenheit"},
		{Name: "count", Type: reflect.TypeFor[int64](), Default: 3},
		{Name: "tags", Type: reflect.TypeFor[[]string](), Default: []any{"a", "b"}},
		{Name: "days", Type: reflect.TypeFor[int](), Default: 2.0},
	})
	require.NoError(t, err)

	args, err := c.Decode([]byte(`{}`))
	require.NoError(t, err)

	u, err := Arg[unit](args, "unit")
	require.NoError(t, err)
	assert.Equal(t, unit("fahrenheit"), u)

	count, err := Arg[int64](args, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	tags, err := Arg[[]string](args, "tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)

	days, err := Arg[int](args, "days")
	require.NoError(t, err)
	assert.Equal(t, 2, days)
}

func TestNew_InvalidDefaults(t *testing.T) {
	tests := []struct {
		name  string
		param schema.Parameter
	}{
		{name: "string for integer", param: schema.Parameter{Name: "n", Type: reflect.TypeFor[int](), Default: "three"}},
		{name: "fraction for integer", param: schema.Parameter{Name: "n", Type: reflect.TypeFor[int](), Default: 2.7}},
		{name: "fraction for integer pointer", param: schema.Parameter{Name: "n", Type: reflect.TypeFor[*int](), Default: 2.7}},
		{name: "negative for unsigned", param: schema.Parameter{Name: "n", Type: reflect.TypeFor[uint](), Default: -1}},
		{name: "overflow", param: schema.Parameter{Name: "n", Type: reflect.TypeFor[int8](), Default: 300}},
		{name: "enum outside of cases", param: schema.Parameter{Name: "unit", Type: reflect.TypeFor[unit](), Default: "kelvin"}},
		{name: "integer for string", param: schema.Parameter{Name: "s", Type: reflect.TypeFor[string](), Default: 65}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]schema.Parameter{tt.param})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid default for "+tt.param.Name)
		})
	}
}

func TestCodec_SchemaValidation(t *testing.T) {
	params := []schema.Parameter{
		{Name: "location", Type: reflect.TypeFor[string]()},
		{Name: "unit", Type: reflect.TypeFor[unit](), Default: unit("celsius")},
	}
	c, err := New(params, WithSchemaValidation(schema.ForParameters(params)))
	require.NoError(t, err)

	_, err = c.Decode([]byte(`{"location":"Boston","unit":"celsius"}`))
	require.NoError(t, err)

	_, err = c.Decode([]byte(`{"location":42}`))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "schema validation failed", de.Reason)

	_, err = c.Decode([]byte(`{"unit":"celsius"}`))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "schema validation failed", de.Reason)
}

func TestEncode(t *testing.T) {
	b, err := Encode(weather{Temperature: 23, Unit: "celsius"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"temperature":23,"unit":"celsius"}`, string(b))

	b, err = Encode("plain")
	require.NoError(t, err)
	assert.Equal(t, `"plain"`, string(b))

	_, err = Encode(make(chan int))
	require.Error(t, err)
	var ee *EncodeError
	assert.ErrorAs(t, err, &ee)
	assert.True(t, errors.Is(err, ErrEncode))
}

func TestCodec_RoundTrip(t *testing.T) {
	c, err := New([]schema.Parameter{
		{Name: "report", Type: reflect.TypeFor[weather]()},
	})
	require.NoError(t, err)

	want := weather{Temperature: 23, Unit: "celsius"}
	encoded, err := c.Encode(want)
	require.NoError(t, err)

	args, err := c.Decode([]byte(`{"report":` + string(encoded) + `}`))
	require.NoError(t, err)

	got, err := Arg[weather](args, "report")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
