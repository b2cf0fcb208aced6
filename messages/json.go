package messages

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Unmarshal decodes a single message, using the "type" field to pick its concrete type.
func Unmarshal(data []byte) (Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	var m Message
	var err error
	switch kind := gjson.GetBytes(data, "type").String(); kind {
	case KindSystem:
		var v System
		err = v.UnmarshalJSON(data)
		m = v
	case KindUser:
		var v User
		err = v.UnmarshalJSON(data)
		m = v
	case KindAssistant:
		var v Assistant
		err = v.UnmarshalJSON(data)
		m = v
	case KindFunctionCallOutput:
		var v FunctionCallOutput
		err = v.UnmarshalJSON(data)
		m = v
	default:
		return nil, fmt.Errorf("unknown message type %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalList decodes a JSON array of messages.
func UnmarshalList(data []byte) ([]Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of messages")
	}

	items := doc.Array()
	result := make([]Message, 0, len(items))
	for i, item := range items {
		m, err := Unmarshal([]byte(item.Raw))
		if err != nil {
			return nil, fmt.Errorf("message at %d: %w", i, err)
		}
		result = append(result, m)
	}
	return result, nil
}

func (m System) MarshalJSON() ([]byte, error) {
	b := newBuilder(KindSystem)
	b.set("content", m.Content)
	b.timestamp(m.Timestamp)
	return b.bytes()
}

func (m *System) UnmarshalJSON(data []byte) error {
	doc, err := parse(data, KindSystem)
	if err != nil {
		return err
	}
	m.Content = doc.Get("content").String()
	m.Timestamp, err = timestamp(doc)
	return err
}

func (m User) MarshalJSON() ([]byte, error) {
	b := newBuilder(KindUser)
	b.set("content", m.Content)
	if m.Sender != "" {
		b.set("sender", m.Sender)
	}
	b.timestamp(m.Timestamp)
	return b.bytes()
}

func (m *User) UnmarshalJSON(data []byte) error {
	doc, err := parse(data, KindUser)
	if err != nil {
		return err
	}
	m.Content = doc.Get("content").String()
	m.Sender = doc.Get("sender").String()
	m.Timestamp, err = timestamp(doc)
	return err
}

func (m Assistant) MarshalJSON() ([]byte, error) {
	b := newBuilder(KindAssistant)
	if m.Content != "" {
		b.set("content", m.Content)
	}
	if m.Refusal != "" {
		b.set("refusal", m.Refusal)
	}
	if len(m.ToolCalls) > 0 {
		raw, err := json.Marshal(m.ToolCalls)
		if err != nil {
			return nil, err
		}
		b.setRaw("tool_calls", raw)
	}
	b.timestamp(m.Timestamp)
	return b.bytes()
}

func (m *Assistant) UnmarshalJSON(data []byte) error {
	doc, err := parse(data, KindAssistant)
	if err != nil {
		return err
	}
	m.Content = doc.Get("content").String()
	m.Refusal = doc.Get("refusal").String()
	m.ToolCalls = nil
	if calls := doc.Get("tool_calls"); calls.Exists() {
		if err := json.Unmarshal([]byte(calls.Raw), &m.ToolCalls); err != nil {
			return fmt.Errorf("invalid tool_calls: %w", err)
		}
	}
	m.Timestamp, err = timestamp(doc)
	return err
}

func (m FunctionCallOutput) MarshalJSON() ([]byte, error) {
	b := newBuilder(KindFunctionCallOutput)
	b.set("call_id", m.CallID)
	b.set("output", m.Output)
	b.timestamp(m.Timestamp)
	return b.bytes()
}

func (m *FunctionCallOutput) UnmarshalJSON(data []byte) error {
	doc, err := parse(data, KindFunctionCallOutput)
	if err != nil {
		return err
	}
	callID := doc.Get("call_id")
	if !callID.Exists() {
		return fmt.Errorf("missing required field 'call_id'")
	}
	m.CallID = callID.String()
	m.Output = doc.Get("output").String()
	m.Timestamp, err = timestamp(doc)
	return err
}

type builder struct {
	doc []byte
	err error
}

func newBuilder(kind string) *builder {
	b := &builder{doc: []byte(`{}`)}
	b.set("type", kind)
	return b
}

func (b *builder) set(path string, value any) {
	if b.err != nil {
		return
	}
	b.doc, b.err = sjson.SetBytes(b.doc, path, value)
}

func (b *builder) setRaw(path string, raw []byte) {
	if b.err != nil {
		return
	}
	b.doc, b.err = sjson.SetRawBytes(b.doc, path, raw)
}

func (b *builder) timestamp(ts strfmt.DateTime) {
	if time.Time(ts).IsZero() {
		return
	}
	b.set("timestamp", ts.String())
}

func (b *builder) bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.doc, nil
}

func parse(data []byte, kind string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("invalid json: %s", data)
	}
	doc := gjson.ParseBytes(data)
	if tpe := doc.Get("type"); !tpe.Exists() || tpe.String() != kind {
		return gjson.Result{}, fmt.Errorf("missing or invalid type, expected '%s'", kind)
	}
	return doc, nil
}

func timestamp(doc gjson.Result) (strfmt.DateTime, error) {
	ts := doc.Get("timestamp")
	if !ts.Exists() {
		return strfmt.DateTime{}, nil
	}
	dt, err := strfmt.ParseDateTime(ts.String())
	if err != nil {
		return strfmt.DateTime{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	return dt, nil
}
