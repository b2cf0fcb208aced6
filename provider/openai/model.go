package openai

import (
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/toolloop/provider"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var modelRegistry = haxmap.New[string, *Model]()

// Model binds a model name to a lazily created Provider. Models are cached by name,
// the request options of the first call for a name win.
type Model struct {
	name string
	opts []option.RequestOption

	prov     *Provider
	provOnce sync.Once
}

func GPT4oMini(opts ...option.RequestOption) *Model {
	return NewModel(openai.ChatModelGPT4oMini, opts...)
}

func GPT4o(opts ...option.RequestOption) *Model {
	return NewModel(openai.ChatModelGPT4o, opts...)
}

func O1Mini(opts ...option.RequestOption) *Model {
	return NewModel(openai.ChatModelO1Mini, opts...)
}

// NewModel returns the cached model for name, creating it on first use.
func NewModel(name string, opts ...option.RequestOption) *Model {
	m, _ := modelRegistry.GetOrCompute(name, func() *Model {
		return &Model{
			name: name,
			opts: opts,
		}
	})
	return m
}

// Name returns the model name sent with every request.
func (m *Model) Name() string {
	return m.name
}

// Provider returns the provider for this model, created on first use.
func (m *Model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		m.prov = New(m.opts...)
	})
	return m.prov
}

// Options returns request options that select this model.
func (m *Model) Options() provider.Options {
	return provider.Options{Model: m.name}
}
