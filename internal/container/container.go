// Package container wires the services of a toolloop session using go.uber.org/dig.
package container

import (
	"fmt"
	"log/slog"

	"go.uber.org/dig"

	"github.com/casualjim/toolloop/conversation"
	"github.com/casualjim/toolloop/internal/config"
	"github.com/casualjim/toolloop/provider"
	"github.com/casualjim/toolloop/provider/openai"
	"github.com/casualjim/toolloop/registry"
	"github.com/openai/openai-go/option"
)

// Container holds the resolved services. Callers use the typed getters and never
// need to import dig.
type Container struct {
	cfg          config.Config
	provider     provider.Provider
	registry     *registry.Registry
	orchestrator *conversation.Orchestrator
}

func (c *Container) Config() config.Config                    { return c.cfg }
func (c *Container) Provider() provider.Provider              { return c.provider }
func (c *Container) Registry() *registry.Registry             { return c.registry }
func (c *Container) Orchestrator() *conversation.Orchestrator { return c.orchestrator }

// New wires a session that talks to the OpenAI API described by cfg.
func New(cfg config.Config, reg *registry.Registry) (*Container, error) {
	return build(cfg, reg, newOpenAIProvider)
}

// WithProvider wires a session around an existing provider.
func WithProvider(cfg config.Config, reg *registry.Registry, p provider.Provider) (*Container, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}
	return build(cfg, reg, func() provider.Provider { return p })
}

func build(cfg config.Config, reg *registry.Registry, providerCtor any) (*Container, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}

	d := dig.New()

	if err := d.Provide(func() config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() *registry.Registry { return reg }); err != nil {
		return nil, err
	}
	if err := d.Provide(slog.Default); err != nil {
		return nil, err
	}
	if err := d.Provide(providerCtor); err != nil {
		return nil, err
	}
	if err := d.Provide(newOrchestrator); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		p provider.Provider,
		r *registry.Registry,
		o *conversation.Orchestrator,
	) {
		result = &Container{
			cfg:          cfg,
			provider:     p,
			registry:     r,
			orchestrator: o,
		}
	})
	return result, err
}

// newOpenAIProvider creates a client per config. The named models in provider/openai
// are cached by name and would carry over the key and base URL of an earlier config.
func newOpenAIProvider(cfg config.Config) provider.Provider {
	var opts []option.RequestOption
	if cfg.OpenAI.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.OpenAI.APIKey))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return openai.New(opts...)
}

func newOrchestrator(cfg config.Config, p provider.Provider, reg *registry.Registry, logger *slog.Logger) *conversation.Orchestrator {
	return conversation.New(p, reg,
		conversation.MaxRounds(cfg.MaxRounds),
		conversation.Parallelism(cfg.Parallelism),
		conversation.Logger(logger),
	)
}
