// Package config loads the settings of the toolloop binaries from a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/casualjim/toolloop/conversation"
	"github.com/casualjim/toolloop/provider"
	"gopkg.in/yaml.v3"
)

const (
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvBaseURL   = "OPENAI_BASE_URL"
	EnvModel     = "OPENAI_DEFAULT_MODEL"
	EnvMaxRounds = "TOOLLOOP_MAX_ROUNDS"

	DefaultModel = "gpt-4o-mini"
)

// Config holds everything needed to run a conversation from the command line.
type Config struct {
	OpenAI       OpenAI           `yaml:"openai"`
	SystemPrompt string           `yaml:"system_prompt"`
	MaxRounds    int              `yaml:"max_rounds"`
	Parallelism  int              `yaml:"parallelism"`
	Request      provider.Options `yaml:"request"`
}

// OpenAI configures the API client.
type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		SystemPrompt: "You are a helpful assistant. Use the tools you have when they help to answer.",
		MaxRounds:    conversation.DefaultMaxRounds,
		Parallelism:  1,
		Request:      provider.Options{Model: DefaultModel},
	}
}

// Load reads the configuration from path on top of the defaults and applies the
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.OpenAI.APIKey = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.OpenAI.BaseURL = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Request.Model = v
	}
	if v, ok := lookup(EnvMaxRounds); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxRounds, err)
		}
		c.MaxRounds = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Request.Model) == "" {
		errs = append(errs, errors.New("request.model is required"))
	}
	if c.MaxRounds < 1 {
		errs = append(errs, fmt.Errorf("max_rounds must be at least 1, got %d", c.MaxRounds))
	}
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	if t := c.Request.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, fmt.Errorf("request.temperature must be between 0 and 2, got %v", *t))
	}
	if p := c.Request.TopP; p != nil && (*p < 0 || *p > 1) {
		errs = append(errs, fmt.Errorf("request.top_p must be between 0 and 1, got %v", *p))
	}
	return errors.Join(errs...)
}
