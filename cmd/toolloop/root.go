package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/casualjim/toolloop/conversation"
	"github.com/casualjim/toolloop/internal/config"
	"github.com/casualjim/toolloop/internal/container"
	"github.com/casualjim/toolloop/internal/demotools"
	"github.com/casualjim/toolloop/internal/transcript"
	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/registry"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	model      string
	maxRounds  int
	parallel   int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:          "toolloop",
		Short:        "Let a language model call Go functions until it can answer",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if f.verbose {
			level.Set(slog.LevelDebug)
		}
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&f.model, "model", "m", "", "model to use, overrides the configuration")
	pf.IntVar(&f.maxRounds, "max-rounds", 0, "maximum number of model round trips per prompt")
	pf.IntVarP(&f.parallel, "parallel", "p", 0, "number of tool calls executed concurrently")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log every round and print the whole transcript")

	root.AddCommand(
		newAskCmd(&f),
		newChatCmd(&f),
		newToolsCmd(),
	)
	return root
}

// session is everything a command needs to hold a conversation.
type session struct {
	orchestrator *conversation.Orchestrator
	state        *conversation.State
	printer      *transcript.Printer
}

func (f *flags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.model != "" {
		cfg.Request.Model = f.model
	}
	if f.maxRounds > 0 {
		cfg.MaxRounds = f.maxRounds
	}
	if f.parallel > 0 {
		cfg.Parallelism = f.parallel
	}
	return cfg, cfg.Validate()
}

func (f *flags) open(w io.Writer, reg *registry.Registry) (*session, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	c, err := container.New(cfg, reg)
	if err != nil {
		return nil, err
	}
	return newSession(w, c, f.verbose), nil
}

func newSession(w io.Writer, c *container.Container, verbose bool) *session {
	printerOptions := []transcript.Option{transcript.WithOutputLimit(512)}
	if verbose {
		printerOptions = append(printerOptions, transcript.WithSystem())
	}
	if r, err := transcript.Markdown(); err == nil {
		printerOptions = append(printerOptions, transcript.WithRenderer(r))
	} else {
		slog.Warn("markdown rendering disabled", "error", err)
	}

	cfg := c.Config()
	var history []messages.Message
	if cfg.SystemPrompt != "" {
		history = append(history, messages.NewSystem(cfg.SystemPrompt))
	}

	return &session{
		orchestrator: c.Orchestrator(),
		state:        conversation.NewState(cfg.Request, history...),
		printer:      transcript.New(w, printerOptions...),
	}
}

func defaultRegistry() *registry.Registry {
	return demotools.Registry()
}
