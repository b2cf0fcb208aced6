package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casualjim/toolloop/codec"
	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/pkg/slogx"
	"github.com/casualjim/toolloop/provider"
	"github.com/casualjim/toolloop/registry"
	"github.com/casualjim/toolloop/tool"
	"golang.org/x/sync/errgroup"
)

// Orchestrator drives a conversation: it asks the model for a reply, runs the tools
// the model asks for, feeds their outputs back and repeats until the model answers
// without tool calls.
//
// An Orchestrator holds no per conversation data and can serve many States at once.
type Orchestrator struct {
	provider    provider.Provider
	registry    *registry.Registry
	maxRounds   int
	parallelism int
	logger      *slog.Logger
}

// New creates an orchestrator that talks to p and dispatches tool calls to reg.
func New(p provider.Provider, reg *registry.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:    p,
		registry:    reg,
		maxRounds:   DefaultMaxRounds,
		parallelism: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(slogx.LoggerName("conversation"))
	return o
}

// dispatch is a resolved tool call.
type dispatch struct {
	call  provider.ToolCall
	entry tool.Entry
}

// Run sends the state to the model until it stops asking for tools and returns the
// final response.
//
// Every round the assistant message carrying the tool calls is appended to the state,
// followed by one messages.FunctionCallOutput per call, in call order. The answer of
// the final response is appended as well.
//
// A round fails as a whole: a call for an unregistered tool (or one without an
// executor) aborts it before any tool runs, and the first failing tool aborts the run.
// Errors are *UnknownFunctionCallError, *InvalidArgumentsError, *EncodingFailureError,
// *RoundLimitExceededError, ErrCanceled joined with the context error, or whatever the
// provider or the tool returned.
func (o *Orchestrator) Run(ctx context.Context, state *State) (*provider.Response, error) {
	log := o.logger.With(slogx.Stringer("conversation", state.ID()))

	for round := 1; ; round++ {
		if round > o.maxRounds {
			err := &RoundLimitExceededError{Limit: o.maxRounds}
			log.ErrorContext(ctx, "giving up on conversation", slogx.Error(err))
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		log.DebugContext(ctx, "requesting completion", slog.Int("round", round), slog.Int("messages", state.Len()))
		resp, err := o.provider.ChatCompletion(ctx, provider.Request{
			Messages: state.Messages(),
			Tools:    o.registry.Tools(),
			Options:  state.Options(),
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, canceled(ctxErr)
			}
			log.ErrorContext(ctx, "completion failed", slog.Int("round", round), slogx.Error(err))
			return nil, err
		}

		calls := resp.ToolCalls()
		if len(calls) == 0 {
			if answer, ok := finalAnswer(resp); ok {
				state.Append(answer)
			}
			log.DebugContext(ctx, "conversation done", slog.Int("rounds", round))
			return resp, nil
		}

		plan, err := o.resolve(calls)
		if err != nil {
			log.ErrorContext(ctx, "cannot dispatch tool calls", slog.Int("round", round), slogx.Error(err))
			return nil, err
		}

		outputs, err := o.execute(ctx, log, plan)
		if err != nil {
			return nil, err
		}
		if len(outputs) == 0 {
			return resp, nil
		}

		history := make([]messages.Message, 0, len(outputs)+1)
		history = append(history, messages.Assistant{
			Content:   assistantContent(resp),
			ToolCalls: calls,
			Timestamp: resp.Timestamp,
		})
		history = append(history, outputs...)
		state.Append(history...)
	}
}

// Ask appends prompt as a user message, runs the conversation and returns the text of
// the answer. The final response must hold exactly one choice with text content.
func (o *Orchestrator) Ask(ctx context.Context, state *State, prompt string) (string, error) {
	state.Append(messages.NewUser(prompt))

	resp, err := o.Run(ctx, state)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) != 1 {
		return "", &UnexpectedResponseError{Reason: "expected a single choice"}
	}
	msg := resp.Choices[0].Message
	if msg.Content == "" {
		if msg.Refusal != "" {
			return "", &UnexpectedResponseError{Reason: "the model refused: " + msg.Refusal}
		}
		return "", &UnexpectedResponseError{Reason: "expected text content"}
	}
	return msg.Content, nil
}

func (o *Orchestrator) resolve(calls []provider.ToolCall) ([]dispatch, error) {
	plan := make([]dispatch, len(calls))
	for i, call := range calls {
		entry, ok := o.registry.Lookup(call.Name)
		if !ok {
			return nil, &UnknownFunctionCallError{Name: call.Name, CallID: call.ID}
		}
		if entry.Executor == nil {
			return nil, fmt.Errorf("tool %s has no executor", call.Name)
		}
		plan[i] = dispatch{call: call, entry: entry}
	}
	return plan, nil
}

func (o *Orchestrator) execute(ctx context.Context, log *slog.Logger, plan []dispatch) ([]messages.Message, error) {
	outputs := make([]messages.Message, len(plan))

	if o.parallelism <= 1 || len(plan) == 1 {
		for i, d := range plan {
			out, err := o.invoke(ctx, log, d)
			if err != nil {
				return nil, err
			}
			outputs[i] = out
		}
		return outputs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, d := range plan {
		g.Go(func() error {
			out, err := o.invoke(gctx, log, d)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ErrCanceled) {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}
	return outputs, nil
}

func (o *Orchestrator) invoke(ctx context.Context, log *slog.Logger, d dispatch) (messages.Message, error) {
	name := d.entry.Name()
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	log.DebugContext(ctx, "calling tool", slogx.ToolCall(d.call.ID, name))
	start := time.Now()
	result, err := d.entry.Executor.Execute(ctx, []byte(d.call.Arguments))
	if err != nil {
		err = classify(ctx, d.call, name, err)
		log.ErrorContext(ctx, "tool call failed", slogx.ToolCall(d.call.ID, name), slogx.Error(err))
		return nil, err
	}
	log.DebugContext(ctx, "tool call done",
		slogx.ToolCall(d.call.ID, name),
		slog.Duration("elapsed", time.Since(start)),
		slogx.ByteString("output", result, 512),
	)
	return messages.NewFunctionCallOutput(d.call.ID, string(result)), nil
}

func classify(ctx context.Context, call provider.ToolCall, name string, err error) error {
	switch {
	case errors.Is(err, codec.ErrDecode):
		return &InvalidArgumentsError{Name: name, CallID: call.ID, Err: err}
	case errors.Is(err, codec.ErrEncode):
		return &EncodingFailureError{Name: name, CallID: call.ID, Err: err}
	case ctx.Err() != nil:
		return canceled(ctx.Err())
	default:
		return err
	}
}

func finalAnswer(resp *provider.Response) (messages.Assistant, bool) {
	if len(resp.Choices) == 0 {
		return messages.Assistant{}, false
	}
	msg := resp.Choices[0].Message
	if msg.Content == "" && msg.Refusal == "" {
		return messages.Assistant{}, false
	}
	if time.Time(msg.Timestamp).IsZero() {
		msg.Timestamp = resp.Timestamp
	}
	return msg, true
}

func assistantContent(resp *provider.Response) string {
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content
		}
	}
	return ""
}
