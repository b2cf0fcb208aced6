package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/provider"
)

type step func(ctx context.Context, req provider.Request) (*provider.Response, error)

// scriptedProvider replays one step per request, the last step repeats.
type scriptedProvider struct {
	mu       sync.Mutex
	steps    []step
	requests []provider.Request
}

func script(steps ...step) *scriptedProvider {
	return &scriptedProvider{steps: steps}
}

func (p *scriptedProvider) ChatCompletion(ctx context.Context, req provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	n := len(p.requests)
	p.requests = append(p.requests, req)
	var s step
	if n < len(p.steps) {
		s = p.steps[n]
	} else if len(p.steps) > 0 {
		s = p.steps[len(p.steps)-1]
	}
	p.mu.Unlock()

	if s == nil {
		return nil, fmt.Errorf("no scripted response for request %d", n)
	}
	return s(ctx, req)
}

func (p *scriptedProvider) Requests() []provider.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]provider.Request(nil), p.requests...)
}

func respond(resp *provider.Response) step {
	return func(context.Context, provider.Request) (*provider.Response, error) {
		return resp, nil
	}
}

func answer(text string) *provider.Response {
	return &provider.Response{
		ID:      "answer",
		Choices: []provider.Choice{{Message: messages.Assistant{Content: text}, FinishReason: "stop"}},
	}
}

func callTools(calls ...provider.ToolCall) *provider.Response {
	return &provider.Response{
		ID:      "calls",
		Choices: []provider.Choice{{Message: messages.Assistant{ToolCalls: calls}, FinishReason: "tool_calls"}},
	}
}

func call(id, name, arguments string) provider.ToolCall {
	return provider.ToolCall{ID: id, Name: name, Arguments: arguments}
}
