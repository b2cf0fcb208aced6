package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/casualjim/toolloop/internal/config"
	"github.com/casualjim/toolloop/internal/container"
	"github.com/casualjim/toolloop/internal/demotools"
	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type replayProvider struct {
	mu        sync.Mutex
	responses []func() (*provider.Response, error)
	requests  int
}

func (p *replayProvider) ChatCompletion(context.Context, provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := min(p.requests, len(p.responses)-1)
	p.requests++
	return p.responses[i]()
}

func reply(resp *provider.Response) func() (*provider.Response, error) {
	return func() (*provider.Response, error) { return resp, nil }
}

func fail(err error) func() (*provider.Response, error) {
	return func() (*provider.Response, error) { return nil, err }
}

func answerResponse(text string) *provider.Response {
	return &provider.Response{Choices: []provider.Choice{{Message: messages.Assistant{Content: text}}}}
}

func weatherCallResponse() *provider.Response {
	return &provider.Response{Choices: []provider.Choice{{
		Message: messages.Assistant{ToolCalls: []messages.ToolCall{{
			ID:        "call_1",
			Name:      "get_weather",
			Arguments: `{"location":"Boston, MA","unit":"celsius"}`,
		}}},
	}}}
}

func testSession(t *testing.T, w *bytes.Buffer, p provider.Provider) *session {
	t.Helper()
	c, err := container.WithProvider(config.Default(), demotools.Registry(), p)
	require.NoError(t, err)
	return newSession(w, c, false)
}

func TestPrintTools(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTools(&buf, demotools.Registry()))

	doc := gjson.Parse(buf.String())
	require.True(t, doc.IsArray())
	assert.Equal(t, "get_weather", doc.Get("0.name").String())
	assert.Equal(t, "object", doc.Get("0.parameters.type").String())
	assert.Equal(t, []string{"celsius", "fahrenheit"}, stringsOf(doc.Get("0.parameters.properties.unit.enum")))
	assert.Equal(t, []string{"location"}, stringsOf(doc.Get("0.parameters.required")))
	assert.Equal(t, []string{"get_weather", "current_time", "add"}, stringsOf(doc.Get("#.name")))
}

func stringsOf(list gjson.Result) []string {
	var out []string
	for _, v := range list.Array() {
		out = append(out, v.String())
	}
	return out
}

func TestSession_Ask(t *testing.T) {
	var buf bytes.Buffer
	p := &replayProvider{responses: []func() (*provider.Response, error){
		reply(weatherCallResponse()),
		reply(answerResponse("It is 22 degrees in Boston.")),
	}}
	s := testSession(t, &buf, p)

	answer, err := s.ask(context.Background(), "What's the weather in Boston?", true)
	require.NoError(t, err)
	assert.Equal(t, "It is 22 degrees in Boston.", answer)

	out := buf.String()
	assert.Contains(t, out, "get_weather")
	assert.Contains(t, out, `"conditions":"sunny"`)
	assert.Contains(t, out, "It is 22 degrees in Boston.")
	assert.NotContains(t, out, "What's the weather in Boston?")

	// system, user, assistant with calls, output, answer
	assert.Equal(t, 5, s.state.Len())
}

func TestSession_REPL(t *testing.T) {
	var buf bytes.Buffer
	p := &replayProvider{responses: []func() (*provider.Response, error){
		fail(errors.New("upstream unavailable")),
		reply(answerResponse("hi there")),
	}}
	s := testSession(t, &buf, p)

	in := strings.NewReader("first\n\nsecond\nexit\nnever\n")
	require.NoError(t, s.repl(context.Background(), in, &buf))

	out := buf.String()
	assert.Contains(t, out, "upstream unavailable")
	assert.Contains(t, out, "hi there")
	assert.NotContains(t, out, "Exiting...")
	assert.Equal(t, 2, p.requests)
}

func TestSession_REPLEndOfInput(t *testing.T) {
	var buf bytes.Buffer
	s := testSession(t, &buf, &replayProvider{responses: []func() (*provider.Response, error){
		reply(answerResponse("ok")),
	}})

	require.NoError(t, s.repl(context.Background(), strings.NewReader(""), &buf))
	assert.Contains(t, buf.String(), "Exiting...")
}

func TestFlagsOverrideConfig(t *testing.T) {
	t.Setenv(config.EnvModel, "from-env")

	f := flags{model: "from-flag", maxRounds: 3, parallel: 2}
	cfg, err := f.load()
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Request.Model)
	assert.Equal(t, 3, cfg.MaxRounds)
	assert.Equal(t, 2, cfg.Parallelism)
}

func TestAskCommand(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b bytes.Buffer
		_, _ = b.ReadFrom(r.Body)

		mu.Lock()
		bodies = append(bodies, b.String())
		n := len(bodies)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			fmt.Fprint(w, `{"id":"1","object":"chat.completion","created":1715000000,"model":"m","choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":null,"tool_calls":[{"id":"call_1","type":"function","function":{"name":"add","arguments":"{\"x\":1,\"y\":2}"}}]}}]}`)
			return
		}
		fmt.Fprint(w, `{"id":"2","object":"chat.completion","created":1715000001,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"The sum is 3."}}]}`)
	}))
	t.Cleanup(server.Close)

	t.Setenv(config.EnvAPIKey, "test")
	t.Setenv(config.EnvBaseURL, server.URL+"/v1")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"ask", "What", "is", "1+2?"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "The sum is 3.\n", out.String())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Contains(t, gjson.Get(bodies[0], `messages.#(role=="user").content`).Raw, "What is 1+2?")
	toolMessage := gjson.Get(bodies[1], `messages.#(role=="tool")`)
	assert.Equal(t, "call_1", toolMessage.Get("tool_call_id").String())
	assert.Contains(t, toolMessage.Get("content").Raw, "3")
}

func TestAskCommand_InvalidConfig(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"ask", "--config", "/nonexistent/toolloop.yaml", "hi"})
	assert.Error(t, root.Execute())
}
