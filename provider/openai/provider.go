package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/provider"
	"github.com/casualjim/toolloop/tool"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

var _ provider.Provider = (*Provider)(nil)

// Provider talks to the OpenAI chat completions API.
type Provider struct {
	client *openai.Client
}

// New creates a provider, the options configure the underlying client
// (API key, base URL, retries, ...).
func New(options ...option.RequestOption) *Provider {
	client := openai.NewClient(options...)
	return &Provider{
		client: client,
	}
}

// ChatCompletion sends the request and maps the completion back. API errors are
// returned as *openai.Error.
func (p *Provider) ChatCompletion(ctx context.Context, req provider.Request) (*provider.Response, error) {
	params, err := buildRequest(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	chat, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return completionToResponse(chat), nil
}

func buildRequest(req *provider.Request) (openai.ChatCompletionNewParams, error) {
	if strings.TrimSpace(req.Options.Model) == "" {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("model is required")
	}

	msgs, user, err := messagesToOpenAI(req.Messages)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, def := range req.Tools {
		tp, err := toolToOpenAI(def)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		tools[i] = tp
	}

	opts := req.Options
	params := openai.ChatCompletionNewParams{
		Messages: openai.F(msgs),
		Model:    openai.F(opts.Model),
	}
	if len(tools) > 0 {
		params.Tools = openai.F(tools)
		if opts.ParallelToolCalls != nil {
			params.ParallelToolCalls = openai.Bool(*opts.ParallelToolCalls)
		}
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.TopP != nil {
		params.TopP = openai.Float(*opts.TopP)
	}
	if opts.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(*opts.MaxTokens)
	}
	if opts.Seed != nil {
		params.Seed = openai.Int(*opts.Seed)
	}
	if strings.TrimSpace(opts.User) != "" {
		user = opts.User
	}
	if strings.TrimSpace(user) != "" {
		params.User = openai.String(user)
	}

	return params, nil
}

func toolToOpenAI(def tool.Definition) (openai.ChatCompletionToolParam, error) {
	if strings.TrimSpace(def.Name) == "" {
		return openai.ChatCompletionToolParam{}, fmt.Errorf("tool without a name")
	}

	parameters, err := functionParameters(def.Parameters)
	if err != nil {
		return openai.ChatCompletionToolParam{}, fmt.Errorf("failed to convert parameters of tool %s: %w", def.Name, err)
	}

	fn := openai.FunctionDefinitionParam{
		Name:       openai.String(def.Name),
		Parameters: openai.F(parameters),
	}
	if strings.TrimSpace(def.Description) != "" {
		fn.Description = openai.String(def.Description)
	}

	return openai.ChatCompletionToolParam{
		Type:     openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(fn),
	}, nil
}

// functionParameters turns a schema into the dynamic JSON object the client sends.
func functionParameters(s *jsonschema.Schema) (shared.FunctionParameters, error) {
	result := make(shared.FunctionParameters)
	if s == nil {
		result["type"] = "object"
		result["properties"] = map[string]any{}
		return result, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func messagesToOpenAI(history []messages.Message) ([]openai.ChatCompletionMessageParamUnion, string, error) {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	var user string
	for i, message := range history {
		switch msg := message.(type) {
		case messages.System:
			result = append(result, openai.SystemMessage(msg.Content))
		case messages.User:
			if msg.Sender != "" {
				user = msg.Sender
			}
			result = append(result, openai.UserMessageParts(openai.TextPart(msg.Content)))
		case messages.Assistant:
			if msg.HasToolCalls() {
				result = append(result, toolCallsToOpenAI(msg))
				continue
			}
			am := openai.ChatCompletionAssistantMessageParam{
				Role: openai.F(openai.ChatCompletionAssistantMessageParamRoleAssistant),
			}
			var parts []openai.ChatCompletionAssistantMessageParamContentUnion
			if msg.Content != "" {
				parts = append(parts, openai.TextPart(msg.Content))
			}
			if len(parts) > 0 {
				am.Content = openai.F(parts)
			}
			if msg.Refusal != "" {
				am.Refusal = openai.String(msg.Refusal)
			}
			result = append(result, am)
		case messages.FunctionCallOutput:
			result = append(result, openai.ToolMessage(msg.CallID, msg.Output))
		default:
			return nil, "", fmt.Errorf("message %d: unsupported message type %T", i, message)
		}
	}
	return result, user, nil
}

func toolCallsToOpenAI(msg messages.Assistant) openai.ChatCompletionMessageParam {
	tcd := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		tcd[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   openai.String(tc.ID),
			Type: openai.F(openai.ChatCompletionMessageToolCallTypeFunction),
			Function: openai.F(openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      openai.String(tc.Name),
				Arguments: openai.String(tc.Arguments),
			}),
		}
	}
	param := openai.ChatCompletionMessageParam{
		Role:      openai.F(openai.ChatCompletionMessageParamRoleAssistant),
		ToolCalls: openai.F[any](tcd),
	}
	if msg.Content != "" {
		param.Content = openai.F[any](msg.Content)
	}
	return param
}

func completionToResponse(chat *openai.ChatCompletion) *provider.Response {
	created := time.Now().UTC()
	if chat.Created > 0 {
		created = time.Unix(chat.Created, 0).UTC()
	}
	ts := strfmt.DateTime(created)

	resp := &provider.Response{
		ID:    chat.ID,
		Model: chat.Model,
		Usage: provider.Usage{
			PromptTokens:     chat.Usage.PromptTokens,
			CompletionTokens: chat.Usage.CompletionTokens,
			TotalTokens:      chat.Usage.TotalTokens,
		},
		Timestamp: ts,
		Choices:   make([]provider.Choice, len(chat.Choices)),
	}

	for i, choice := range chat.Choices {
		msg := messages.Assistant{
			Content:   choice.Message.Content,
			Refusal:   choice.Message.Refusal,
			Timestamp: ts,
		}
		if len(choice.Message.ToolCalls) > 0 {
			msg.ToolCalls = make([]messages.ToolCall, len(choice.Message.ToolCalls))
			for j, tc := range choice.Message.ToolCalls {
				msg.ToolCalls[j] = messages.ToolCall{
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				}
			}
		}
		resp.Choices[i] = provider.Choice{
			Index:        choice.Index,
			Message:      msg,
			FinishReason: string(choice.FinishReason),
		}
	}
	return resp
}
