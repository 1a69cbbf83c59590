package providers

import (
	"context"
	"encoding/json"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vanity_gateway/internal/gateway"
	"vanity_gateway/internal/registry"
)

// openaiAdapter drives an OpenAI-compatible backend through the official
// SDK types instead of raw HTTP. The client is scoped to the descriptor's
// endpoint so two providers sharing the SDK never share a base URL.
type openaiAdapter struct {
	desc    registry.Descriptor
	client  *openai.Client
	timeout time.Duration
}

// NewOpenAIAdapter builds an SDK-backed adapter with an endpoint-scoped client.
func NewOpenAIAdapter(desc registry.Descriptor, cred Credential, timeout time.Duration) (Adapter, error) {
	if desc.Endpoint == "" {
		return nil, gateway.NewError(gateway.KindUnexpected, "openai provider %q has no endpoint", desc.Nickname)
	}
	cfg := openai.DefaultConfig(cred.Token)
	cfg.BaseURL = desc.Endpoint
	return &openaiAdapter{
		desc:    desc,
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}, nil
}

func (a *openaiAdapter) Kind() registry.Kind { return registry.KindOpenAI }

func (a *openaiAdapter) Send(ctx context.Context, req *gateway.ChatRequest) (*Result, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role, err := sdkRole(msg.Role)
		if err != nil {
			return nil, err
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	temperature := float32(req.FloatParam("temperature", DefaultTemperature))
	if temperature == 0 {
		// An explicit 0 would be dropped by the SDK's omitempty and the
		// upstream would apply its own default. The SDK's documented
		// workaround is the smallest positive float32.
		temperature = math.SmallestNonzeroFloat32
	}

	sdkReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: temperature,
	}
	if maxTokens := req.IntParam("max_tokens"); maxTokens > 0 {
		sdkReq.MaxTokens = maxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, sdkReq)
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUpstreamNetwork, err, "calling %q", a.desc.Nickname)
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	// Usage is passed through only when the upstream reported one; the SDK
	// decodes a missing usage object as the zero value.
	var usage json.RawMessage
	if resp.Usage != (openai.Usage{}) {
		usage, _ = json.Marshal(resp.Usage)
	}

	body, err := json.Marshal(gateway.NewChatResponse(req.Model, content, usage))
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUnexpected, err, "encoding reply from %q", a.desc.Nickname)
	}
	return &Result{StatusCode: 200, Body: body}, nil
}

func sdkRole(role string) (string, error) {
	switch role {
	case gateway.RoleSystem:
		return openai.ChatMessageRoleSystem, nil
	case gateway.RoleUser:
		return openai.ChatMessageRoleUser, nil
	case gateway.RoleAssistant:
		return openai.ChatMessageRoleAssistant, nil
	default:
		return "", gateway.NewError(gateway.KindInvalidRole, "unsupported message role %q", role)
	}
}
