package providers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"vanity_gateway/internal/gateway"
	"vanity_gateway/internal/registry"
)

// bedrockAdapter invokes a model through the Bedrock Converse API. System
// messages move into the dedicated system block; user and assistant turns
// keep their order in the conversation.
type bedrockAdapter struct {
	desc    registry.Descriptor
	creds   aws.Credentials
	timeout time.Duration
}

// NewBedrockAdapter builds a cloud invocation adapter holding the static
// key pair loaded from the descriptor's credential profile bundle.
func NewBedrockAdapter(desc registry.Descriptor, cred Credential, timeout time.Duration) (Adapter, error) {
	if cred.AWS.AccessKeyID == "" || cred.AWS.SecretAccessKey == "" {
		return nil, gateway.NewError(gateway.KindCredentialLoad, "bedrock provider %q has an incomplete key pair", desc.Nickname)
	}
	return &bedrockAdapter{
		desc:    desc,
		creds:   cred.AWS,
		timeout: timeout,
	}, nil
}

func (a *bedrockAdapter) Kind() registry.Kind { return registry.KindBedrock }

func (a *bedrockAdapter) Send(ctx context.Context, req *gateway.ChatRequest) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	region := a.desc.Region
	if region == "" {
		region = registry.DefaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.creds.AccessKeyID, a.creds.SecretAccessKey, a.creds.SessionToken)),
	)
	if err != nil {
		return nil, gateway.WrapError(gateway.KindCredentialLoad, err, "configuring client for %q", a.desc.Nickname)
	}
	client := bedrockruntime.NewFromConfig(cfg)

	input, err := a.converseInput(req)
	if err != nil {
		return nil, err
	}

	out, err := client.Converse(ctx, input)
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUpstreamNetwork, err, "invoking %q", a.desc.Nickname)
	}

	content, err := converseText(out, a.desc.Nickname)
	if err != nil {
		return nil, err
	}
	usage := converseUsage(out.Usage)

	body, err := json.Marshal(gateway.NewChatResponse(req.Model, content, usage))
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUnexpected, err, "encoding reply from %q", a.desc.Nickname)
	}
	return &Result{StatusCode: 200, Body: body}, nil
}

func (a *bedrockAdapter) converseInput(req *gateway.ChatRequest) (*bedrockruntime.ConverseInput, error) {
	var system []types.SystemContentBlock
	var turns []types.Message

	for _, msg := range req.Messages {
		switch msg.Role {
		case gateway.RoleSystem:
			system = append(system, &types.SystemContentBlockMemberText{Value: msg.Content})
		case gateway.RoleUser, gateway.RoleAssistant:
			role := types.ConversationRoleUser
			if msg.Role == gateway.RoleAssistant {
				role = types.ConversationRoleAssistant
			}
			turns = append(turns, types.Message{
				Role:    role,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
			})
		default:
			return nil, gateway.NewError(gateway.KindInvalidRole, "unsupported message role %q", msg.Role)
		}
	}

	inference := &types.InferenceConfiguration{
		Temperature: aws.Float32(float32(req.FloatParam("temperature", DefaultTemperature))),
	}
	if maxTokens := req.IntParam("max_tokens"); maxTokens > 0 {
		inference.MaxTokens = aws.Int32(int32(maxTokens))
	}

	return &bedrockruntime.ConverseInput{
		ModelId:         aws.String(req.Model),
		Messages:        turns,
		System:          system,
		InferenceConfig: inference,
	}, nil
}

func converseText(out *bedrockruntime.ConverseOutput, nickname string) (string, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", gateway.NewError(gateway.KindUpstreamNetwork, "provider %q returned no message output", nickname)
	}
	var parts []string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	return strings.Join(parts, ""), nil
}

func converseUsage(usage *types.TokenUsage) json.RawMessage {
	if usage == nil {
		return nil
	}
	raw, err := json.Marshal(map[string]any{
		"input_tokens":  aws.ToInt32(usage.InputTokens),
		"output_tokens": aws.ToInt32(usage.OutputTokens),
		"total_tokens":  aws.ToInt32(usage.TotalTokens),
	})
	if err != nil {
		return nil
	}
	return raw
}
