// Package bedrock implements the LLM backend against the AWS Bedrock Converse
// API.
package bedrock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"kitchenagent"
)

const (
	// defaultModelID is the default model ID for Bedrock Claude.
	// It's an inference profile ID or ARN, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// Controls the maximum number of tokens the model can generate in one response.
	defaultMaxTokens = 1024

	// Low temperature keeps outputs more deterministic, which is better for JSON and structured outputs.
	defaultTemperature = 0.1

	// Low top_p keeps outputs more focused and less random.
	defaultTopP = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ClientOpts struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Client struct {
	brc  bedrockRuntimeClient
	opts ClientOpts
}

func NewClient(brc bedrockRuntimeClient, opts ClientOpts) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{
		brc:  brc,
		opts: opts,
	}
}

// Invoke sends the messages to Bedrock and returns the assistant's text.
// System messages are lifted into Converse's system block; the rest keep
// their roles.
func (c *Client) Invoke(ctx context.Context, msgs []kitchenagent.ChatMessage) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(msgs))

	var sys []types.SystemContentBlock
	for _, m := range msgs {
		if m.Role == kitchenagent.RoleSystem {
			sys = append(sys, &types.SystemContentBlockMemberText{Value: m.Content})
		}
	}

	var wire []types.Message
	for _, m := range msgs {
		if m.Role == kitchenagent.RoleSystem {
			continue // already handled above
		}
		wire = append(wire, types.Message{
			Role: types.ConversationRole(m.Role),
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: m.Content},
			},
		})
	}

	in := &bedrockruntime.ConverseInput{
		ModelId:  &c.opts.ModelID,
		System:   sys,
		Messages: wire,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("LLM_CLIENT: Bedrock invoke failed", "error", err)
		return "", err
	}

	slog.Info("LLM_CLIENT: Bedrock invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case "end_turn", "stop_sequence":
		return textFromOutput(out), nil

	case "max_tokens":
		slog.Warn("LLM_CLIENT: Model hit MaxTokens limit; consider increasing MaxTokens")
		return "", fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens")

	case "safety", "content_filtered":
		slog.Warn("LLM_CLIENT: Model response blocked by Bedrock safety filters")
		return "", fmt.Errorf("model response blocked by Bedrock safety filters")

	default:
		// Fallback if the model didn't specify a stop reason
		return textFromOutput(out), nil
	}
}

// textFromOutput joins the assistant's text blocks with newlines.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return ""
	}

	var text string
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			if text != "" {
				text += "\n"
			}
			text += t.Value
		}
	}
	return text
}
