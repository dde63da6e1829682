package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenagent"
)

type mockBedrockClient struct {
	output  *bedrockruntime.ConverseOutput
	err     error
	lastIn  *bedrockruntime.ConverseInput
}

func (m *mockBedrockClient) Converse(ctx context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.lastIn = in
	return m.output, m.err
}

func converseOutput(stopReason types.StopReason, text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		StopReason: stopReason,
		Metrics:    &types.ConverseMetrics{LatencyMs: aws.Int64(42)},
		Usage:      &types.TokenUsage{InputTokens: aws.Int32(10), OutputTokens: aws.Int32(5)},
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role: types.ConversationRoleAssistant,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: text},
				},
			},
		},
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&mockBedrockClient{}, ClientOpts{})
	assert.Equal(t, defaultModelID, c.opts.ModelID)
	assert.Equal(t, int32(defaultMaxTokens), c.opts.MaxTokens)
	assert.Equal(t, float32(defaultTemperature), c.opts.Temperature)
	assert.Equal(t, float32(defaultTopP), c.opts.TopP)
}

func TestClient_Invoke(t *testing.T) {
	msgs := []kitchenagent.ChatMessage{
		{Role: kitchenagent.RoleSystem, Content: "instructions"},
		{Role: kitchenagent.RoleUser, Content: "Add 500g of pasta"},
		{Role: kitchenagent.RoleSystem, Content: "Current pantry: {}"},
	}

	t.Run("end_turn returns text", func(t *testing.T) {
		mock := &mockBedrockClient{output: converseOutput(types.StopReasonEndTurn, `{"action":"ask","message":"Got it"}`)}
		c := NewClient(mock, ClientOpts{})

		got, err := c.Invoke(context.Background(), msgs)
		require.NoError(t, err)
		assert.Equal(t, `{"action":"ask","message":"Got it"}`, got)

		// Both system messages lifted into the system block, one user message left.
		require.NotNil(t, mock.lastIn)
		assert.Len(t, mock.lastIn.System, 2)
		assert.Len(t, mock.lastIn.Messages, 1)
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		mock := &mockBedrockClient{err: errors.New("throttled")}
		c := NewClient(mock, ClientOpts{})

		_, err := c.Invoke(context.Background(), msgs)
		require.Error(t, err)
	})

	t.Run("max_tokens is an error", func(t *testing.T) {
		mock := &mockBedrockClient{output: converseOutput(types.StopReasonMaxTokens, "truncat")}
		c := NewClient(mock, ClientOpts{})

		_, err := c.Invoke(context.Background(), msgs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MaxTokens")
	})
}
