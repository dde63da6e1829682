// Package groq implements the LLM backend against Groq's OpenAI-compatible
// chat completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"kitchenagent"
)

const (
	defaultBaseEndpoint = "https://api.groq.com"
	defaultModelID      = "llama-3.1-8b-instant"
	completionsPath     = "/openai/v1/chat/completions"
)

type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float32
	maxTokens   int32
	httpClient  kitchenagent.HTTPClient
}

type ClientOpts struct {
	BaseEndpoint string
	APIKey       string
	ModelID      string
	Temperature  float32
	MaxTokens    int32
	HTTPClient   kitchenagent.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	if opts.BaseEndpoint == "" {
		opts.BaseEndpoint = defaultBaseEndpoint
	}
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		endpoint:    opts.BaseEndpoint + completionsPath,
		apiKey:      opts.APIKey,
		model:       opts.ModelID,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		httpClient:  opts.HTTPClient,
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type wireResponse struct {
	Choices []struct {
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Invoke sends the messages to the Groq API and returns the assistant's text
// verbatim. Shaping decisions are delegated to the normalizer.
func (c *Client) Invoke(ctx context.Context, msgs []kitchenagent.ChatMessage) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(msgs))

	wireMsgs := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		wireMsgs = append(wireMsgs, wireMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := wireRequest{
		Model:       c.model,
		Messages:    wireMsgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      false,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("LLM_CLIENT: failed to decode response: %w", err)
	}
	if wr.Error != nil {
		return "", fmt.Errorf("LLM_CLIENT: API error: %s", wr.Error.Message)
	}
	if len(wr.Choices) == 0 {
		return "", fmt.Errorf("LLM_CLIENT: response contains no choices")
	}

	slog.Info("LLM_CLIENT: Response received",
		"content_length", len(wr.Choices[0].Message.Content),
		"finish_reason", wr.Choices[0].FinishReason,
	)

	return wr.Choices[0].Message.Content, nil
}
