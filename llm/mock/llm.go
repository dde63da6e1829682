// Package mock provides a deterministic LLM backend for tests and offline
// demo runs.
package mock

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode"

	"kitchenagent"
)

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// Invoke simulates a model reply from the latest user message alone. It is, of
// course, deterministic and only serves as a learning aid and a test double;
// real models may not be so kind :)
func (m *Client) Invoke(ctx context.Context, msgs []kitchenagent.ChatMessage) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(msgs))

	message := lastUserMessage(msgs)
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "recipe") || strings.Contains(lower, "cook"):
		reply := kitchenagent.AgentReply{
			Action:      kitchenagent.ActionGenerateRecipes,
			Message:     "Here are a couple of ideas based on your pantry.",
			RecipeNames: []string{"Pantry Pasta", "Kitchen Sink Frittata"},
		}
		return marshal(reply), nil

	case containsDigit(lower):
		reply := kitchenagent.AgentReply{
			Action:  kitchenagent.ActionAsk,
			Message: "Got it, added to your pantry. Anything else?",
			NewIngredients: []kitchenagent.Ingredient{
				{
					Name:     guessIngredient(lower),
					Quantity: firstNumericToken(lower),
					Expiry:   kitchenagent.Unknown,
				},
			},
		}
		return marshal(reply), nil

	default:
		reply := kitchenagent.AgentReply{
			Action:  kitchenagent.ActionAsk,
			Message: "Hi! Tell me what's in your pantry, how much of it you have, and when it expires.",
		}
		return marshal(reply), nil
	}
}

func marshal(reply kitchenagent.AgentReply) string {
	b, err := json.Marshal(reply)
	if err != nil {
		slog.Error("Failed to marshal mock reply", "error", err)
		return ""
	}
	return string(b)
}

func lastUserMessage(msgs []kitchenagent.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == kitchenagent.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// guessIngredient takes whatever follows "of " ("add 500g of pasta" -> "pasta"),
// or the last word when that pattern is absent.
func guessIngredient(s string) string {
	if _, after, ok := strings.Cut(s, " of "); ok {
		return strings.Trim(after, " .!?")
	}
	fields := strings.Fields(strings.Trim(s, " .!?"))
	if len(fields) == 0 {
		return kitchenagent.Unknown
	}
	return fields[len(fields)-1]
}

func firstNumericToken(s string) string {
	for _, f := range strings.Fields(s) {
		if containsDigit(f) {
			return f
		}
	}
	return kitchenagent.Unknown
}
