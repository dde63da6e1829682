package agent

import (
	"encoding/json"
	"log/slog"
	"strings"

	"kitchenagent"
)

// Normalize converts raw model output into a well-formed reply. The model is
// instructed to answer with a single JSON object but is only loosely bound to
// that, so the raw text is scanned greedily from the first '{' to the last '}'
// and that slice is parsed. On no match, invalid JSON, or a parsed object with
// no message, the fallback is an "ask" reply carrying the raw text verbatim.
// Normalize never fails; it is the sole defense against a noncompliant model.
//
// The greedy scan can misfire when the prose itself contains a brace-delimited
// substring. Accepted approximation.
func Normalize(raw string) kitchenagent.AgentReply {
	fallback := kitchenagent.AgentReply{
		Action:  kitchenagent.ActionAsk,
		Message: raw,
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return fallback
	}

	var reply kitchenagent.AgentReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		slog.Warn("NORMALIZER: Model output not valid JSON, falling back to raw text", "error", err)
		return fallback
	}

	if strings.TrimSpace(reply.Message) == "" {
		slog.Warn("NORMALIZER: Parsed object has no message, falling back to raw text")
		return fallback
	}

	if reply.Action != kitchenagent.ActionGenerateRecipes {
		reply.Action = kitchenagent.ActionAsk
	}

	reply.NewIngredients = sanitizeIngredients(reply.NewIngredients)

	return reply
}

// sanitizeIngredients drops entries with no name and defaults missing quantity
// and expiry to the unknown sentinel.
func sanitizeIngredients(ings []kitchenagent.Ingredient) []kitchenagent.Ingredient {
	if len(ings) == 0 {
		return nil
	}
	out := make([]kitchenagent.Ingredient, 0, len(ings))
	for _, ing := range ings {
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			continue
		}
		if strings.TrimSpace(ing.Quantity) == "" {
			ing.Quantity = kitchenagent.Unknown
		}
		if strings.TrimSpace(ing.Expiry) == "" {
			ing.Expiry = kitchenagent.Unknown
		}
		out = append(out, ing)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
