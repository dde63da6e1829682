package kitchenagent

import (
	"context"
	"net/http"
)

// Unknown is the sentinel used when the model reports an ingredient without a
// quantity or expiry. No parsing or validation of either field is attempted.
const Unknown = "unknown"

// Actions the model can signal in its reply.
const (
	ActionAsk             = "ask"
	ActionGenerateRecipes = "generate_recipes"
)

// Chat roles used when building prompts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LLMClient is the completion capability a backend must provide: one blocking
// call, no retries.
type LLMClient interface {
	Invoke(ctx context.Context, msgs []ChatMessage) (string, error)
}

// ImageLookup resolves a dish name to an illustrative image URL. Implementations
// must always return a non-empty URL and never fail.
type ImageLookup interface {
	Lookup(ctx context.Context, dish string) string
}

// TurnHandler handles one chat turn for a user.
type TurnHandler interface {
	HandleTurn(ctx context.Context, userID, message string) (TurnResult, error)
}

// ChatMessage is one role-tagged message in a model prompt or conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ingredient is a single tracked pantry item. Quantity and expiry are free text;
// duplicates by name are permitted.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Expiry   string `json:"expiry"`
}

// PantryState is the tracked inventory of one session plus the headcount to cook
// for (zero until the user states it).
type PantryState struct {
	Ingredients []Ingredient `json:"ingredients"`
	NumPeople   int          `json:"num_people,omitempty"`
}

// Recipe is a proposed dish with its resolved illustration.
type Recipe struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// AgentReply is the canonical structured shape expected from the model for one
// turn. The orchestrator applies its effects to the session and discards it.
type AgentReply struct {
	Action         string       `json:"action"`
	Message        string       `json:"message"`
	NewIngredients []Ingredient `json:"new_ingredients,omitempty"`
	RecipeNames    []string     `json:"recipe_names,omitempty"`
	NumPeople      int          `json:"num_people,omitempty"`
}

// TurnResult is what one handled turn yields: the normalized reply, recipes
// resolved with images, and a snapshot of the pantry after mutations applied.
type TurnResult struct {
	Reply     AgentReply   `json:"reply"`
	Recipes   []Recipe     `json:"recipes"`
	Inventory []Ingredient `json:"inventory"`
	NumPeople int          `json:"num_people,omitempty"`
}
