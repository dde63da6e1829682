package agent

import (
	"encoding/json"

	"kitchenagent"
)

// BuildPrompt assembles the full message list for one turn: the fixed system
// instructions, the entire prior history in order, the new user message, and a
// trailing system note carrying the current pantry snapshot for the model to
// read. The whole history is replayed every turn; there is no windowing.
func BuildPrompt(history []kitchenagent.ChatMessage, userMessage string, pantry kitchenagent.PantryState) []kitchenagent.ChatMessage {
	msgs := make([]kitchenagent.ChatMessage, 0, len(history)+3)
	msgs = append(msgs, kitchenagent.ChatMessage{
		Role:    kitchenagent.RoleSystem,
		Content: systemPrompt,
	})
	msgs = append(msgs, history...)
	msgs = append(msgs, kitchenagent.ChatMessage{
		Role:    kitchenagent.RoleUser,
		Content: userMessage,
	})
	msgs = append(msgs, kitchenagent.ChatMessage{
		Role:    kitchenagent.RoleSystem,
		Content: "Current pantry: " + pantrySnapshot(pantry),
	})
	return msgs
}

// pantrySnapshot serializes the pantry state as JSON text for the model.
func pantrySnapshot(pantry kitchenagent.PantryState) string {
	if pantry.Ingredients == nil {
		pantry.Ingredients = []kitchenagent.Ingredient{}
	}
	b, err := json.Marshal(pantry)
	if err != nil {
		return `{"ingredients":[]}`
	}
	return string(b)
}

const systemPrompt = `You are an expert kitchen assistant. Your job is to help the user manage their pantry and decide what to cook.

GOAL
Track the user's ingredients (name, quantity, expiry) and the number of people to cook for, then propose recipes once enough is known.

OUTPUT CONTRACT
- Your response must be ONE valid JSON object only (no extra text, no markdown, no code fences). Start with '{' and end with '}'.
- UTF-8, no trailing commas.
- Shape:
{
  "action": "ask" or "generate_recipes",
  "message": string,                                              // natural-language reply shown to the user
  "new_ingredients": [ { "name": string, "quantity": string, "expiry": string } ],
  "recipe_names": [ string ],
  "num_people": integer
}

RULES
- Identify any ingredients (name, quantity, expiry) mentioned in the user's message and report them in "new_ingredients". Use "unknown" when a quantity or expiry was not stated.
- If the user says how many people they are cooking for, report it in "num_people".
- Do not propose recipes until you know quantities, expiry dates, and the number of people. Until then use action "ask" and ask for what is missing.
- When you have enough information, use action "generate_recipes" and list dish names in "recipe_names".
- A system note at the end of the conversation shows the current pantry. Do not re-report ingredients already listed there unless the user changes them.

REMINDERS
- The final answer MUST be just the JSON object.
- Keep "message" friendly and conversational; it is the only text the user sees.`
