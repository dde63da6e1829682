package mock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenagent"
)

func invoke(t *testing.T, message string) kitchenagent.AgentReply {
	t.Helper()
	raw, err := NewClient().Invoke(context.Background(), []kitchenagent.ChatMessage{
		{Role: kitchenagent.RoleSystem, Content: "instructions"},
		{Role: kitchenagent.RoleUser, Content: message},
		{Role: kitchenagent.RoleSystem, Content: "Current pantry: {}"},
	})
	require.NoError(t, err)

	var reply kitchenagent.AgentReply
	require.NoError(t, json.Unmarshal([]byte(raw), &reply))
	return reply
}

func TestClient_Invoke(t *testing.T) {
	t.Run("ingredient message yields new_ingredients", func(t *testing.T) {
		reply := invoke(t, "Add 500g of pasta")
		assert.Equal(t, kitchenagent.ActionAsk, reply.Action)
		require.Len(t, reply.NewIngredients, 1)
		assert.Equal(t, "pasta", reply.NewIngredients[0].Name)
		assert.Equal(t, "500g", reply.NewIngredients[0].Quantity)
	})

	t.Run("recipe request yields proposals", func(t *testing.T) {
		reply := invoke(t, "what recipes can I make?")
		assert.Equal(t, kitchenagent.ActionGenerateRecipes, reply.Action)
		assert.NotEmpty(t, reply.RecipeNames)
	})

	t.Run("greeting yields ask", func(t *testing.T) {
		reply := invoke(t, "Hi, who are you?")
		assert.Equal(t, kitchenagent.ActionAsk, reply.Action)
		assert.Empty(t, reply.NewIngredients)
		assert.Empty(t, reply.RecipeNames)
	})
}
