package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenagent"
	"kitchenagent/session"
)

// stubLLM returns canned responses in order, or an error.
type stubLLM struct {
	responses []string
	err       error
	calls     int
	lastMsgs  []kitchenagent.ChatMessage
}

func (s *stubLLM) Invoke(ctx context.Context, msgs []kitchenagent.ChatMessage) (string, error) {
	s.lastMsgs = msgs
	if s.err != nil {
		return "", s.err
	}
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

// stubImages records lookups and always returns a fixed URL.
type stubImages struct {
	lookups []string
}

func (s *stubImages) Lookup(ctx context.Context, dish string) string {
	s.lookups = append(s.lookups, dish)
	return "https://img.example/" + dish
}

func newTestOrchestrator(llm kitchenagent.LLMClient) (*Orchestrator, *session.Store, *stubImages) {
	store := session.NewStore()
	images := &stubImages{}
	o := NewOrchestrator(llm, images, store, kitchenagent.NewNoOpTurnLogger())
	return o, store, images
}

func TestHandleTurn_IngredientExtraction(t *testing.T) {
	llm := &stubLLM{responses: []string{
		`{"action":"ask","message":"Got it, 500g of pasta. Anything else?","new_ingredients":[{"name":"pasta","quantity":"500g"}]}`,
	}}
	o, store, _ := newTestOrchestrator(llm)

	res, err := o.HandleTurn(context.Background(), "fresh-user", "Add 500g of pasta")
	require.NoError(t, err)

	found := false
	for _, ing := range res.Inventory {
		if strings.Contains(strings.ToLower(ing.Name), "pasta") {
			found = true
		}
	}
	assert.True(t, found, "inventory should contain pasta, got %v", res.Inventory)
	assert.Equal(t, kitchenagent.ActionAsk, res.Reply.Action)
	assert.Empty(t, res.Recipes)

	// Mutations landed in the session, and the history recorded both sides.
	sess := store.GetOrCreate("fresh-user")
	require.Len(t, sess.History, 2)
	assert.Equal(t, kitchenagent.ChatMessage{Role: kitchenagent.RoleUser, Content: "Add 500g of pasta"}, sess.History[0])
	assert.Equal(t, kitchenagent.RoleAssistant, sess.History[1].Role)
}

func TestHandleTurn_GreetingLeavesInventoryUnchanged(t *testing.T) {
	llm := &stubLLM{responses: []string{
		`{"action":"ask","message":"Hello! What's in your pantry?"}`,
	}}
	o, store, _ := newTestOrchestrator(llm)

	before := store.GetOrCreate("greeter").Inventory()

	res, err := o.HandleTurn(context.Background(), "greeter", "Hi, who are you?")
	require.NoError(t, err)

	assert.Equal(t, kitchenagent.ActionAsk, res.Reply.Action)
	assert.Equal(t, before, res.Inventory)
	assert.Empty(t, res.Inventory)
}

func TestHandleTurn_RecipesGetImages(t *testing.T) {
	llm := &stubLLM{responses: []string{
		`{"action":"generate_recipes","message":"Try these!","recipe_names":["Carbonara","Frittata"]}`,
	}}
	o, _, images := newTestOrchestrator(llm)

	res, err := o.HandleTurn(context.Background(), "cook", "what can I make?")
	require.NoError(t, err)

	require.Len(t, res.Recipes, 2)
	assert.Equal(t, kitchenagent.Recipe{Name: "Carbonara", ImageURL: "https://img.example/Carbonara"}, res.Recipes[0])
	assert.Equal(t, kitchenagent.Recipe{Name: "Frittata", ImageURL: "https://img.example/Frittata"}, res.Recipes[1])
	assert.Equal(t, []string{"Carbonara", "Frittata"}, images.lookups)
}

func TestHandleTurn_NoImageLookupWithoutProposal(t *testing.T) {
	// Recipe names without the generate_recipes action must not trigger lookups.
	llm := &stubLLM{responses: []string{
		`{"action":"ask","message":"Not yet.","recipe_names":["Carbonara"]}`,
	}}
	o, _, images := newTestOrchestrator(llm)

	res, err := o.HandleTurn(context.Background(), "cook", "recipes?")
	require.NoError(t, err)
	assert.Empty(t, res.Recipes)
	assert.Empty(t, images.lookups)
}

func TestHandleTurn_HeadcountOverwrite(t *testing.T) {
	llm := &stubLLM{responses: []string{
		`{"action":"ask","message":"Cooking for 2, noted.","num_people":2}`,
		`{"action":"ask","message":"Updated to 4.","num_people":4}`,
		`{"action":"ask","message":"Anything else?"}`,
	}}
	o, _, _ := newTestOrchestrator(llm)

	res, err := o.HandleTurn(context.Background(), "host", "we are 2")
	require.NoError(t, err)
	assert.Equal(t, 2, res.NumPeople)

	res, err = o.HandleTurn(context.Background(), "host", "actually 4")
	require.NoError(t, err)
	assert.Equal(t, 4, res.NumPeople)

	// Absent headcount leaves the stored value in place.
	res, err = o.HandleTurn(context.Background(), "host", "nothing")
	require.NoError(t, err)
	assert.Equal(t, 4, res.NumPeople)
}

func TestHandleTurn_HistoryReplayedOnNextTurn(t *testing.T) {
	llm := &stubLLM{responses: []string{
		`{"action":"ask","message":"first reply"}`,
		`{"action":"ask","message":"second reply"}`,
	}}
	o, _, _ := newTestOrchestrator(llm)

	_, err := o.HandleTurn(context.Background(), "u", "one")
	require.NoError(t, err)
	_, err = o.HandleTurn(context.Background(), "u", "two")
	require.NoError(t, err)

	// Second prompt: system + 2 history turns + new user message + snapshot.
	require.Len(t, llm.lastMsgs, 5)
	assert.Equal(t, "one", llm.lastMsgs[1].Content)
	assert.Equal(t, "first reply", llm.lastMsgs[2].Content)
	assert.Equal(t, "two", llm.lastMsgs[3].Content)
}

func TestHandleTurn_MalformedOutputFallsBack(t *testing.T) {
	llm := &stubLLM{responses: []string{"I am not JSON at all"}}
	o, store, _ := newTestOrchestrator(llm)

	res, err := o.HandleTurn(context.Background(), "u", "hello")
	require.NoError(t, err)

	assert.Equal(t, kitchenagent.ActionAsk, res.Reply.Action)
	assert.Equal(t, "I am not JSON at all", res.Reply.Message)
	assert.Empty(t, res.Inventory)

	// The fallback reply still lands in the history.
	sess := store.GetOrCreate("u")
	require.Len(t, sess.History, 2)
	assert.Equal(t, "I am not JSON at all", sess.History[1].Content)
}

func TestHandleTurn_LLMFailurePropagates(t *testing.T) {
	llm := &stubLLM{err: errors.New("connection refused")}
	o, store, _ := newTestOrchestrator(llm)

	_, err := o.HandleTurn(context.Background(), "u", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to invoke LLM")

	// A failed turn must not pollute the history.
	assert.Empty(t, store.GetOrCreate("u").History)
}
