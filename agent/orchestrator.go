// Package agent composes the chat turn: prompt assembly, model invocation,
// response normalization, session mutation, and recipe image resolution.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"kitchenagent"
	"kitchenagent/session"
)

// Orchestrator handles chat turns against an LLM backend and an image lookup.
type Orchestrator struct {
	llm      kitchenagent.LLMClient
	images   kitchenagent.ImageLookup
	sessions *session.Store
	logger   kitchenagent.TurnLogger
}

// NewOrchestrator initializes a new orchestrator.
func NewOrchestrator(llm kitchenagent.LLMClient, images kitchenagent.ImageLookup, sessions *session.Store, logger kitchenagent.TurnLogger) *Orchestrator {
	return &Orchestrator{
		llm:      llm,
		images:   images,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleTurn runs one conversation turn for a user. The model call is a single
// blocking call with no retry; a transport failure propagates to the caller.
// Everything downstream of it degrades instead of failing: malformed model
// output falls back to a raw-text "ask" reply, and image lookup always yields
// a URL.
func (o *Orchestrator) HandleTurn(ctx context.Context, userID, message string) (kitchenagent.TurnResult, error) {
	ctx, span := otel.Tracer(kitchenagent.TracerNameAgent).Start(ctx, "Orchestrator.HandleTurn")
	defer span.End()
	span.SetAttributes(attribute.String("chat.user_id", userID))

	turnLog := kitchenagent.TurnLog{UserID: userID, Timestamp: time.Now(), UserMessage: message}

	sess := o.sessions.GetOrCreate(userID)

	prompt := BuildPrompt(sess.History, message, sess.Pantry)
	slog.Info("ORCHESTRATOR: Sending prompt to LLM",
		"user_id", userID,
		"messages_count", len(prompt),
		"pantry_size", len(sess.Pantry.Ingredients),
	)

	raw, err := o.llm.Invoke(ctx, prompt)
	if err != nil {
		turnLog.Error = err.Error()
		o.logTurn(turnLog)
		return kitchenagent.TurnResult{}, fmt.Errorf("failed to invoke LLM: %w", err)
	}
	turnLog.RawOutput = raw

	reply := Normalize(raw)
	turnLog.Action = reply.Action
	turnLog.NewIngredients = len(reply.NewIngredients)

	sess.AddIngredients(reply.NewIngredients)
	if reply.NumPeople > 0 {
		sess.SetNumPeople(reply.NumPeople)
	}
	turnLog.NumPeople = sess.Pantry.NumPeople

	recipes := make([]kitchenagent.Recipe, 0)
	if reply.Action == kitchenagent.ActionGenerateRecipes {
		for _, name := range reply.RecipeNames {
			recipes = append(recipes, kitchenagent.Recipe{
				Name:     name,
				ImageURL: o.images.Lookup(ctx, name),
			})
		}
	}
	turnLog.RecipesCount = len(recipes)

	sess.Append(kitchenagent.RoleUser, message)
	sess.Append(kitchenagent.RoleAssistant, reply.Message)

	slog.Info("ORCHESTRATOR: Turn handled",
		"user_id", userID,
		"action", reply.Action,
		"new_ingredients", len(reply.NewIngredients),
		"recipes", len(recipes),
	)
	o.logTurn(turnLog)

	return kitchenagent.TurnResult{
		Reply:     reply,
		Recipes:   recipes,
		Inventory: sess.Inventory(),
		NumPeople: sess.Pantry.NumPeople,
	}, nil
}

// logTurn logs a turn using the configured logger, handling errors gracefully
func (o *Orchestrator) logTurn(turn kitchenagent.TurnLog) {
	if o.logger != nil {
		if err := o.logger.LogTurn(turn); err != nil {
			slog.Error("Failed to log chat turn", "error", err, "user_id", turn.UserID)
		}
	}
}
