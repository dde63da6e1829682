package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"

	"kitchenagent"
	"kitchenagent/agent"
	"kitchenagent/imagesearch"
	"kitchenagent/llm/bedrock"
	"kitchenagent/session"
)

type Params struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type Results struct {
	Message   string                    `json:"message"`
	Recipes   []kitchenagent.Recipe     `json:"recipes"`
	Inventory []kitchenagent.Ingredient `json:"inventory"`
	NumPeople int                       `json:"num_people,omitempty"`
}

func main() {
	ctx := context.Background()

	var modelConfig kitchenagent.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var agentConfig kitchenagent.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		log.Fatalf("SETUP: Failed to load AWS config: %s", err)
	}

	llm := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOpts{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	})

	images, err := imagesearch.NewClient(imagesearch.ClientOpts{
		BaseURL:    agentConfig.ImageSearchEndpoint,
		CacheSize:  agentConfig.ImageCacheSize,
		QPS:        agentConfig.ImageSearchQPS,
		HTTPClient: http.DefaultClient,
	})
	if err != nil {
		log.Fatalf("SETUP: Failed to create image search client: %s", err)
	}

	_, _, otelShutdown, err := kitchenagent.InitOtel(ctx)
	if err != nil {
		log.Fatalf("SETUP: Failed to initialize OpenTelemetry: %s", err)
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	// Sessions survive across warm invocations of the same execution
	// environment only; a cold start wipes them, mirroring the in-memory,
	// no-persistence contract.
	orchestrator := agent.NewOrchestrator(llm, images, session.NewStore(), kitchenagent.NewStdoutTurnLogger())

	fn := func(ctx context.Context, params Params) (Results, error) {
		result, err := orchestrator.HandleTurn(ctx, params.UserID, params.Message)
		if err != nil {
			slog.Error("RESULT: Error handling turn", "error", err)
			return Results{}, err
		}

		return Results{
			Message:   result.Reply.Message,
			Recipes:   result.Recipes,
			Inventory: result.Inventory,
			NumPeople: result.NumPeople,
		}, nil
	}

	lambda.Start(fn)
}
