package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"kitchenagent"
	"kitchenagent/agent"
	"kitchenagent/httpserver"
	"kitchenagent/imagesearch"
	"kitchenagent/llm/groq"
	"kitchenagent/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	var modelConfig kitchenagent.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var groqConfig kitchenagent.GroqConfig
	if err := envdecode.Decode(&groqConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var agentConfig kitchenagent.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var serverConfig kitchenagent.ServerConfig
	if err := envdecode.Decode(&serverConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	if serverConfig.DebugDump {
		kitchenagent.Dump(modelConfig, agentConfig, serverConfig)
	}

	llm, err := groq.NewClient(groq.ClientOpts{
		BaseEndpoint: groqConfig.BaseEndpoint,
		APIKey:       groqConfig.APIKey,
		ModelID:      modelConfig.ModelID,
		Temperature:  modelConfig.Temperature,
		MaxTokens:    modelConfig.MaxTokens,
		HTTPClient:   http.DefaultClient,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create LLM client", "error", err)
		return
	}

	images, err := imagesearch.NewClient(imagesearch.ClientOpts{
		BaseURL:    agentConfig.ImageSearchEndpoint,
		CacheSize:  agentConfig.ImageCacheSize,
		QPS:        agentConfig.ImageSearchQPS,
		HTTPClient: http.DefaultClient,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create image search client", "error", err)
		return
	}

	turnLogger, cleanup, err := newTurnLogger(agentConfig.TurnLogMode, modelConfig.ModelID)
	if err != nil {
		slog.Error("SETUP: Failed to create turn logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush turn log", "error", err)
		}
	}()

	_, _, otelShutdown, err := kitchenagent.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	orchestrator := agent.NewOrchestrator(llm, images, session.NewStore(), turnLogger)

	srv, err := httpserver.New(httpserver.Config{
		Addr:      serverConfig.Addr,
		Mode:      serverConfig.GinMode,
		StaticDir: serverConfig.StaticDir,
		Handler:   orchestrator,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create HTTP server", "error", err)
		return
	}

	slog.Info("SETUP: Kitchen agent ready", "model", modelConfig.ModelID, "addr", serverConfig.Addr)
	if err := srv.Run(ctx); err != nil {
		slog.Error("FAILURE: Server stopped", "error", err)
	}
}

func newTurnLogger(mode, modelID string) (kitchenagent.TurnLogger, func() error, error) {
	switch mode {
	case "file":
		logFilePath := kitchenagent.NewTurnLogFilePath(modelID)
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
		}
		logger := kitchenagent.NewFileTurnLogger(logFile)
		cleanup := func() error {
			return errors.Join(logger.Flush(), logFile.Close())
		}
		return logger, cleanup, nil

	case "none":
		return kitchenagent.NewNoOpTurnLogger(), func() error { return nil }, nil

	default:
		return kitchenagent.NewStdoutTurnLogger(), func() error { return nil }, nil
	}
}
