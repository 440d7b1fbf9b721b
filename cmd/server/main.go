// ABOUTME: Main entry point for the study companion MCP server on stdio
// ABOUTME: Constructs every component explicitly and wires the tool surface
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/smartlearn/companion/internal/charm"
	"github.com/smartlearn/companion/internal/chunker"
	"github.com/smartlearn/companion/internal/config"
	"github.com/smartlearn/companion/internal/engine"
	"github.com/smartlearn/companion/internal/index"
	"github.com/smartlearn/companion/internal/ingest"
	"github.com/smartlearn/companion/internal/llm"
	mcptools "github.com/smartlearn/companion/internal/mcp"
	"github.com/smartlearn/companion/internal/retriever"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if llm.IsPlaceholder(cfg.OpenAIKey) {
		log.Println("Warning: OPENAI_API_KEY not set - ingestion and search will fail until configured")
	}

	store, err := charm.NewStore(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDB,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer store.Close()

	var embedder llm.Embedder
	if client, err := llm.NewEmbeddingClient(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel)); err != nil {
		log.Printf("Embedding client unavailable: %v", err)
		embedder = llm.UnavailableEmbedder{Err: err}
	} else {
		embedder = client
	}

	idx := index.New(store, embedder, cfg.Collection)

	split := chunker.New(cfg.MaxChunkChars, cfg.ChunkOverlap, cfg.MinChunkChars)
	ingestSvc := ingest.New(split, idx)

	retr := retriever.New(idx, embedder)
	retr.TopK = cfg.TopK
	retr.Threshold = cfg.SimilarityThreshold
	retr.ContextBudget = cfg.ContextBudget

	generator, err := llm.Select([]llm.Candidate{
		{
			Name:   "openai",
			APIKey: cfg.OpenAIKey,
			New: func() (llm.Generator, error) {
				return llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.ChatModel), nil
			},
		},
		{
			Name:   "gemini",
			APIKey: cfg.GoogleKey,
			New: func() (llm.Generator, error) {
				return llm.NewGeminiProvider(cfg.GoogleKey, cfg.GeminiModel, cfg.GeminiBaseURL), nil
			},
		},
	})
	if err != nil {
		log.Printf("No generation backend configured - chat will return the configuration hint")
	} else {
		log.Printf("Using generation backend: %s", generator.Name())
	}

	eng := engine.New(generator, retr)
	eng.SetHistoryWindow(cfg.HistoryWindow)

	server := mcpserver.NewMCPServer(
		"Study Companion",
		"0.1.0",
	)
	mcptools.RegisterTools(server, ingestSvc, idx, retr, eng)

	log.Println("Study companion MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
