// ABOUTME: Shared pipeline construction and helpers for CLI commands
// ABOUTME: Builds the charm store, index, retriever, and engine explicitly
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/smartlearn/companion/internal/charm"
	"github.com/smartlearn/companion/internal/chunker"
	"github.com/smartlearn/companion/internal/config"
	"github.com/smartlearn/companion/internal/engine"
	"github.com/smartlearn/companion/internal/index"
	"github.com/smartlearn/companion/internal/ingest"
	"github.com/smartlearn/companion/internal/llm"
	"github.com/smartlearn/companion/internal/retriever"
)

// pipeline bundles the explicitly constructed components a command needs.
type pipeline struct {
	store     *charm.Store
	index     *index.Index
	ingest    *ingest.Service
	retriever *retriever.Retriever
	engine    *engine.Engine
}

// newPipeline loads configuration and constructs the full stack. The caller
// must Close it.
func newPipeline() (*pipeline, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	store, err := charm.NewStore(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDB,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}

	var embedder llm.Embedder
	if client, err := llm.NewEmbeddingClient(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel)); err != nil {
		embedder = llm.UnavailableEmbedder{Err: err}
	} else {
		embedder = client
	}

	idx := index.New(store, embedder, cfg.Collection)
	retr := retriever.New(idx, embedder)
	retr.TopK = cfg.TopK
	retr.Threshold = cfg.SimilarityThreshold
	retr.ContextBudget = cfg.ContextBudget

	generator, _ := llm.Select([]llm.Candidate{
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

	eng := engine.New(generator, retr)
	eng.SetHistoryWindow(cfg.HistoryWindow)

	return &pipeline{
		store:     store,
		index:     idx,
		ingest:    ingest.New(chunker.New(cfg.MaxChunkChars, cfg.ChunkOverlap, cfg.MinChunkChars), idx),
		retriever: retr,
		engine:    eng,
	}, nil
}

// Close releases the record store.
func (p *pipeline) Close() {
	_ = p.store.Close()
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
