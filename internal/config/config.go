// ABOUTME: Centralized configuration for the study companion core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the RAG pipeline and its backends.
type Config struct {
	// Charm settings (vector index record store)
	CharmHost  string
	CharmDB    string
	AutoSync   bool
	Collection string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration

	// Gemini settings (OpenAI-compatible endpoint)
	GoogleKey     string
	GeminiModel   string
	GeminiBaseURL string

	// Chunking settings
	MaxChunkChars int
	ChunkOverlap  int
	MinChunkChars int

	// Retrieval settings
	TopK                int
	SimilarityThreshold float64
	ContextBudget       int
	HistoryWindow       int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		CharmHost:  getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDB:    getEnv("CHARM_DB", "companion"),
		AutoSync:   getEnvBool("CHARM_AUTO_SYNC", true),
		Collection: getEnv("INDEX_COLLECTION", "learning_documents"),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("COMPANION_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("COMPANION_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("COMPANION_LLM_TIMEOUT", 60*time.Second),

		GoogleKey:     os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:   getEnv("COMPANION_GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: getEnv("COMPANION_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),

		MaxChunkChars: getEnvInt("CHUNK_MAX_CHARS", 500),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 50),
		MinChunkChars: getEnvInt("CHUNK_MIN_CHARS", 50),

		TopK:                getEnvInt("RAG_TOP_K", 5),
		SimilarityThreshold: getEnvFloat("RAG_SIMILARITY_THRESHOLD", 0.3),
		ContextBudget:       getEnvInt("RAG_CONTEXT_BUDGET", 5000),
		HistoryWindow:       getEnvInt("CHAT_HISTORY_WINDOW", 10),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("RAG_SIMILARITY_THRESHOLD must be 0-1, got %f", c.SimilarityThreshold)
	}
	if c.MaxChunkChars <= 0 {
		return fmt.Errorf("CHUNK_MAX_CHARS must be positive, got %d", c.MaxChunkChars)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.MaxChunkChars {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_MAX_CHARS), got %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("RAG_TOP_K must be positive, got %d", c.TopK)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("RAG_CONTEXT_BUDGET must be positive, got %d", c.ContextBudget)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("CHAT_HISTORY_WINDOW must be non-negative, got %d", c.HistoryWindow)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
