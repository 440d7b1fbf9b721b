// ABOUTME: OpenAI embedding client for batch text-to-vector conversion
// ABOUTME: Order-preserving, fixed dimension, no retries - failures surface immediately
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is the default model for embeddings.
const DefaultEmbeddingModel = openai.SmallEmbedding3

// Embedder maps text to fixed-dimension vectors. Implementations must
// preserve input order and be pure functions of the text.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// UnavailableEmbedder stands in when no embedding credential is configured.
// Every call fails with the configuration error, so the dependency failure
// surfaces at the operation that needs embeddings, not at startup.
type UnavailableEmbedder struct {
	Err error
}

func (u UnavailableEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	return nil, u.Err
}

// EmbeddingClient generates embeddings through the OpenAI API.
type EmbeddingClient struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewEmbeddingClient creates an embedding client. model may be empty to use
// the default.
func NewEmbeddingClient(apiKey string, model openai.EmbeddingModel) (*EmbeddingClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for embeddings")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &EmbeddingClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// EmbedBatch embeds texts in a single API call and returns vectors in input
// order. Any failure is fatal to the calling operation; this client never
// retries.
func (c *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		// Convert []float32 to []float64
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
