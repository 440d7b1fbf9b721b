// ABOUTME: Retriever orchestrates query embedding, filtered search, and context formatting
// ABOUTME: Always scopes retrieval to one user; caller filters layer on top
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartlearn/companion/internal/llm"
	"github.com/smartlearn/companion/internal/models"
)

// Defaults for the RAG retrieval path.
const (
	DefaultTopK          = 5
	DefaultThreshold     = 0.3
	DefaultContextBudget = 5000
	PreviewChars         = 200
)

// Searcher is the vector index surface the retriever consumes.
type Searcher interface {
	Search(queryVector []float64, topK int, filters map[string]any, threshold float64) ([]models.SearchResult, error)
}

// Retriever embeds queries and turns filtered search hits into a bounded
// context blob plus source citations.
type Retriever struct {
	searcher Searcher
	embedder llm.Embedder

	TopK          int
	Threshold     float64
	ContextBudget int
}

// New creates a Retriever with default parameters.
func New(searcher Searcher, embedder llm.Embedder) *Retriever {
	return &Retriever{
		searcher:      searcher,
		embedder:      embedder,
		TopK:          DefaultTopK,
		Threshold:     DefaultThreshold,
		ContextBudget: DefaultContextBudget,
	}
}

// Retrieve embeds the query and searches the index scoped to userID, merging
// caller filters on top. Returns an empty context when nothing matched; the
// caller decides the fallback. The context is always truncated to the budget
// before being handed to generation.
func (r *Retriever) Retrieve(ctx context.Context, query, userID string, filters map[string]any) (string, []models.SourceCitation, error) {
	results, err := r.Search(ctx, query, userID, r.TopK, filters, r.Threshold)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return "", nil, nil
	}

	var sections []string
	citations := make([]models.SourceCitation, 0, len(results))
	for _, res := range results {
		title := metaString(res.Metadata, "title")
		docID := metaString(res.Metadata, "document_id")
		if title == "" {
			title = docID
		}

		sections = append(sections, fmt.Sprintf("[Source: %s]\n%s", title, res.Text))
		citations = append(citations, models.SourceCitation{
			DocumentID:      docID,
			Title:           title,
			Preview:         preview(res.Text, PreviewChars),
			SimilarityScore: res.SimilarityScore,
			ChunkIndex:      metaInt(res.Metadata, "chunk_index"),
		})
	}

	contextText := strings.Join(sections, "\n\n")
	return truncate(contextText, r.ContextBudget), citations, nil
}

// Search embeds the query and runs a filtered index search with an explicit
// threshold. Document search passes 0.0 to see everything; the RAG path uses
// the retriever's nonzero default. The user scope is injected last so caller
// filters can never widen it.
func (r *Retriever) Search(ctx context.Context, query, userID string, topK int, filters map[string]any, threshold float64) ([]models.SearchResult, error) {
	vectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding query: no vector returned")
	}

	merged := make(map[string]any, len(filters)+1)
	for k, v := range filters {
		merged[k] = v
	}
	merged["user_id"] = userID

	return r.searcher.Search(vectors[0], topK, merged, threshold)
}

// preview bounds a chunk excerpt; full chunk text is never exposed in a
// citation.
func preview(text string, limit int) string {
	return truncate(text, limit)
}

// truncate cuts s to at most limit characters on a rune boundary.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

func metaInt(meta map[string]any, key string) int {
	switch n := meta[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
