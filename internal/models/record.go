// ABOUTME: Indexed record and search result types for the vector index
// ABOUTME: Records pair a chunk's text and embedding with exact-match metadata
package models

// Record is a stored chunk: its embedding vector, original text, and
// filterable metadata.
type Record struct {
	ChunkID  string         `json:"chunk_id"`
	Vector   []float64      `json:"vector"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// SearchResult is one hit from a similarity search. SimilarityScore is
// 1 - cosine distance; Distance is retained for diagnostics.
type SearchResult struct {
	ChunkID         string         `json:"chunk_id"`
	Text            string         `json:"text"`
	Metadata        map[string]any `json:"metadata"`
	SimilarityScore float64        `json:"similarity_score"`
	Distance        float64        `json:"distance"`
}

// StoredChunk is a record as returned by a by-document fetch, without the
// vector payload.
type StoredChunk struct {
	ChunkID  string         `json:"chunk_id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// SourceCitation points a chat answer back at the indexed material it was
// grounded on. Preview is a bounded excerpt, never the full chunk text.
type SourceCitation struct {
	DocumentID      string  `json:"document_id"`
	Title           string  `json:"title"`
	Preview         string  `json:"preview"`
	SimilarityScore float64 `json:"similarity_score"`
	ChunkIndex      int     `json:"chunk_index"`
}

// IndexStats summarizes a collection for observability.
type IndexStats struct {
	TotalRecords int    `json:"total_records"`
	Dimension    int    `json:"embedding_dimension"`
	Collection   string `json:"collection"`
}
