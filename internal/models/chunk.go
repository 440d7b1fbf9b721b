// ABOUTME: Chunk represents a bounded, ordered slice of a document's text
// ABOUTME: The unit of indexing for the RAG pipeline
package models

import "fmt"

// Chunk is one bounded piece of a document. Index is significant and
// contiguous from 0 within a document.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"chunk_index"`
	Text       string `json:"text"`
	Length     int    `json:"text_length"`
}

// ChunkID builds the stable record identifier for a chunk position.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
