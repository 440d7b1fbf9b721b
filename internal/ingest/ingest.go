// ABOUTME: Ingestion service: chunk raw text and write it to the vector index
// ABOUTME: Reprocessing is wholesale delete-then-reinsert, never a partial patch
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartlearn/companion/internal/chunker"
)

// Indexer is the vector index surface ingestion consumes.
type Indexer interface {
	Add(ctx context.Context, documentID string, chunks []string, metadata map[string]any) (int, error)
	Delete(documentID string) (bool, error)
}

// Service turns raw document text into indexed chunks.
type Service struct {
	chunker *chunker.Chunker
	index   Indexer
}

// New creates an ingestion service.
func New(c *chunker.Chunker, index Indexer) *Service {
	return &Service{chunker: c, index: index}
}

// Ingest chunks rawText and writes the chunks under documentID. Returns the
// number of records written.
func (s *Service) Ingest(ctx context.Context, documentID, rawText string, metadata map[string]any) (int, error) {
	chunks := s.chunker.Split(rawText)
	count, err := s.index.Add(ctx, documentID, chunks, metadata)
	if err != nil {
		return count, fmt.Errorf("ingesting %s: %w", documentID, err)
	}
	return count, nil
}

// Reprocess deletes every existing record for the document, then re-ingests.
// Not transactional: a crash between delete and add leaves the document with
// zero indexed chunks until reprocessing is retried.
func (s *Service) Reprocess(ctx context.Context, documentID, rawText string, metadata map[string]any) (int, error) {
	if _, err := s.index.Delete(documentID); err != nil {
		return 0, fmt.Errorf("clearing %s before reprocess: %w", documentID, err)
	}
	return s.Ingest(ctx, documentID, rawText, metadata)
}

// DeleteIndex removes a document's records. Returns false when the document
// had none; that is a no-op, not a failure.
func (s *Service) DeleteIndex(documentID string) (bool, error) {
	return s.index.Delete(documentID)
}

// NewDocumentID generates a unique document identifier.
func NewDocumentID() string {
	return fmt.Sprintf("doc_%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
