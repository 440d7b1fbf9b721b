// ABOUTME: Tests for the ingestion service and document ID generation
// ABOUTME: Uses a fake Indexer recording the call sequence
package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/smartlearn/companion/internal/chunker"
)

type fakeIndexer struct {
	calls     []string
	gotChunks []string
	gotMeta   map[string]any
	addErr    error
	deleteErr error
	deleted   bool
}

func (f *fakeIndexer) Add(ctx context.Context, documentID string, chunks []string, metadata map[string]any) (int, error) {
	f.calls = append(f.calls, "add:"+documentID)
	f.gotChunks = chunks
	f.gotMeta = metadata
	if f.addErr != nil {
		return 0, f.addErr
	}
	return len(chunks), nil
}

func (f *fakeIndexer) Delete(documentID string) (bool, error) {
	f.calls = append(f.calls, "delete:"+documentID)
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	return f.deleted, nil
}

func newService(ix *fakeIndexer) *Service {
	return New(chunker.New(100, 10, 5), ix)
}

func TestIngest(t *testing.T) {
	ix := &fakeIndexer{}
	s := newService(ix)

	meta := map[string]any{"user_id": "u1", "title": "Notes"}
	count, err := s.Ingest(context.Background(), "doc1", "Some study notes about cells.", meta)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if len(ix.calls) != 1 || ix.calls[0] != "add:doc1" {
		t.Errorf("calls = %v", ix.calls)
	}
	if ix.gotMeta["title"] != "Notes" {
		t.Errorf("metadata lost: %v", ix.gotMeta)
	}
}

func TestIngest_IndexFailurePropagates(t *testing.T) {
	ix := &fakeIndexer{addErr: fmt.Errorf("store down")}
	s := newService(ix)

	if _, err := s.Ingest(context.Background(), "doc1", "text", nil); err == nil {
		t.Error("Ingest() should propagate index failures")
	}
}

func TestReprocess_DeletesBeforeAdding(t *testing.T) {
	ix := &fakeIndexer{deleted: true}
	s := newService(ix)

	count, err := s.Reprocess(context.Background(), "doc1", "Updated notes about cells.", nil)
	if err != nil {
		t.Fatalf("Reprocess() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	want := []string{"delete:doc1", "add:doc1"}
	if len(ix.calls) != 2 || ix.calls[0] != want[0] || ix.calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", ix.calls, want)
	}
}

func TestReprocess_NewDocumentIsFine(t *testing.T) {
	// Delete returning false (nothing existed) must not stop ingestion.
	ix := &fakeIndexer{deleted: false}
	s := newService(ix)

	count, err := s.Reprocess(context.Background(), "new-doc", "Fresh content here.", nil)
	if err != nil {
		t.Fatalf("Reprocess() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestReprocess_DeleteFailureStopsIngestion(t *testing.T) {
	ix := &fakeIndexer{deleteErr: fmt.Errorf("store down")}
	s := newService(ix)

	if _, err := s.Reprocess(context.Background(), "doc1", "text", nil); err == nil {
		t.Error("Reprocess() should fail when the delete fails")
	}
	for _, call := range ix.calls {
		if strings.HasPrefix(call, "add:") {
			t.Error("Reprocess() must not add after a failed delete")
		}
	}
}

func TestDeleteIndex(t *testing.T) {
	ix := &fakeIndexer{deleted: true}
	s := newService(ix)

	deleted, err := s.DeleteIndex("doc1")
	if err != nil {
		t.Fatalf("DeleteIndex() error = %v", err)
	}
	if !deleted {
		t.Error("deleted = false, want true")
	}
}

func TestNewDocumentID(t *testing.T) {
	id := NewDocumentID()
	if !strings.HasPrefix(id, "doc_") {
		t.Errorf("id = %q, want doc_ prefix", id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewDocumentID()
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}
