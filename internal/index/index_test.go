// ABOUTME: Tests for the vector index over an in-memory record store
// ABOUTME: Covers round-trips, filters, thresholds, deletion, and dimension enforcement
package index

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
)

// memStore is an in-memory RecordStore for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) PutBatch(pairs []KeyValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range pairs {
		m.data[p.Key] = p.Value
	}
	return nil
}

func (m *memStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return data, nil
}

func (m *memStore) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.data {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) DeleteBatch(keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// fakeEmbedder returns scripted vectors per text, defaulting to a unit
// vector so unrelated tests do not need a script.
type fakeEmbedder struct {
	dim     int
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if vec, ok := f.vectors[text]; ok {
			out[i] = vec
			continue
		}
		vec := make([]float64, f.dim)
		vec[len(text)%f.dim] = 1.0
		out[i] = vec
	}
	return out, nil
}

func newTestIndex(t *testing.T, embedder *fakeEmbedder) *Index {
	t.Helper()
	if embedder == nil {
		embedder = &fakeEmbedder{dim: 3}
	}
	return New(newMemStore(), embedder, "test_docs")
}

func TestAdd_EmptyChunksIsNoOp(t *testing.T) {
	ix := newTestIndex(t, nil)

	count, err := ix.Add(context.Background(), "doc1", nil, map[string]any{"user_id": "u1"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestAdd_GetRoundTrip(t *testing.T) {
	ix := newTestIndex(t, nil)

	chunks := []string{"first chunk", "second chunk text", "third"}
	count, err := ix.Add(context.Background(), "doc1", chunks, map[string]any{
		"user_id": "u1",
		"title":   "Notes",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	got, err := ix.Get("doc1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Get() returned %d chunks, want 3", len(got))
	}

	for i, chunk := range got {
		if chunk.Text != chunks[i] {
			t.Errorf("chunk %d text = %q, want %q", i, chunk.Text, chunks[i])
		}
		wantID := fmt.Sprintf("doc1_chunk_%d", i)
		if chunk.ChunkID != wantID {
			t.Errorf("chunk %d ID = %q, want %q", i, chunk.ChunkID, wantID)
		}
		if title, _ := chunk.Metadata["title"].(string); title != "Notes" {
			t.Errorf("chunk %d lost caller metadata, title = %q", i, title)
		}
		if chunk.Metadata["created_at"] == nil {
			t.Errorf("chunk %d missing created_at", i)
		}
	}
}

func TestAdd_RejectsDimensionMismatch(t *testing.T) {
	store := newMemStore()
	ix := New(store, &fakeEmbedder{dim: 3}, "test_docs")

	if _, err := ix.Add(context.Background(), "doc1", []string{"some text"}, nil); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	// Same collection, different embedding dimension: must be rejected at
	// write time, not silently stored.
	ix2 := New(store, &fakeEmbedder{dim: 4}, "test_docs")
	if _, err := ix2.Add(context.Background(), "doc2", []string{"other text"}, nil); err == nil {
		t.Error("Add() with mismatched dimension should fail")
	}
}

func TestSearch_OrderedAndFiltered(t *testing.T) {
	embedder := &fakeEmbedder{dim: 3, vectors: map[string][]float64{
		"alpha": {1, 0, 0},
		"beta":  {0.9, 0.1, 0},
		"gamma": {0, 1, 0},
	}}
	ix := newTestIndex(t, embedder)

	ctx := context.Background()
	if _, err := ix.Add(ctx, "d1", []string{"alpha", "beta"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add d1: %v", err)
	}
	if _, err := ix.Add(ctx, "d2", []string{"gamma"}, map[string]any{"user_id": "u2"}); err != nil {
		t.Fatalf("Add d2: %v", err)
	}

	results, err := ix.Search([]float64{1, 0, 0}, 10, map[string]any{"user_id": "u1"}, 0.0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Text != "alpha" {
		t.Errorf("top result = %q, want alpha", results[0].Text)
	}
	for i := 1; i < len(results); i++ {
		if results[i].SimilarityScore > results[i-1].SimilarityScore {
			t.Errorf("results not sorted at %d", i)
		}
	}
	for _, r := range results {
		if uid, _ := r.Metadata["user_id"].(string); uid != "u1" {
			t.Errorf("filter leak: got record for user %q", uid)
		}
	}
}

func TestSearch_FilterIsolationAcrossUsers(t *testing.T) {
	ix := newTestIndex(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		doc := fmt.Sprintf("a-doc-%d", i)
		if _, err := ix.Add(ctx, doc, []string{fmt.Sprintf("user a text %d", i)}, map[string]any{"user_id": "userA"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := ix.Add(ctx, "b-doc", []string{"user b text"}, map[string]any{"user_id": "userB"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := ix.Search([]float64{1, 0, 0}, 50, map[string]any{"user_id": "userA"}, 0.0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results for userA")
	}
	for _, r := range results {
		if uid, _ := r.Metadata["user_id"].(string); uid != "userA" {
			t.Errorf("record for %q returned under userA filter", uid)
		}
	}
}

func TestSearch_ThresholdMonotonicity(t *testing.T) {
	embedder := &fakeEmbedder{dim: 3, vectors: map[string][]float64{
		"close":  {1, 0, 0},
		"medium": {0.5, 0.5, 0},
		"far":    {0, 0, 1},
	}}
	ix := newTestIndex(t, embedder)
	ctx := context.Background()

	if _, err := ix.Add(ctx, "d1", []string{"close", "medium", "far"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	query := []float64{1, 0, 0}
	prev := -1
	for _, threshold := range []float64{0.0, 0.3, 0.8, 0.99} {
		results, err := ix.Search(query, 10, nil, threshold)
		if err != nil {
			t.Fatalf("Search(threshold=%v) error = %v", threshold, err)
		}
		for _, r := range results {
			if r.SimilarityScore < threshold {
				t.Errorf("result below threshold %v: %v", threshold, r.SimilarityScore)
			}
		}
		if prev >= 0 && len(results) > prev {
			t.Errorf("raising threshold to %v increased results: %d > %d", threshold, len(results), prev)
		}
		prev = len(results)
	}
}

func TestSearch_TopKLargerThanMatchingSet(t *testing.T) {
	ix := newTestIndex(t, nil)
	ctx := context.Background()

	if _, err := ix.Add(ctx, "d1", []string{"only chunk"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := ix.Search([]float64{1, 0, 0}, 100, nil, 0.0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestDelete_Idempotent(t *testing.T) {
	ix := newTestIndex(t, nil)
	ctx := context.Background()

	if _, err := ix.Add(ctx, "d1", []string{"a", "b", "c"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	deleted, err := ix.Delete("d1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("first Delete() = false, want true")
	}

	deleted, err = ix.Delete("d1")
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if deleted {
		t.Error("second Delete() = true, want false")
	}

	got, err := ix.Get("d1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get() after delete returned %d chunks, want 0", len(got))
	}
}

func TestDelete_NonexistentDocument(t *testing.T) {
	ix := newTestIndex(t, nil)

	deleted, err := ix.Delete("nonexistent-doc")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted {
		t.Error("Delete(nonexistent) = true, want false")
	}
}

func TestDelete_LeavesOtherDocumentsIntact(t *testing.T) {
	ix := newTestIndex(t, nil)
	ctx := context.Background()

	if _, err := ix.Add(ctx, "keep", []string{"keep me"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := ix.Add(ctx, "drop", []string{"drop me"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := ix.Delete("drop"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	kept, err := ix.Get("keep")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("surviving document has %d chunks, want 1", len(kept))
	}
}

func TestStats(t *testing.T) {
	ix := newTestIndex(t, nil)
	ctx := context.Background()

	stats, err := ix.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRecords != 0 || stats.Dimension != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	if _, err := ix.Add(ctx, "d1", []string{"a", "bb"}, map[string]any{"user_id": "u1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	stats, err = ix.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", stats.TotalRecords)
	}
	if stats.Dimension != 3 {
		t.Errorf("Dimension = %d, want 3", stats.Dimension)
	}
	if stats.Collection != "test_docs" {
		t.Errorf("Collection = %q, want test_docs", stats.Collection)
	}
}

func TestAdd_EmbedderFailurePropagates(t *testing.T) {
	embedder := &fakeEmbedder{dim: 3, err: fmt.Errorf("model unavailable")}
	ix := newTestIndex(t, embedder)

	if _, err := ix.Add(context.Background(), "d1", []string{"text"}, nil); err == nil {
		t.Error("Add() should surface the embedding failure")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0},
		{"orthogonal", []float64{1, 0, 0}, []float64{0, 1, 0}, 0.0},
		{"opposite", []float64{1, 0, 0}, []float64{-1, 0, 0}, -1.0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector", []float64{0, 0, 0}, []float64{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
