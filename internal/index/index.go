// ABOUTME: Vector index over a key-value record store with cosine similarity search
// ABOUTME: Deterministic chunk IDs, exact-match metadata filters, batched writes
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/smartlearn/companion/internal/llm"
	"github.com/smartlearn/companion/internal/models"
)

// WriteBatchSize bounds peak request size on the record store.
const WriteBatchSize = 100

// KeyValue is one record-store entry.
type KeyValue struct {
	Key   string
	Value []byte
}

// RecordStore is the persistence boundary for indexed records. The store is
// treated as a remote collection with its own concurrency control.
type RecordStore interface {
	PutBatch(pairs []KeyValue) error
	Get(key string) ([]byte, error)
	Keys(prefix string) ([]string, error)
	DeleteBatch(keys []string) error
}

// Index owns one named collection of chunk records. A collection's embedding
// dimension is fixed for its lifetime; mismatched vectors are rejected at
// write time.
type Index struct {
	store      RecordStore
	embedder   llm.Embedder
	collection string

	mu        sync.Mutex
	dimension int // 0 until the first record is seen
}

// New creates an Index over the given store and embedder for one named
// collection.
func New(store RecordStore, embedder llm.Embedder, collection string) *Index {
	if collection == "" {
		collection = "learning_documents"
	}
	return &Index{
		store:      store,
		embedder:   embedder,
		collection: collection,
	}
}

// Collection returns the collection name.
func (ix *Index) Collection() string {
	return ix.collection
}

// Add embeds chunks in one batch call and writes records in fixed-size
// batches. Chunk IDs are built deterministically from the document ID and
// position; per-chunk fields are merged into the supplied metadata. Returns
// the number of records written; an empty chunk list is a no-op.
func (ix *Index) Add(ctx context.Context, documentID string, chunks []string, metadata map[string]any) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks for %s: %w", documentID, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch for %s: %d chunks, %d vectors", documentID, len(chunks), len(vectors))
	}

	if err := ix.checkDimension(len(vectors[0])); err != nil {
		return 0, err
	}
	for i, vec := range vectors {
		if len(vec) != len(vectors[0]) {
			return 0, fmt.Errorf("inconsistent embedding dimension at chunk %d: %d vs %d", i, len(vec), len(vectors[0]))
		}
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	pairs := make([]KeyValue, 0, len(chunks))
	for i, text := range chunks {
		meta := make(map[string]any, len(metadata)+5)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["document_id"] = documentID
		meta["chunk_index"] = i
		meta["chunk_count"] = len(chunks)
		meta["text_length"] = len(text)
		meta["created_at"] = createdAt

		rec := models.Record{
			ChunkID:  models.ChunkID(documentID, i),
			Vector:   vectors[i],
			Text:     text,
			Metadata: meta,
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("marshaling record %s: %w", rec.ChunkID, err)
		}
		pairs = append(pairs, KeyValue{Key: ix.recordKey(rec.ChunkID), Value: data})
	}

	written := 0
	for start := 0; start < len(pairs); start += WriteBatchSize {
		end := start + WriteBatchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		if err := ix.store.PutBatch(pairs[start:end]); err != nil {
			return written, fmt.Errorf("writing records for %s: %w", documentID, err)
		}
		written += end - start
	}

	ix.mu.Lock()
	ix.dimension = len(vectors[0])
	ix.mu.Unlock()

	return written, nil
}

// Search returns up to topK records matching every filter key exactly,
// ordered by descending similarity. Results below threshold are excluded
// post-hoc; the store itself has no threshold concept. topK larger than the
// matching set returns fewer results, not an error.
func (ix *Index) Search(queryVector []float64, topK int, filters map[string]any, threshold float64) ([]models.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	records, err := ix.loadAll()
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	for _, rec := range records {
		if !matchesFilters(rec.Metadata, filters) {
			continue
		}
		similarity := cosineSimilarity(queryVector, rec.Vector)
		results = append(results, models.SearchResult{
			ChunkID:         rec.ChunkID,
			Text:            rec.Text,
			Metadata:        rec.Metadata,
			SimilarityScore: similarity,
			Distance:        1 - similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > topK {
		results = results[:topK]
	}

	kept := results[:0]
	for _, r := range results {
		if r.SimilarityScore >= threshold {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// Delete removes every record whose metadata document_id matches, in one
// batch. Deleting an absent document is a no-op that returns false, not an
// error.
func (ix *Index) Delete(documentID string) (bool, error) {
	records, err := ix.loadAll()
	if err != nil {
		return false, err
	}

	var keys []string
	for _, rec := range records {
		if docID, _ := rec.Metadata["document_id"].(string); docID == documentID {
			keys = append(keys, ix.recordKey(rec.ChunkID))
		}
	}
	if len(keys) == 0 {
		return false, nil
	}
	if err := ix.store.DeleteBatch(keys); err != nil {
		return false, fmt.Errorf("deleting records for %s: %w", documentID, err)
	}
	return true, nil
}

// Get returns all chunks for a document re-sorted by chunk_index; the store
// has no inherent order guarantee across calls.
func (ix *Index) Get(documentID string) ([]models.StoredChunk, error) {
	records, err := ix.loadAll()
	if err != nil {
		return nil, err
	}

	var chunks []models.StoredChunk
	for _, rec := range records {
		if docID, _ := rec.Metadata["document_id"].(string); docID != documentID {
			continue
		}
		chunks = append(chunks, models.StoredChunk{
			ChunkID:  rec.ChunkID,
			Text:     rec.Text,
			Metadata: rec.Metadata,
		})
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return metaInt(chunks[i].Metadata, "chunk_index") < metaInt(chunks[j].Metadata, "chunk_index")
	})
	return chunks, nil
}

// Stats reports the collection size and embedding dimension.
func (ix *Index) Stats() (models.IndexStats, error) {
	keys, err := ix.store.Keys(ix.keyPrefix())
	if err != nil {
		return models.IndexStats{}, fmt.Errorf("listing records: %w", err)
	}

	stats := models.IndexStats{
		TotalRecords: len(keys),
		Collection:   ix.collection,
	}

	ix.mu.Lock()
	stats.Dimension = ix.dimension
	ix.mu.Unlock()

	if stats.Dimension == 0 && len(keys) > 0 {
		rec, err := ix.loadRecord(keys[0])
		if err != nil {
			return stats, err
		}
		stats.Dimension = len(rec.Vector)
		ix.mu.Lock()
		ix.dimension = stats.Dimension
		ix.mu.Unlock()
	}
	return stats, nil
}

// checkDimension enforces the collection's fixed embedding dimension. An
// empty collection accepts any dimension.
func (ix *Index) checkDimension(dim int) error {
	ix.mu.Lock()
	known := ix.dimension
	ix.mu.Unlock()

	if known == 0 {
		keys, err := ix.store.Keys(ix.keyPrefix())
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
		if len(keys) == 0 {
			return nil
		}
		rec, err := ix.loadRecord(keys[0])
		if err != nil {
			return err
		}
		known = len(rec.Vector)
		ix.mu.Lock()
		ix.dimension = known
		ix.mu.Unlock()
	}

	if dim != known {
		return fmt.Errorf("embedding dimension mismatch: collection %s holds %dD vectors, got %dD", ix.collection, known, dim)
	}
	return nil
}

func (ix *Index) keyPrefix() string {
	return "record:" + ix.collection + ":"
}

func (ix *Index) recordKey(chunkID string) string {
	return ix.keyPrefix() + chunkID
}

func (ix *Index) loadRecord(key string) (models.Record, error) {
	data, err := ix.store.Get(key)
	if err != nil {
		return models.Record{}, fmt.Errorf("reading record %s: %w", key, err)
	}
	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Record{}, fmt.Errorf("decoding record %s: %w", key, err)
	}
	return rec, nil
}

func (ix *Index) loadAll() ([]models.Record, error) {
	keys, err := ix.store.Keys(ix.keyPrefix())
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	records := make([]models.Record, 0, len(keys))
	for _, key := range keys {
		data, err := ix.store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("reading record %s: %w", key, err)
		}
		var rec models.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			// Skip undecodable records rather than failing the whole scan.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// matchesFilters reports whether metadata satisfies every filter key with an
// exact value match. No range or fuzzy filters.
func matchesFilters(meta, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := meta[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares filter values, treating numeric types uniformly since
// JSON round-trips integers as float64.
func valuesEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// metaInt reads an integer metadata field that may have round-tripped
// through JSON as float64.
func metaInt(meta map[string]any, key string) int {
	if f, ok := toFloat(meta[key]); ok {
		return int(f)
	}
	return 0
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
