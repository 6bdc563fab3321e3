// Package memory provides an in-memory vector store for tests and
// development runs without a data directory.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/walnut-labs/walnut/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a map-backed vector store with brute-force cosine queries.
type Store struct {
	mu      sync.RWMutex
	records map[string]driven.Record
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{records: make(map[string]driven.Record)}
}

// Add inserts records as one batch, overwriting existing IDs.
func (s *Store) Add(_ context.Context, records []driven.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

// Delete removes records by ID. Unknown IDs are ignored.
func (s *Store) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

// Get returns records whose metadata matches every key in filter.
func (s *Store) Get(_ context.Context, filter map[string]any) ([]driven.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []driven.Record
	for _, r := range s.records {
		if matches(r.Metadata, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Query returns up to k records ranked by ascending cosine distance.
func (s *Store) Query(_ context.Context, embedding []float32, k int) ([]driven.QueryHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.QueryHit, 0, len(s.records))
	for _, r := range s.records {
		hits = append(hits, driven.QueryHit{
			Record:   r,
			Distance: CosineDistance(embedding, r.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Clear removes every record.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]driven.Record)
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// matches reports whether metadata contains every filter entry.
// A nil filter matches everything.
func matches(metadata, filter map[string]any) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// CosineDistance computes 1 - cosine similarity. Mismatched dimensions and
// zero vectors yield the maximum distance of 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
