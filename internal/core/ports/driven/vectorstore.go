package driven

import "context"

// Record is one stored entry in the vector store: a chunk ID, its text,
// its embedding, and arbitrary metadata.
type Record struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]any
}

// QueryHit is a nearest-neighbour match.
type QueryHit struct {
	Record

	// Distance is the cosine distance to the query vector.
	// Hits are returned in ascending distance order.
	Distance float64
}

// VectorStore is a keyed store over embedded texts supporting
// nearest-neighbour query by cosine distance.
type VectorStore interface {
	// Add inserts records as one batch. Existing IDs are overwritten.
	Add(ctx context.Context, records []Record) error

	// Delete removes records by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Get returns records whose metadata matches every key in filter.
	// A nil filter returns all records. Result order is unspecified.
	Get(ctx context.Context, filter map[string]any) ([]Record, error)

	// Query returns up to k records ranked by ascending cosine distance.
	Query(ctx context.Context, embedding []float32, k int) ([]QueryHit, error)

	// Clear removes every record. Used by the full-wipe operation.
	Clear(ctx context.Context) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
