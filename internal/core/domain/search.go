package domain

// SearchOptions configures a nearest-neighbour search.
type SearchOptions struct {
	// K is the number of neighbours requested from the vector store.
	K int

	// DocumentID, when set, post-filters results to a single document.
	// Filtering happens after retrieval, so fewer than K results may be
	// returned even when more matches exist beyond the top-K window.
	DocumentID string
}

// SearchResult is a single ranked match from the vector store.
type SearchResult struct {
	// ChunkID is the vector-store identity of the matched chunk.
	ChunkID string `json:"id"`

	// Text is the stored chunk text.
	Text string `json:"text"`

	// Metadata is the raw metadata stored alongside the chunk.
	Metadata map[string]any `json:"metadata"`

	// Distance is the cosine distance to the query (lower is closer).
	Distance float64 `json:"distance"`

	// Convenience fields extracted from Metadata when present.
	DocumentID   string `json:"document_id,omitempty"`
	DocumentName string `json:"document_name,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}
