package domain

import "fmt"

// TextChunk is a contiguous, sentence-merged span of a document's cleaned
// text. Chunks are produced in a single batch per document and are immutable
// once stored; only TotalChunks is backfilled at the end of the batch.
type TextChunk struct {
	// Text is the chunk content, a literal slice of the cleaned text.
	Text string

	// Index is the zero-based position of the chunk within its document.
	// Indexes are dense: they cover exactly [0, TotalChunks).
	Index int

	// TotalChunks is the number of chunks produced for the owning document.
	// Every chunk of the same batch carries the same value.
	TotalChunks int

	// DocumentID identifies the owning document.
	DocumentID string

	// DocumentName is the original filename. Not guaranteed unique.
	DocumentName string

	// StartChar and EndChar are rune offsets into the cleaned text,
	// with StartChar < EndChar.
	StartChar int
	EndChar   int

	// PageNumber is the 1-based source page containing the chunk midpoint.
	// Zero when the source format has no page boundaries.
	PageNumber int
}

// PageSpan maps a page number to its rune span in the extracted text.
// Spans are produced by paginated extractors (PDF) in page order.
type PageSpan struct {
	PageNumber int
	StartChar  int
	EndChar    int
}

// ChunkID derives the deterministic vector-store identity of a chunk from
// its document and position. Deletion enumerates this ID space from the
// ledger's TotalChunks rather than querying the store.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// ChunkInfo is a stored chunk as read back from the vector store,
// used by the get-document-chunks operation.
type ChunkInfo struct {
	ChunkID      string `json:"chunk_id"`
	Text         string `json:"text"`
	ChunkIndex   int    `json:"chunk_index"`
	TotalChunks  int    `json:"total_chunks"`
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	StartChar    int    `json:"start_char"`
	EndChar      int    `json:"end_char"`
	PageNumber   int    `json:"page_number,omitempty"`
}
