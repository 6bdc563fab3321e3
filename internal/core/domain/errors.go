package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Operations failing with this error are never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported file format")

	// ErrEmptyDocument indicates extraction produced no usable text.
	ErrEmptyDocument = errors.New("no text content found in document")

	// ErrNoChunks indicates chunking produced nothing from non-empty text.
	ErrNoChunks = errors.New("no valid chunks created from document")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
