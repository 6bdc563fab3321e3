package driving

import (
	"context"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// DocumentService manages the document lifecycle: ingestion, lookup,
// and deletion, keeping the metadata ledger and the vector store in step.
type DocumentService interface {
	// Upload processes a document end to end: extract, clean, chunk,
	// embed, index, then commit metadata. A failure at any step leaves
	// no ledger entry behind.
	Upload(ctx context.Context, filename string, content []byte) (*domain.UploadResult, error)

	// Delete removes a document's chunks from the vector store and then
	// its ledger entry. If the store deletion fails, the ledger entry is
	// left intact.
	Delete(ctx context.Context, documentID string) (*domain.DeletionResult, error)

	// List returns metadata for every known document, served from the
	// in-memory projection of the ledger.
	List(ctx context.Context) []domain.DocumentMetadata

	// GetInfo returns metadata for one document.
	GetInfo(ctx context.Context, documentID string) (*domain.DocumentMetadata, error)

	// GetChunks returns a document's stored chunks sorted by chunk index.
	GetChunks(ctx context.Context, documentID string) ([]domain.ChunkInfo, error)

	// Preview chunks a document without storing anything.
	Preview(ctx context.Context, filename string, content []byte) ([]domain.TextChunk, error)

	// EmbedTexts embeds raw texts and stores them in the vector store
	// under generated IDs, bypassing the document lifecycle.
	EmbedTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error)

	// DeleteItems removes explicit vector-store entries by ID.
	DeleteItems(ctx context.Context, ids []string) error

	// Wipe clears the vector store, the ledger, and the cache.
	Wipe(ctx context.Context) error
}
