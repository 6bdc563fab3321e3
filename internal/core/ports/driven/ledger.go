package driven

import (
	"context"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// MetadataLedger is the durable mapping from document ID to document-level
// metadata. It is the source of truth for which documents exist; the
// in-process cache is only a projection of it.
//
// Writes are write-through: Add and Delete do not return until the change
// is durable. Implementations must serialise writers.
type MetadataLedger interface {
	// Add upserts a document record and persists immediately.
	Add(ctx context.Context, meta domain.DocumentMetadata) error

	// Get retrieves a record by document ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, documentID string) (*domain.DocumentMetadata, error)

	// GetAll returns every record, in no particular order.
	GetAll(ctx context.Context) ([]domain.DocumentMetadata, error)

	// Delete removes a record if present, persists, and reports whether
	// the record existed.
	Delete(ctx context.Context, documentID string) (bool, error)

	// Clear removes every record and persists.
	Clear(ctx context.Context) error
}
