package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
	"github.com/walnut-labs/walnut/internal/core/ports/driving"
	"github.com/walnut-labs/walnut/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultK is the neighbour count used when the caller does not set one.
const DefaultK = 5

// SearchService answers nearest-neighbour queries over stored chunks.
type SearchService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	defaultK int
}

// NewSearchService creates a search service. defaultK <= 0 falls back to
// DefaultK.
func NewSearchService(embedder driven.EmbeddingService, store driven.VectorStore, defaultK int) *SearchService {
	if defaultK <= 0 {
		defaultK = DefaultK
	}
	return &SearchService{
		embedder: embedder,
		store:    store,
		defaultK: defaultK,
	}
}

// Search embeds the query, retrieves the top-K neighbours by cosine
// distance, and optionally post-filters to a single document. Filtering
// happens after retrieval, so a filtered search can return fewer than K
// results even when more matches exist. An empty result set is not an
// error.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	k := opts.K
	if k <= 0 {
		k = s.defaultK
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.store.Query(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		docID := metaString(hit.Metadata, "document_id")
		if opts.DocumentID != "" && docID != opts.DocumentID {
			continue
		}
		results = append(results, domain.SearchResult{
			ChunkID:      hit.ID,
			Text:         hit.Text,
			Metadata:     hit.Metadata,
			Distance:     hit.Distance,
			DocumentID:   docID,
			DocumentName: metaString(hit.Metadata, "document_name"),
			ChunkIndex:   metaInt(hit.Metadata, "chunk_index"),
		})
	}

	logger.Debug("Search returned %d of %d hits (k=%d, filter=%q)",
		len(results), len(hits), k, opts.DocumentID)
	return results, nil
}
