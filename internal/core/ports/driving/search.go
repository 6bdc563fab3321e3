package driving

import (
	"context"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// SearchService answers nearest-neighbour queries over stored chunks.
type SearchService interface {
	// Search embeds the query, retrieves the top-K neighbours, and
	// optionally post-filters them to a single document.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
