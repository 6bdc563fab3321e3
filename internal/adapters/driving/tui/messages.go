package tui

import "github.com/walnut-labs/walnut/internal/core/domain"

// searchCompleted carries search results back into the update loop.
type searchCompleted struct {
	results []domain.SearchResult
}

// searchFailed carries a search error back into the update loop.
type searchFailed struct {
	err error
}
