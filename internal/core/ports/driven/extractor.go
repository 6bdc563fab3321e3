package driven

import (
	"context"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// Extraction is the output of text extraction, before cleaning.
type Extraction struct {
	// Text is the raw extracted text.
	Text string

	// Pages maps page numbers to rune spans of Text.
	// Empty for non-paginated formats.
	Pages []domain.PageSpan
}

// Extractor pulls text out of raw file bytes for one or more formats.
type Extractor interface {
	// Extensions returns the lowercase file extensions this extractor
	// handles, without the leading dot.
	Extensions() []string

	// Extract converts raw bytes to text. Fails with a wrapped
	// domain.ErrInvalidInput on malformed files.
	Extract(ctx context.Context, content []byte, filename string) (*Extraction, error)
}

// ExtractorRegistry dispatches extraction by file extension.
type ExtractorRegistry interface {
	// IsSupported reports whether the filename's extension has an extractor.
	IsSupported(filename string) bool

	// SupportedExtensions lists registered extensions for error messages.
	SupportedExtensions() []string

	// Extract dispatches to the extractor for the filename's extension.
	Extract(ctx context.Context, content []byte, filename string) (*Extraction, error)

	// Clean normalises extracted text: whitespace runs collapse to single
	// spaces and non-standard punctuation is dropped. Idempotent.
	Clean(text string) string
}
