package extract

import (
	"context"
	"unicode/utf8"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
)

// Ensure Plaintext implements the interface.
var _ driven.Extractor = (*Plaintext)(nil)

// Plaintext handles plain text and markdown files.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Plaintext) Extensions() []string {
	return []string{"txt", "md"}
}

// Extract returns the bytes as text. Non-paginated, so no page spans.
func (e *Plaintext) Extract(_ context.Context, content []byte, _ string) (*driven.Extraction, error) {
	if !utf8.Valid(content) {
		return nil, domain.ErrInvalidInput
	}
	return &driven.Extraction{Text: string(content)}, nil
}
