// Package extract pulls text out of raw file bytes. Each extractor handles
// specific file extensions; the registry dispatches by extension and owns
// the text cleaner the rest of the pipeline runs on.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	punctRE      = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:()\-]`)
)

// Registry dispatches extraction by lowercase file extension.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
// Later extractors win on extension collisions.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// Default returns a registry with every built-in extractor registered.
func Default() *Registry {
	return NewRegistry(
		NewPlaintext(),
		NewPDF(),
		NewDOCX(),
		NewPPTX(),
	)
}

// extensionOf returns the lowercase extension of filename without the dot.
func extensionOf(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// IsSupported reports whether the filename's extension has an extractor.
func (r *Registry) IsSupported(filename string) bool {
	_, ok := r.byExt[extensionOf(filename)]
	return ok
}

// SupportedExtensions lists registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract dispatches to the extractor for the filename's extension.
func (r *Registry) Extract(ctx context.Context, content []byte, filename string) (*driven.Extraction, error) {
	ext := extensionOf(filename)
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s (supported: %s)",
			domain.ErrUnsupportedType, ext, strings.Join(r.SupportedExtensions(), ", "))
	}
	return e.Extract(ctx, content, filename)
}

// Clean normalises extracted text: whitespace runs collapse to a single
// space and characters outside letters, digits and basic punctuation are
// dropped. Clean is idempotent, so extractors that pre-clean per page keep
// their page spans valid.
func (r *Registry) Clean(text string) string {
	return CleanText(text)
}

// CleanText is Clean without a registry, for extractors that normalise
// per-page text before computing page spans.
func CleanText(text string) string {
	// Punctuation first: dropped characters leave whitespace runs behind,
	// and collapsing afterwards is what keeps Clean idempotent.
	text = punctRE.ReplaceAllString(text, "")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
