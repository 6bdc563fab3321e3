// Package chunker converts cleaned document text into ordered, overlapping,
// sentence-aware chunks with exact character offsets and page attribution.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultOverlapSize is the default number of overlapping characters.
const DefaultOverlapSize = 100

// Chunker splits text into overlapping sentence-aware chunks.
type Chunker struct {
	chunkSize   int
	overlapSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlapSize sets the overlap between chunks in characters.
func WithOverlapSize(size int) Option {
	return func(c *Chunker) {
		c.overlapSize = size
	}
}

// New creates a chunker with the given options.
// Both sizes must be positive and the overlap must be smaller than the
// chunk size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize:   DefaultChunkSize,
		overlapSize: DefaultOverlapSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("chunker: chunk size must be positive, got %d", c.chunkSize)
	}
	if c.overlapSize <= 0 {
		return nil, fmt.Errorf("chunker: overlap size must be positive, got %d", c.overlapSize)
	}
	if c.overlapSize >= c.chunkSize {
		return nil, fmt.Errorf("chunker: overlap size %d must be smaller than chunk size %d",
			c.overlapSize, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured chunk size in characters.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// OverlapSize returns the configured overlap size in characters.
func (c *Chunker) OverlapSize() int {
	return c.overlapSize
}

// sentence is a trimmed sentence span in rune offsets.
type sentence struct {
	start int
	end   int
}

// length returns the sentence length in runes.
func (s sentence) length() int {
	return s.end - s.start
}

// CreateChunks splits text into ordered overlapping chunks owned by the
// given document. Offsets are rune offsets into text, and each chunk's Text
// is the literal slice text[StartChar:EndChar]. Whitespace-only input
// produces no chunks and no error.
//
// When page spans are supplied, each chunk is attributed to the first span
// containing its midpoint character.
func (c *Chunker) CreateChunks(
	text, documentID, documentName string, pages []domain.PageSpan,
) ([]domain.TextChunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	sentences := splitSentences(runes)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []domain.TextChunk

	// The open buffer is the sentence range [lo, i). A sentence is always
	// appended after a close, so a single oversized sentence still forms
	// a chunk on its own.
	lo := 0
	for i := 1; i < len(sentences); i++ {
		bufferLen := sentences[i-1].end - sentences[lo].start
		if bufferLen+sentences[i].length()+1 > c.chunkSize {
			chunks = append(chunks, c.closeChunk(runes, sentences[lo], sentences[i-1],
				len(chunks), documentID, documentName, pages))
			lo = c.overlapStart(sentences, lo, i-1)
		}
	}

	last := len(sentences) - 1
	chunks = append(chunks, c.closeChunk(runes, sentences[lo], sentences[last],
		len(chunks), documentID, documentName, pages))

	// Deferred backfill: no chunk knows the final count until the batch
	// is complete.
	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks, nil
}

// closeChunk materialises the buffer spanning first..last as a chunk.
func (c *Chunker) closeChunk(
	runes []rune, first, last sentence,
	index int, documentID, documentName string, pages []domain.PageSpan,
) domain.TextChunk {
	start, end := first.start, last.end
	return domain.TextChunk{
		Text:         string(runes[start:end]),
		Index:        index,
		DocumentID:   documentID,
		DocumentName: documentName,
		StartChar:    start,
		EndChar:      end,
		PageNumber:   pageFor(pages, (start+end)/2),
	}
}

// overlapStart returns the index of the first sentence of the overlap
// suffix for the closed buffer [lo, hi]. Whole sentences are accumulated
// from the end while the suffix stays within the overlap size. When even
// the last sentence alone exceeds it, that sentence seeds the next chunk
// verbatim; the following chunk may then exceed the nominal chunk size,
// which is accepted.
func (c *Chunker) overlapStart(sentences []sentence, lo, hi int) int {
	start := hi
	for j := hi - 1; j >= lo; j-- {
		if sentences[hi].end-sentences[j].start > c.overlapSize {
			break
		}
		start = j
	}
	return start
}

// pageFor returns the page number of the first span containing the given
// offset, or 0 when no span contains it.
func pageFor(pages []domain.PageSpan, offset int) int {
	for _, p := range pages {
		if p.StartChar <= offset && offset <= p.EndChar {
			return p.PageNumber
		}
	}
	return 0
}

// splitSentences splits text into trimmed sentence spans. A boundary is any
// '.', '!' or '?' followed by whitespace. This is a heuristic, not a full
// sentence tokenizer: abbreviations and decimal numbers may split early.
func splitSentences(runes []rune) []sentence {
	var out []sentence

	start := -1
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if start < 0 {
			if unicode.IsSpace(r) {
				continue
			}
			start = i
		}
		if isTerminator(r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			out = appendSentence(out, runes, start, i+1)
			start = -1
		}
	}
	if start >= 0 {
		out = appendSentence(out, runes, start, len(runes))
	}

	return out
}

// appendSentence trims the trailing whitespace of runes[start:end] and
// appends the span when non-empty.
func appendSentence(out []sentence, runes []rune, start, end int) []sentence {
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	if end > start {
		out = append(out, sentence{start: start, end: end})
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
