package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
)

// Ensure PDF implements the interface.
var _ driven.Extractor = (*PDF)(nil)

// PDF extracts text from PDF files, page by page, producing page spans
// so chunks can be attributed back to a page.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Extensions returns the file extensions this extractor handles.
func (e *PDF) Extensions() []string {
	return []string{"pdf"}
}

// Extract reads each page's text, cleans it, and joins pages with a single
// space. Page spans are rune offsets into the joined text. Each page is
// cleaned before offsets are taken, so the idempotent registry cleaner
// leaves the spans valid for the chunker.
func (e *PDF) Extract(_ context.Context, content []byte, _ string) (*driven.Extraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var sb strings.Builder
	var pages []domain.PageSpan
	offset := 0 // rune offset into the joined text

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Pages that fail text extraction are skipped, not fatal.
			continue
		}

		cleaned := CleanText(pageText)
		if cleaned == "" {
			continue
		}

		if offset > 0 {
			sb.WriteString(" ")
			offset++
		}
		length := len([]rune(cleaned))
		pages = append(pages, domain.PageSpan{
			PageNumber: pageNum,
			StartChar:  offset,
			EndChar:    offset + length,
		})
		sb.WriteString(cleaned)
		offset += length
	}

	return &driven.Extraction{Text: sb.String(), Pages: pages}, nil
}
