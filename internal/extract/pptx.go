package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
)

// Ensure PPTX implements the interface.
var _ driven.Extractor = (*PPTX)(nil)

// PPTX extracts shape text from PowerPoint presentations.
type PPTX struct{}

// NewPPTX creates a PPTX extractor.
func NewPPTX() *PPTX {
	return &PPTX{}
}

// Extensions returns the file extensions this extractor handles.
func (e *PPTX) Extensions() []string {
	return []string{"pptx"}
}

// Extract opens the file as a ZIP archive and pulls text runs out of each
// ppt/slides/slideN.xml in slide order. Slides are not pages in the chunking
// sense, so no page spans are produced.
func (e *PPTX) Extract(_ context.Context, content []byte, _ string) (*driven.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var slides []string
	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") || !strings.HasSuffix(file.Name, ".xml") {
			continue
		}
		slides = append(slides, file.Name)
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i]) < slideNumber(slides[j])
	})

	var sb strings.Builder
	for i, name := range slides {
		text, err := readSlideText(reader, name)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- Slide %d ---\n%s", i+1, text)
	}

	return &driven.Extraction{Text: sb.String()}, nil
}

// slideNumber parses the N out of ppt/slides/slideN.xml; unparsable names
// sort last.
func slideNumber(name string) int {
	var n int
	if _, err := fmt.Sscanf(name, "ppt/slides/slide%d.xml", &n); err != nil {
		return 1 << 30
	}
	return n
}

// readSlideText collects the character data of every <a:t> element.
func readSlideText(reader *zip.Reader, name string) (string, error) {
	var rc io.ReadCloser
	for _, file := range reader.File {
		if file.Name == name {
			f, err := file.Open()
			if err != nil {
				return "", domain.ErrInvalidInput
			}
			rc = f
			break
		}
	}
	if rc == nil {
		return "", nil
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
