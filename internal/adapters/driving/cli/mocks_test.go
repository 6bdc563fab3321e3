package cli

import (
	"context"
	"errors"
	"time"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// mockSearchService returns canned results.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockDocumentService returns canned documents.
type mockDocumentService struct {
	documents []domain.DocumentMetadata
	metadata  *domain.DocumentMetadata
	chunks    []domain.ChunkInfo
	upload    *domain.UploadResult
	deletion  *domain.DeletionResult
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ string, _ []byte) (*domain.UploadResult, error) {
	return m.upload, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) (*domain.DeletionResult, error) {
	return m.deletion, m.err
}

func (m *mockDocumentService) List(_ context.Context) []domain.DocumentMetadata {
	return m.documents
}

func (m *mockDocumentService) GetInfo(_ context.Context, _ string) (*domain.DocumentMetadata, error) {
	if m.metadata == nil {
		return nil, m.err
	}
	return m.metadata, m.err
}

func (m *mockDocumentService) GetChunks(_ context.Context, _ string) ([]domain.ChunkInfo, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Preview(_ context.Context, _ string, _ []byte) ([]domain.TextChunk, error) {
	return nil, m.err
}

func (m *mockDocumentService) EmbedTexts(_ context.Context, texts []string, _ []map[string]any) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = "id-" + texts[i]
	}
	return ids, nil
}

func (m *mockDocumentService) DeleteItems(_ context.Context, _ []string) error {
	return m.err
}

func (m *mockDocumentService) Wipe(_ context.Context) error {
	return m.err
}

// setupTestServices swaps in mock services and returns a cleanup func.
func setupTestServices() func() {
	oldDoc, oldSearch := documentService, searchService

	documentService = &mockDocumentService{
		documents: []domain.DocumentMetadata{
			{
				DocumentID:      "doc-1",
				DocumentName:    "report.pdf",
				UploadDate:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
				TotalChunks:     3,
				TotalCharacters: 1500,
				FileType:        "pdf",
			},
		},
		metadata: &domain.DocumentMetadata{
			DocumentID:   "doc-1",
			DocumentName: "report.pdf",
			TotalChunks:  3,
			FileType:     "pdf",
		},
		chunks: []domain.ChunkInfo{
			{ChunkID: "doc-1_chunk_0", Text: "first chunk", ChunkIndex: 0, TotalChunks: 2, EndChar: 11},
			{ChunkID: "doc-1_chunk_1", Text: "second chunk", ChunkIndex: 1, TotalChunks: 2, StartChar: 8, EndChar: 20},
		},
		upload:   &domain.UploadResult{DocumentID: "doc-1", DocumentName: "report.pdf", ChunksCreated: 3, Success: true},
		deletion: &domain.DeletionResult{DocumentID: "doc-1", ChunksDeleted: 3},
	}
	searchService = &mockSearchService{
		results: []domain.SearchResult{
			{
				ChunkID:      "doc-1_chunk_0",
				Text:         "matched chunk text",
				Distance:     0.12,
				DocumentID:   "doc-1",
				DocumentName: "report.pdf",
			},
		},
	}

	return func() {
		documentService, searchService = oldDoc, oldSearch
	}
}

// errNotConfigured helps assert failure paths.
var errServiceFailure = errors.New("service failure")
