package mcp

import (
	"context"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentMetadata
	metadata  *domain.DocumentMetadata
	chunks    []domain.ChunkInfo
	deletion  *domain.DeletionResult
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ string, _ []byte) (*domain.UploadResult, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) (*domain.DeletionResult, error) {
	return m.deletion, m.err
}

func (m *mockDocumentService) List(_ context.Context) []domain.DocumentMetadata {
	return m.documents
}

func (m *mockDocumentService) GetInfo(_ context.Context, _ string) (*domain.DocumentMetadata, error) {
	return m.metadata, m.err
}

func (m *mockDocumentService) GetChunks(_ context.Context, _ string) ([]domain.ChunkInfo, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Preview(_ context.Context, _ string, _ []byte) ([]domain.TextChunk, error) {
	return nil, m.err
}

func (m *mockDocumentService) EmbedTexts(_ context.Context, _ []string, _ []map[string]any) ([]string, error) {
	return nil, m.err
}

func (m *mockDocumentService) DeleteItems(_ context.Context, _ []string) error {
	return m.err
}

func (m *mockDocumentService) Wipe(_ context.Context) error {
	return m.err
}
