package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

func newTestServer(t *testing.T, search *mockSearchService, document *mockDocumentService) *Server {
	t.Helper()
	if search == nil {
		search = &mockSearchService{}
	}
	if document == nil {
		document = &mockDocumentService{}
	}
	server, err := NewServer(&Ports{Search: search, Document: document})
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{
					ChunkID:      "doc-1_chunk_0",
					Text:         "This is the content",
					Distance:     0.12,
					DocumentID:   "doc-1",
					DocumentName: "report.pdf",
					ChunkIndex:   0,
				},
			},
		}
		server := newTestServer(t, mockSearch, nil)

		input := SearchInput{Query: "test", Limit: 5}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1_chunk_0", output.Results[0].ChunkID)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "report.pdf", output.Results[0].DocumentName)
		assert.Equal(t, 0.12, output.Results[0].Distance)
		assert.Equal(t, "This is the content", output.Results[0].Text)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		server := newTestServer(t, &mockSearchService{err: errors.New("search failed")}, nil)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	mockDoc := &mockDocumentService{
		documents: []domain.DocumentMetadata{
			{
				DocumentID:      "doc-1",
				DocumentName:    "report.pdf",
				UploadDate:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
				TotalChunks:     4,
				TotalCharacters: 2000,
				FileType:        "pdf",
			},
		},
	}
	server := newTestServer(t, nil, mockDoc)

	_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	require.Len(t, output.Documents, 1)
	assert.Equal(t, "doc-1", output.Documents[0].DocumentID)
	assert.Equal(t, "2026-08-01 12:00:00", output.Documents[0].UploadDate)
	assert.Equal(t, 4, output.Documents[0].TotalChunks)
}

func TestServer_handleGetChunks(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks", func(t *testing.T) {
		mockDoc := &mockDocumentService{
			chunks: []domain.ChunkInfo{
				{ChunkID: "doc-1_chunk_0", Text: "first", ChunkIndex: 0},
				{ChunkID: "doc-1_chunk_1", Text: "second", ChunkIndex: 1},
			},
		}
		server := newTestServer(t, nil, mockDoc)

		_, output, err := server.handleGetChunks(ctx, nil, GetChunksInput{DocumentID: "doc-1"})
		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "doc-1_chunk_0", output.Chunks[0].ChunkID)
	})

	t.Run("propagates not found", func(t *testing.T) {
		server := newTestServer(t, nil, &mockDocumentService{err: domain.ErrNotFound})

		_, _, err := server.handleGetChunks(ctx, nil, GetChunksInput{DocumentID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleDeleteDocument(t *testing.T) {
	ctx := context.Background()

	mockDoc := &mockDocumentService{
		deletion: &domain.DeletionResult{DocumentID: "doc-1", ChunksDeleted: 4},
	}
	server := newTestServer(t, nil, mockDoc)

	_, output, err := server.handleDeleteDocument(ctx, nil, DeleteDocumentInput{DocumentID: "doc-1"})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", output.DocumentID)
	assert.Equal(t, 4, output.ChunksDeleted)
}
