package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/walnut-labs/walnut/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query to find relevant chunks"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict results to one document"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID      string  `json:"chunk_id"`
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	ChunkIndex   int     `json:"chunk_index"`
	Distance     float64 `json:"distance"`
	Text         string  `json:"text"`
}

// ListDocumentsInput is the (empty) input schema for the list tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents one document's metadata.
type DocumentOutput struct {
	DocumentID      string `json:"document_id"`
	DocumentName    string `json:"document_name"`
	UploadDate      string `json:"upload_date"`
	TotalChunks     int    `json:"total_chunks"`
	TotalCharacters int    `json:"total_characters"`
	FileType        string `json:"file_type"`
}

// GetChunksInput is the input schema for the get-document-chunks tool.
type GetChunksInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document whose chunks to return"`
}

// GetChunksOutput is the output schema for the get-document-chunks tool.
type GetChunksOutput struct {
	Chunks []domain.ChunkInfo `json:"chunks"`
	Count  int                `json:"count"`
}

// DeleteDocumentInput is the input schema for the delete-document tool.
type DeleteDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to delete"`
}

// DeleteDocumentOutput is the output schema for the delete-document tool.
type DeleteDocumentOutput struct {
	DocumentID    string `json:"document_id"`
	ChunksDeleted int    `json:"chunks_deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search ingested documents by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents with their metadata",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document_chunks",
		Description: "Return a document's stored chunks in order",
	}, s.handleGetChunks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document and all of its chunks",
	}, s.handleDeleteDocument)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		K:          input.Limit,
		DocumentID: input.DocumentID,
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ChunkID:      results[i].ChunkID,
			DocumentID:   results[i].DocumentID,
			DocumentName: results[i].DocumentName,
			ChunkIndex:   results[i].ChunkIndex,
			Distance:     results[i].Distance,
			Text:         results[i].Text,
		}
	}
	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.ports.Document.List(ctx)

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			DocumentID:      docs[i].DocumentID,
			DocumentName:    docs[i].DocumentName,
			UploadDate:      docs[i].UploadDate.Format("2006-01-02 15:04:05"),
			TotalChunks:     docs[i].TotalChunks,
			TotalCharacters: docs[i].TotalCharacters,
			FileType:        docs[i].FileType,
		}
	}
	return nil, output, nil
}

// handleGetChunks handles the get_document_chunks tool invocation.
func (s *Server) handleGetChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetChunksInput,
) (*mcp.CallToolResult, GetChunksOutput, error) {
	chunks, err := s.ports.Document.GetChunks(ctx, input.DocumentID)
	if err != nil {
		return nil, GetChunksOutput{}, err
	}
	return nil, GetChunksOutput{Chunks: chunks, Count: len(chunks)}, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	result, err := s.ports.Document.Delete(ctx, input.DocumentID)
	if err != nil {
		return nil, DeleteDocumentOutput{}, err
	}
	return nil, DeleteDocumentOutput{
		DocumentID:    result.DocumentID,
		ChunksDeleted: result.ChunksDeleted,
	}, nil
}
