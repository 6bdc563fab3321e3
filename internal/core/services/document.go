package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/walnut-labs/walnut/internal/chunker"
	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
	"github.com/walnut-labs/walnut/internal/core/ports/driving"
	"github.com/walnut-labs/walnut/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the document lifecycle. It keeps an in-memory
// projection of the ledger for reads; the ledger file stays the source of
// truth and the projection is rebuilt from it at construction.
type DocumentService struct {
	registry driven.ExtractorRegistry
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	store    driven.VectorStore
	ledger   driven.MetadataLedger

	mu    sync.RWMutex
	cache map[string]domain.DocumentMetadata
}

// NewDocumentService creates a document service and rebuilds the metadata
// cache from the ledger.
func NewDocumentService(
	registry driven.ExtractorRegistry,
	chk *chunker.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	ledger driven.MetadataLedger,
) (*DocumentService, error) {
	s := &DocumentService{
		registry: registry,
		chunker:  chk,
		embedder: embedder,
		store:    store,
		ledger:   ledger,
		cache:    make(map[string]domain.DocumentMetadata),
	}

	if ledger != nil {
		all, err := ledger.GetAll(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading ledger: %w", err)
		}
		for _, meta := range all {
			s.cache[meta.DocumentID] = meta
		}
		logger.Debug("Document cache rebuilt with %d entries", len(s.cache))
	}

	return s, nil
}

// Upload processes a document end to end. The ledger entry is written only
// after the chunks are in the vector store, so a failure at any earlier
// step leaves no metadata behind.
func (s *DocumentService) Upload(ctx context.Context, filename string, content []byte) (*domain.UploadResult, error) {
	start := time.Now()

	text, pages, fileType, err := s.extract(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	documentID := uuid.NewString()
	chunks, err := s.chunker.CreateChunks(text, documentID, filename, pages)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", filename, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrNoChunks)
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	uploadDate := time.Now().UTC()
	records, err := s.buildRecords(ctx, chunks, fileType, uploadDate)
	if err != nil {
		return nil, err
	}

	if err := s.store.Add(ctx, records); err != nil {
		return nil, fmt.Errorf("indexing %s: %w", filename, err)
	}

	meta := domain.DocumentMetadata{
		DocumentID:      documentID,
		DocumentName:    filename,
		UploadDate:      uploadDate,
		TotalChunks:     len(chunks),
		TotalCharacters: len([]rune(text)),
		FileType:        fileType,
	}
	if err := s.ledger.Add(ctx, meta); err != nil {
		// The chunks are indexed but unrecorded. Roll the index back so
		// the two stores stay consistent with each other.
		ids := make([]string, len(chunks))
		for i := range chunks {
			ids[i] = domain.ChunkID(documentID, i)
		}
		if delErr := s.store.Delete(ctx, ids); delErr != nil {
			logger.Warn("Rollback of %d chunks for %s failed: %v", len(ids), documentID, delErr)
		}
		return nil, fmt.Errorf("recording metadata for %s: %w", filename, err)
	}

	s.mu.Lock()
	s.cache[documentID] = meta
	s.mu.Unlock()

	logger.Info("Uploaded %s: %d chunks, %d characters", filename, len(chunks), meta.TotalCharacters)
	return &domain.UploadResult{
		DocumentID:      documentID,
		DocumentName:    filename,
		ChunksCreated:   len(chunks),
		TotalCharacters: meta.TotalCharacters,
		ProcessingTime:  time.Since(start),
		Success:         true,
	}, nil
}

// extract validates the input and returns the cleaned text, page spans in
// cleaned-text coordinates, and the file type.
func (s *DocumentService) extract(ctx context.Context, filename string, content []byte) (string, []domain.PageSpan, string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", nil, "", fmt.Errorf("filename is required: %w", domain.ErrInvalidInput)
	}
	if len(content) == 0 {
		return "", nil, "", fmt.Errorf("%s is empty: %w", filename, domain.ErrInvalidInput)
	}
	if !s.registry.IsSupported(filename) {
		return "", nil, "", fmt.Errorf("%s: %w (supported: %s)", filename,
			domain.ErrUnsupportedType, strings.Join(s.registry.SupportedExtensions(), ", "))
	}

	extraction, err := s.registry.Extract(ctx, content, filename)
	if err != nil {
		return "", nil, "", fmt.Errorf("extracting %s: %w", filename, err)
	}

	text := s.registry.Clean(extraction.Text)
	if text == "" {
		return "", nil, "", fmt.Errorf("%s: %w", filename, domain.ErrEmptyDocument)
	}

	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return text, extraction.Pages, fileType, nil
}

// buildRecords embeds the chunk texts in one batch and pairs each embedding
// with its chunk metadata.
func (s *DocumentService) buildRecords(ctx context.Context, chunks []domain.TextChunk, fileType string, uploadDate time.Time) ([]driven.Record, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]driven.Record, len(chunks))
	for i, c := range chunks {
		metadata := map[string]any{
			"document_id":   c.DocumentID,
			"document_name": c.DocumentName,
			"chunk_index":   c.Index,
			"total_chunks":  c.TotalChunks,
			"start_char":    c.StartChar,
			"end_char":      c.EndChar,
			"file_type":     fileType,
			"upload_date":   uploadDate.Format(time.RFC3339),
		}
		if c.PageNumber > 0 {
			metadata["page_number"] = c.PageNumber
		}
		records[i] = driven.Record{
			ID:        domain.ChunkID(c.DocumentID, c.Index),
			Text:      c.Text,
			Embedding: embeddings[i],
			Metadata:  metadata,
		}
	}
	return records, nil
}

// Delete removes a document's chunks and then its ledger entry. Chunk IDs
// are enumerated from the ledger's TotalChunks rather than queried from the
// store. If the store deletion fails the ledger entry is left intact, so a
// retry sees the document and can enumerate the same IDs again.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (*domain.DeletionResult, error) {
	s.mu.RLock()
	meta, ok := s.cache[documentID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	ids := make([]string, meta.TotalChunks)
	for i := range ids {
		ids[i] = domain.ChunkID(documentID, i)
	}
	if err := s.store.Delete(ctx, ids); err != nil {
		return nil, fmt.Errorf("deleting chunks for %s: %w", documentID, err)
	}

	if _, err := s.ledger.Delete(ctx, documentID); err != nil {
		return nil, fmt.Errorf("deleting ledger entry for %s: %w", documentID, err)
	}

	s.mu.Lock()
	delete(s.cache, documentID)
	s.mu.Unlock()

	logger.Info("Deleted %s (%d chunks)", documentID, meta.TotalChunks)
	return &domain.DeletionResult{
		DocumentID:    documentID,
		ChunksDeleted: meta.TotalChunks,
	}, nil
}

// List returns every known document, newest upload first.
func (s *DocumentService) List(_ context.Context) []domain.DocumentMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DocumentMetadata, 0, len(s.cache))
	for _, meta := range s.cache {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].UploadDate.After(out[j].UploadDate)
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out
}

// GetInfo returns metadata for one document.
func (s *DocumentService) GetInfo(_ context.Context, documentID string) (*domain.DocumentMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.cache[documentID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	return &meta, nil
}

// GetChunks returns a document's stored chunks sorted by chunk index.
func (s *DocumentService) GetChunks(ctx context.Context, documentID string) ([]domain.ChunkInfo, error) {
	if _, err := s.GetInfo(ctx, documentID); err != nil {
		return nil, err
	}

	records, err := s.store.Get(ctx, map[string]any{"document_id": documentID})
	if err != nil {
		return nil, fmt.Errorf("reading chunks for %s: %w", documentID, err)
	}

	chunks := make([]domain.ChunkInfo, len(records))
	for i, r := range records {
		chunks[i] = domain.ChunkInfo{
			ChunkID:      r.ID,
			Text:         r.Text,
			ChunkIndex:   metaInt(r.Metadata, "chunk_index"),
			TotalChunks:  metaInt(r.Metadata, "total_chunks"),
			DocumentID:   metaString(r.Metadata, "document_id"),
			DocumentName: metaString(r.Metadata, "document_name"),
			StartChar:    metaInt(r.Metadata, "start_char"),
			EndChar:      metaInt(r.Metadata, "end_char"),
			PageNumber:   metaInt(r.Metadata, "page_number"),
		}
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

// Preview chunks a document without embedding or storing anything.
func (s *DocumentService) Preview(ctx context.Context, filename string, content []byte) ([]domain.TextChunk, error) {
	text, pages, _, err := s.extract(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunker.CreateChunks(text, "preview", filename, pages)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", filename, err)
	}
	return chunks, nil
}

// EmbedTexts embeds raw texts and stores them under generated IDs,
// bypassing the document lifecycle. metadatas may be nil or must match
// texts in length.
func (s *DocumentService) EmbedTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts given: %w", domain.ErrInvalidInput)
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, fmt.Errorf("%d metadatas for %d texts: %w",
			len(metadatas), len(texts), domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}

	ids := make([]string, len(texts))
	records := make([]driven.Record, len(texts))
	for i, text := range texts {
		ids[i] = uuid.NewString()
		metadata := map[string]any{}
		if metadatas != nil && metadatas[i] != nil {
			metadata = metadatas[i]
		}
		records[i] = driven.Record{
			ID:        ids[i],
			Text:      text,
			Embedding: embeddings[i],
			Metadata:  metadata,
		}
	}

	if err := s.store.Add(ctx, records); err != nil {
		return nil, fmt.Errorf("storing %d texts: %w", len(texts), err)
	}
	return ids, nil
}

// DeleteItems removes explicit vector-store entries by ID.
func (s *DocumentService) DeleteItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("no ids given: %w", domain.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, ids); err != nil {
		return fmt.Errorf("deleting %d items: %w", len(ids), err)
	}
	return nil
}

// Wipe clears the vector store, the ledger, and the cache.
func (s *DocumentService) Wipe(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing vector store: %w", err)
	}
	if err := s.ledger.Clear(ctx); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}

	s.mu.Lock()
	s.cache = make(map[string]domain.DocumentMetadata)
	s.mu.Unlock()

	logger.Info("Wiped all documents")
	return nil
}

// metaInt reads an integer metadata value. JSON round trips through the
// sqlite store surface numbers as float64.
func metaInt(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// metaString reads a string metadata value.
func metaString(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}
