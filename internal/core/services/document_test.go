package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walnut-labs/walnut/internal/adapters/driven/ledger/file"
	"github.com/walnut-labs/walnut/internal/adapters/driven/vectorstore/memory"
	"github.com/walnut-labs/walnut/internal/chunker"
	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
	"github.com/walnut-labs/walnut/internal/extract"
)

// stubEmbedder returns deterministic embeddings without a model. Fixed
// vectors can be pinned per text; everything else gets a length-derived
// vector.
type stubEmbedder struct {
	fixed   map[string][]float32
	failErr error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.failErr != nil {
		return nil, e.failErr
	}
	if v, ok := e.fixed[text]; ok {
		return v, nil
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int              { return 3 }
func (e *stubEmbedder) ModelName() string            { return "stub" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

// failingStore wraps a real store and fails selected operations.
type failingStore struct {
	driven.VectorStore
	addErr    error
	deleteErr error
}

func (s *failingStore) Add(ctx context.Context, records []driven.Record) error {
	if s.addErr != nil {
		return s.addErr
	}
	return s.VectorStore.Add(ctx, records)
}

func (s *failingStore) Delete(ctx context.Context, ids []string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.VectorStore.Delete(ctx, ids)
}

// failingLedger wraps a real ledger and fails Add.
type failingLedger struct {
	driven.MetadataLedger
	addErr error
}

func (l *failingLedger) Add(ctx context.Context, meta domain.DocumentMetadata) error {
	if l.addErr != nil {
		return l.addErr
	}
	return l.MetadataLedger.Add(ctx, meta)
}

type fixture struct {
	svc    *DocumentService
	store  driven.VectorStore
	ledger driven.MetadataLedger
}

func newFixture(t *testing.T, embedder driven.EmbeddingService, store driven.VectorStore, ledger driven.MetadataLedger) fixture {
	t.Helper()

	if embedder == nil {
		embedder = &stubEmbedder{}
	}
	if store == nil {
		store = memory.NewStore()
	}
	if ledger == nil {
		var err error
		ledger, err = file.NewLedger(t.TempDir())
		require.NoError(t, err)
	}

	chk, err := chunker.New(chunker.WithChunkSize(80), chunker.WithOverlapSize(20))
	require.NoError(t, err)

	svc, err := NewDocumentService(extract.Default(), chk, embedder, store, ledger)
	require.NoError(t, err)
	return fixture{svc: svc, store: store, ledger: ledger}
}

// sampleText has enough sentences to produce several 80-char chunks.
const sampleText = "The quick brown fox jumps over the lazy dog near the river. " +
	"A second sentence keeps the chunker busy with more words to merge. " +
	"The third sentence pushes the buffer past the configured budget. " +
	"Finally a fourth sentence closes out the sample document."

func TestDocumentService_Upload(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.DocumentID)
	assert.Equal(t, "sample.txt", result.DocumentName)
	assert.Greater(t, result.ChunksCreated, 1)

	// Ledger entry matches the stored chunk count.
	meta, err := f.ledger.Get(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, result.ChunksCreated, meta.TotalChunks)
	assert.Equal(t, "txt", meta.FileType)

	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.ChunksCreated, count)
}

func TestDocumentService_Upload_InvalidInput(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, "sample.txt", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Upload(ctx, "", []byte("content"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Upload(ctx, "image.png", []byte("content"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = f.svc.Upload(ctx, "blank.txt", []byte("   \n\t  "))
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestDocumentService_Upload_EmbedFailureLeavesNothing(t *testing.T) {
	store := memory.NewStore()
	f := newFixture(t, &stubEmbedder{failErr: errors.New("model offline")}, store, nil)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.Error(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	all, err := f.ledger.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDocumentService_Upload_IndexFailureLeavesNoLedgerEntry(t *testing.T) {
	store := &failingStore{VectorStore: memory.NewStore(), addErr: errors.New("disk full")}
	f := newFixture(t, nil, store, nil)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.Error(t, err)

	all, err := f.ledger.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.svc.List(ctx))
}

func TestDocumentService_Upload_LedgerFailureRollsBackIndex(t *testing.T) {
	store := memory.NewStore()
	realLedger, err := file.NewLedger(t.TempDir())
	require.NoError(t, err)
	ledger := &failingLedger{MetadataLedger: realLedger, addErr: errors.New("read-only fs")}
	f := newFixture(t, nil, store, ledger)
	ctx := context.Background()

	_, err = f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.Error(t, err)

	// The indexed chunks were rolled back.
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDocumentService_Delete(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)

	deletion, err := f.svc.Delete(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, result.ChunksCreated, deletion.ChunksDeleted)

	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = f.svc.GetInfo(ctx, result.DocumentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	_, err := f.svc.Delete(context.Background(), "no-such-doc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete_StoreFailureKeepsLedger(t *testing.T) {
	inner := memory.NewStore()
	store := &failingStore{VectorStore: inner}
	f := newFixture(t, nil, store, nil)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)

	store.deleteErr = errors.New("store offline")
	_, err = f.svc.Delete(ctx, result.DocumentID)
	require.Error(t, err)

	// The document is still known, so the delete can be retried.
	meta, err := f.svc.GetInfo(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, result.ChunksCreated, meta.TotalChunks)

	store.deleteErr = nil
	_, err = f.svc.Delete(ctx, result.DocumentID)
	require.NoError(t, err)
}

func TestDocumentService_ListNewestFirst(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := f.svc.Upload(ctx, name, []byte(sampleText))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	docs := f.svc.List(ctx)
	require.Len(t, docs, 3)
	assert.Equal(t, "c.txt", docs[0].DocumentName)
	assert.Equal(t, "a.txt", docs[2].DocumentName)
}

func TestDocumentService_GetChunksSorted(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)

	chunks, err := f.svc.GetChunks(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, result.ChunksCreated)

	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, domain.ChunkID(result.DocumentID, i), c.ChunkID)
		assert.Equal(t, result.ChunksCreated, c.TotalChunks)
		assert.Equal(t, "sample.txt", c.DocumentName)
		assert.NotEmpty(t, c.Text)
	}

	_, err = f.svc.GetChunks(ctx, "no-such-doc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_CacheRebuiltFromLedger(t *testing.T) {
	dir := t.TempDir()
	ledger, err := file.NewLedger(dir)
	require.NoError(t, err)

	store := memory.NewStore()
	f := newFixture(t, nil, store, ledger)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)

	// A fresh service over the same ledger sees the document.
	reloaded, err := file.NewLedger(dir)
	require.NoError(t, err)
	restarted := newFixture(t, nil, store, reloaded)

	meta, err := restarted.svc.GetInfo(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "sample.txt", meta.DocumentName)
}

func TestDocumentService_Preview(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	chunks, err := f.svc.Preview(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)

	// Nothing was embedded or stored.
	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	all, err := f.ledger.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDocumentService_EmbedTexts(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	ids, err := f.svc.EmbedTexts(ctx,
		[]string{"alpha", "beta"},
		[]map[string]any{{"topic": "a"}, {"topic": "b"}})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, f.svc.DeleteItems(ctx, ids[:1]))
	count, err = f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentService_EmbedTexts_InvalidInput(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	_, err := f.svc.EmbedTexts(ctx, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.EmbedTexts(ctx, []string{"a", "b"}, []map[string]any{{"x": 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.svc.DeleteItems(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_Wipe(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, "sample.txt", []byte(sampleText))
	require.NoError(t, err)

	require.NoError(t, f.svc.Wipe(ctx))

	count, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, f.svc.List(ctx))

	all, err := f.ledger.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
