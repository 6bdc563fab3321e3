package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walnut-labs/walnut/internal/core/ports/driven"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := NewStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, embedding []float32, docID string, index int) driven.Record {
	return driven.Record{
		ID:        id,
		Text:      "text for " + id,
		Embedding: embedding,
		Metadata:  map[string]any{"document_id": docID, "chunk_index": index},
	}
}

func TestStore_AddAndGet(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []driven.Record{
		record("doc-1_chunk_0", []float32{1, 0, 0}, "doc-1", 0),
		record("doc-1_chunk_1", []float32{0, 1, 0}, "doc-1", 1),
		record("doc-2_chunk_0", []float32{0, 0, 1}, "doc-2", 0),
	}))

	got, err := s.Get(ctx, map[string]any{"document_id": "doc-1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Numeric filter values survive the JSON round trip.
	got, err = s.Get(ctx, map[string]any{"document_id": "doc-1", "chunk_index": 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "doc-1_chunk_1", got[0].ID)
	assert.Equal(t, []float32{0, 1, 0}, got[0].Embedding)
}

func TestStore_AddUpserts(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []driven.Record{record("a", []float32{1, 0}, "doc-1", 0)}))
	require.NoError(t, s.Add(ctx, []driven.Record{record("a", []float32{0, 1}, "doc-1", 0)}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := s.Get(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float32{0, 1}, got[0].Embedding)
}

func TestStore_QueryRanking(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []driven.Record{
		record("a", []float32{1, 0}, "doc-1", 0),
		record("b", []float32{0, 1}, "doc-1", 1),
		record("c", []float32{0.9, 0.1}, "doc-2", 0),
	}))

	hits, err := s.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "c", hits[1].ID)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []driven.Record{
		record("a", []float32{1, 0}, "doc-1", 0),
		record("b", []float32{0, 1}, "doc-1", 1),
	}))

	require.NoError(t, s.Delete(ctx, []string{"a", "never-existed"}))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.Clear(ctx))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, []driven.Record{
		record("a", []float32{0.5, -0.25}, "doc-1", 0),
	}))
	require.NoError(t, s.Close())

	reopened := openStore(t, dir)
	got, err := reopened.Get(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "text for a", got[0].Text)
	assert.Equal(t, []float32{0.5, -0.25}, got[0].Embedding)
}
