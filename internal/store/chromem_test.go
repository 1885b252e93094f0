package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVectors() ([]string, [][]float32, []string, []map[string]string) {
	ids := []string{"ders.txt_0", "ders.txt_1", "ders.txt_2"}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	documents := []string{"kapsülleme", "kalıtım", "çok biçimlilik"}
	metadatas := []map[string]string{
		{"source": "ders.txt"},
		{"source": "ders.txt"},
		{"source": "ders.txt"},
	}
	return ids, embeddings, documents, metadatas
}

func TestChromemQueryBeforeReset(t *testing.T) {
	s := NewMemoryStore("test_collection")

	// absent collection yields zero results, not an error
	results, err := s.Query(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestChromemResetUpsertQuery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test_collection")
	require.NoError(t, s.Reset(ctx))

	ids, embeddings, documents, metadatas := testVectors()
	require.NoError(t, s.Upsert(ctx, ids, embeddings, documents, metadatas))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	results, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "kapsülleme", results[0].Content)
	assert.Equal(t, "ders.txt_0", results[0].ID)
	assert.Equal(t, "ders.txt", results[0].Metadata["source"])
}

func TestChromemQueryClampsK(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test_collection")
	require.NoError(t, s.Reset(ctx))

	ids, embeddings, documents, metadatas := testVectors()
	require.NoError(t, s.Upsert(ctx, ids, embeddings, documents, metadatas))

	// k larger than the collection must not error
	results, err := s.Query(ctx, []float32{0, 1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestChromemResetDropsExistingRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test_collection")
	require.NoError(t, s.Reset(ctx))

	ids, embeddings, documents, metadatas := testVectors()
	require.NoError(t, s.Upsert(ctx, ids, embeddings, documents, metadatas))

	require.NoError(t, s.Reset(ctx))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpsertRejectsMisalignedInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test_collection")
	require.NoError(t, s.Reset(ctx))

	ids, embeddings, documents, metadatas := testVectors()
	err := s.Upsert(ctx, ids[:2], embeddings, documents, metadatas)
	assert.Error(t, err)
}
