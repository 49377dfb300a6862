package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/adapter/store"
	"nexus/internal/domain"
)

func seedCorpus(t *testing.T, embeddings map[string][][]float32) *store.Memory {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	for title, vectors := range embeddings {
		doc, err := s.UpsertDocument(ctx, title, "content of "+title, "Manual", "")
		require.NoError(t, err)
		chunks := make([]domain.Chunk, len(vectors))
		for i, v := range vectors {
			chunks[i] = domain.Chunk{
				DocumentID: doc.ID,
				Index:      i,
				Text:       title,
				Embedding:  v,
			}
		}
		require.NoError(t, s.ReplaceChunks(ctx, doc.ID, chunks))
	}
	return s
}

func TestExactAndFlatAgree(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"right":    {{1, 0, 0}, {0.9, 0.1, 0}},
		"up":       {{0, 1, 0}},
		"forward":  {{0, 0, 1}},
		"diagonal": {{0.5, 0.5, 0}, {0.3, 0.3, 0.9}},
	})

	exact := NewExactScanner(s)
	flat, err := BuildFlatIndex(ctx, s)
	require.NoError(t, err)

	queries := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.7, 0.7, 0.1},
		{0, 0, 0}, // zero query scores everything 0 in both strategies
	}

	for _, q := range queries {
		for _, k := range []int{1, 3, 10} {
			want, err := exact.Search(ctx, q, k)
			require.NoError(t, err)
			got, err := flat.Search(q, k)
			require.NoError(t, err)

			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Chunk.DocumentID, got[i].Chunk.DocumentID)
				assert.Equal(t, want[i].Chunk.Index, got[i].Chunk.Index)
				assert.InDelta(t, want[i].Score, got[i].Score, 1e-6)
			}
		}
	}
}

func TestExactAndFlatAgreeOnNearZeroVectors(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"tiny":   {{1e-12, 0, 0}},
		"small":  {{1e-7, 1e-7, 0}},
		"normal": {{0.6, 0.8, 0}},
	})

	exact := NewExactScanner(s)
	flat, err := BuildFlatIndex(ctx, s)
	require.NoError(t, err)

	queries := [][]float32{
		{1, 0, 0},
		{1e-12, 0, 0}, // tiny query against a tiny chunk must not score ~1
		{1e-7, 1e-7, 1e-7},
	}

	for _, q := range queries {
		want, err := exact.Search(ctx, q, 3)
		require.NoError(t, err)
		got, err := flat.Search(q, 3)
		require.NoError(t, err)

		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Document.Title, got[i].Document.Title)
			assert.InDelta(t, want[i].Score, got[i].Score, 1e-6)
		}
	}

	// The epsilon denominator collapses vanishing vectors toward zero in
	// both strategies instead of rescaling them to full similarity.
	got, err := flat.Search([]float32{1e-12, 0, 0}, 3)
	require.NoError(t, err)
	for _, r := range got {
		assert.Less(t, r.Score, 1e-3)
	}
}

func TestTiesKeepCorpusOrder(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"first":  {{0, 1, 0}},
		"second": {{0, 1, 0}},
		"third":  {{0, 1, 0}},
	})

	scanOrder, err := s.AllChunks(ctx)
	require.NoError(t, err)

	exact := NewExactScanner(s)
	results, err := exact.Search(ctx, []float32{0, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	flat, err := BuildFlatIndex(ctx, s)
	require.NoError(t, err)
	indexed, err := flat.Search([]float32{0, 1, 0}, 3)
	require.NoError(t, err)

	for i := range scanOrder {
		assert.Equal(t, scanOrder[i].Chunk.DocumentID, results[i].Chunk.DocumentID)
		assert.Equal(t, scanOrder[i].Chunk.DocumentID, indexed[i].Chunk.DocumentID)
	}
}

func TestZeroVectorScoresZero(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"zeroed": {{0, 0, 0}},
		"real":   {{1, 0, 0}},
	})

	exact := NewExactScanner(s)
	results, err := exact.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "real", results[0].Document.Title)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestEngineValidatesCandidateCount(t *testing.T) {
	e := NewEngine(store.NewMemory())

	_, err := e.Search(context.Background(), []float32{1}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestEngineEmptyCorpus(t *testing.T) {
	e := NewEngine(store.NewMemory())

	results, err := e.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineRebuildSwapsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"only": {{1, 0, 0}},
	})
	e := NewEngine(s)
	assert.False(t, e.Indexed())

	require.NoError(t, e.Rebuild(ctx))
	assert.True(t, e.Indexed())

	// A new document is invisible until the next rebuild; the snapshot is
	// immutable between swaps.
	doc, err := s.UpsertDocument(ctx, "later", "content", "Manual", "")
	require.NoError(t, err)
	require.NoError(t, s.ReplaceChunks(ctx, doc.ID, []domain.Chunk{
		{DocumentID: doc.ID, Index: 0, Text: "later", Embedding: []float32{0, 1, 0}},
	}))

	stale, err := e.Search(ctx, []float32{0, 1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	require.NoError(t, e.Rebuild(ctx))
	fresh, err := e.Search(ctx, []float32{0, 1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, "later", fresh[0].Document.Title)
}

func TestEngineFallsBackWithoutIndex(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"doc": {{1, 0, 0}, {0, 1, 0}},
	})
	e := NewEngine(s)

	results, err := e.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Chunk.Index)
}

func TestEngineIndexDimensionMismatchFallsBack(t *testing.T) {
	ctx := context.Background()
	s := seedCorpus(t, map[string][][]float32{
		"doc": {{1, 0, 0}},
	})
	e := NewEngine(s)
	require.NoError(t, e.Rebuild(ctx))

	// Query of the wrong width fails in the index and degrades to the
	// exact scan, which scores mismatched vectors 0 instead of erroring.
	results, err := e.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}
