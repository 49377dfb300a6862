package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeChunks(docID string, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			DocumentID: docID,
			Index:      i,
			Text:       text,
			Embedding:  []float32{float32(i), 1, 0},
		}
	}
	return chunks
}

func TestUpsertDocumentCreatesThenUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.UpsertDocument(ctx, "Guide", "v1 content", "Manual", "")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := s.UpsertDocument(ctx, "Guide", "v2 content", "Manual", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "document ID must be stable across reingestion")
	assert.Equal(t, "v2 content", updated.Content)

	got, err := s.GetDocument(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2 content", got.Content)
}

func TestUpsertDocumentPrefersExternalID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.UpsertDocument(ctx, "Old Title", "body", "Notion", "page-123")
	require.NoError(t, err)

	// Same external ID with a different title still hits the same document.
	updated, err := s.UpsertDocument(ctx, "New Title", "new body", "Notion", "page-123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "new body", updated.Content)
}

func TestUpsertDocumentDistinctSources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.UpsertDocument(ctx, "Guide", "from notion", "Notion", "")
	require.NoError(t, err)
	b, err := s.UpsertDocument(ctx, "Guide", "typed in", "Manual", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "same title under different sources are different documents")
}

func TestReplaceChunksFullReplacement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc, err := s.UpsertDocument(ctx, "Doc", "content", "Manual", "")
	require.NoError(t, err)

	require.NoError(t, s.ReplaceChunks(ctx, doc.ID, makeChunks(doc.ID, "old zero", "old one", "old two")))
	require.NoError(t, s.ReplaceChunks(ctx, doc.ID, makeChunks(doc.ID, "new zero", "new one")))

	all, err := s.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2, "no old chunk may survive a replacement")
	assert.Equal(t, "new zero", all[0].Chunk.Text)
	assert.Equal(t, "new one", all[1].Chunk.Text)
	assert.Equal(t, 0, all[0].Chunk.Index)
	assert.Equal(t, 1, all[1].Chunk.Index)
}

func TestReplaceChunksIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc, err := s.UpsertDocument(ctx, "Doc", "content", "Manual", "")
	require.NoError(t, err)

	chunks := makeChunks(doc.ID, "alpha", "beta")
	require.NoError(t, s.ReplaceChunks(ctx, doc.ID, chunks))
	before, err := s.AllChunks(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceChunks(ctx, doc.ID, chunks))
	after, err := s.AllChunks(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestReplaceChunksUnknownDocument(t *testing.T) {
	s := newTestStore(t)

	err := s.ReplaceChunks(context.Background(), "no-such-id", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAllChunksStableOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.UpsertDocument(ctx, "A", "content a", "Manual", "")
	require.NoError(t, err)
	b, err := s.UpsertDocument(ctx, "B", "content b", "Manual", "")
	require.NoError(t, err)

	require.NoError(t, s.ReplaceChunks(ctx, a.ID, makeChunks(a.ID, "a0", "a1")))
	require.NoError(t, s.ReplaceChunks(ctx, b.ID, makeChunks(b.ID, "b0")))

	first, err := s.AllChunks(ctx)
	require.NoError(t, err)
	second, err := s.AllChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Chunks are grouped per document with ascending indices.
	seen := make(map[string]int)
	for _, cr := range first {
		last, ok := seen[cr.Chunk.DocumentID]
		if ok {
			assert.Equal(t, last+1, cr.Chunk.Index)
		} else {
			assert.Equal(t, 0, cr.Chunk.Index)
		}
		seen[cr.Chunk.DocumentID] = cr.Chunk.Index
	}
	require.Len(t, first, 3)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)

	doc, err := s.UpsertDocument(ctx, "Doc", "content", "Manual", "")
	require.NoError(t, err)
	require.NoError(t, s.ReplaceChunks(ctx, doc.ID, makeChunks(doc.ID, "one", "two", "three")))

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Documents: 1, Chunks: 3}, stats)
}

func TestGetDocumentNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryMatchesBoltContract(t *testing.T) {
	ctx := context.Background()
	for name, st := range map[string]interface {
		UpsertDocument(context.Context, string, string, string, string) (domain.Document, error)
		ReplaceChunks(context.Context, string, []domain.Chunk) error
		AllChunks(context.Context) ([]domain.CandidateResult, error)
	}{
		"bolt":   newTestStore(t),
		"memory": NewMemory(),
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := st.UpsertDocument(ctx, "Doc", "content", "Manual", "ext-1")
			require.NoError(t, err)
			require.NoError(t, st.ReplaceChunks(ctx, doc.ID, makeChunks(doc.ID, "only")))

			again, err := st.UpsertDocument(ctx, "Doc", "content2", "Manual", "ext-1")
			require.NoError(t, err)
			assert.Equal(t, doc.ID, again.ID)

			all, err := st.AllChunks(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "only", all[0].Chunk.Text)
			assert.Equal(t, "Doc", all[0].Document.Title)
		})
	}
}
