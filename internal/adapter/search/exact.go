package search

import (
	"context"
	"sort"

	"nexus/internal/domain"
	"nexus/internal/port"
)

// ExactScanner computes cosine similarity against every chunk in the corpus.
// O(corpus size) per query, but always available; it is the fallback when no
// approximate index has been built.
type ExactScanner struct {
	store port.CorpusStore
}

func NewExactScanner(store port.CorpusStore) *ExactScanner {
	return &ExactScanner{store: store}
}

// Search returns the n most similar chunks, sorted by similarity descending.
// Ties keep ascending corpus scan order. An empty corpus yields an empty
// result, not an error.
func (s *ExactScanner) Search(ctx context.Context, query []float32, n int) ([]domain.CandidateResult, error) {
	candidates, err := s.store.AllChunks(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.CandidateResult{}, nil
	}

	for i := range candidates {
		candidates[i].Score = Cosine(candidates[i].Chunk.Embedding, query)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates, nil
}
