package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nexus/internal/adapter/search"
	"nexus/internal/domain"
	"nexus/internal/logger"
	"nexus/internal/port"
)

// Retriever answers similarity queries over the indexed corpus. When a
// reranker is present it rescores a wider candidate window before the final
// cut; when the reranker fails the whole batch falls back to similarity
// order.
type Retriever struct {
	embedder  port.Embedder
	engine    *search.Engine
	reranker  port.Reranker
	preselect int
}

func NewRetriever(embedder port.Embedder, engine *search.Engine, reranker port.Reranker, preselect int) *Retriever {
	return &Retriever{
		embedder:  embedder,
		engine:    engine,
		reranker:  reranker,
		preselect: preselect,
	}
}

// Retrieve returns up to k results for the query, best first.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be blank", domain.ErrInvalidArgument)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: result count must be at least 1, got %d", domain.ErrInvalidArgument, k)
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for one query", domain.ErrProviderUnavailable, len(vectors))
	}

	candidates, err := r.engine.Search(ctx, vectors[0], r.candidateCount(k))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.SearchResult{}, nil
	}

	if r.reranker != nil {
		candidates = r.rerank(ctx, query, candidates)
	}
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.SearchResult{
			DocumentTitle: c.Document.Title,
			ChunkIndex:    c.Chunk.Index,
			Score:         c.Score,
			Text:          c.Chunk.Text,
		}
	}
	return results, nil
}

// candidateCount widens the similarity pass when a rerank pass follows, so
// the reranker can promote chunks beyond the top k.
func (r *Retriever) candidateCount(k int) int {
	if r.reranker == nil {
		return k
	}
	if r.preselect > 0 {
		if r.preselect < k {
			return k
		}
		return r.preselect
	}
	n := 5 * k
	if n < 10 {
		n = 10
	}
	return n
}

// rerank rescores the candidate batch. Any failure keeps the whole batch on
// similarity scores; partial rescoring would make result order incomparable.
func (r *Retriever) rerank(ctx context.Context, query string, candidates []domain.CandidateResult) []domain.CandidateResult {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Chunk.Text
	}

	scores, err := r.reranker.Score(ctx, query, texts)
	if err != nil {
		logger.Warn("reranking failed, falling back to similarity order: %v", err)
		return candidates
	}
	if len(scores) != len(candidates) {
		logger.Warn("reranker returned %d scores for %d candidates, falling back to similarity order", len(scores), len(candidates))
		return candidates
	}

	reranked := make([]domain.CandidateResult, len(candidates))
	copy(reranked, candidates)
	for i := range reranked {
		reranked[i].Score = scores[i]
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	return reranked
}
