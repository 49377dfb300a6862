package search

import (
	"context"
	"fmt"
	"sort"

	"nexus/internal/domain"
	"nexus/internal/port"
)

// FlatIndex is an exhaustive in-memory index holding normalized embeddings
// with their original norms precomputed. It is a snapshot: built from a full
// corpus scan and never mutated, so concurrent searches need no locking.
// Scores use the same epsilon-guarded cosine as the exact scan, so the two
// rankings agree up to floating-point tolerance for any input, including
// near-zero vectors.
type FlatIndex struct {
	dimension int
	vectors   [][]float32
	norms     []float64
	refs      []domain.CandidateResult
}

// BuildFlatIndex snapshots the corpus into a new index. The caller swaps it
// in as a unit; see Engine.Rebuild.
func BuildFlatIndex(ctx context.Context, store port.CorpusStore) (*FlatIndex, error) {
	candidates, err := store.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	idx := &FlatIndex{
		vectors: make([][]float32, len(candidates)),
		norms:   make([]float64, len(candidates)),
		refs:    candidates,
	}
	for i := range candidates {
		emb := candidates[i].Chunk.Embedding
		if idx.dimension == 0 {
			idx.dimension = len(emb)
		} else if len(emb) != idx.dimension {
			return nil, fmt.Errorf("%w: chunk %s/%d has dimension %d, index has %d",
				domain.ErrConfiguration, candidates[i].Chunk.DocumentID, candidates[i].Chunk.Index,
				len(emb), idx.dimension)
		}
		idx.vectors[i] = Normalize(emb)
		idx.norms[i] = norm(emb)
	}
	return idx, nil
}

// Size returns the number of indexed chunks.
func (idx *FlatIndex) Size() int {
	return len(idx.refs)
}

// Search returns the n nearest chunks by cosine similarity, sorted
// descending with ties in ascending corpus order.
func (idx *FlatIndex) Search(query []float32, n int) ([]domain.CandidateResult, error) {
	if len(idx.refs) == 0 {
		return []domain.CandidateResult{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrInvalidArgument, len(query), idx.dimension)
	}

	// dot(unit vector, query) * norm recovers the raw inner product, so the
	// denominator can take the same form the exact scan uses.
	qn := norm(query)
	results := make([]domain.CandidateResult, len(idx.refs))
	for i, ref := range idx.refs {
		ref.Score = dot(idx.vectors[i], query) * idx.norms[i] / (idx.norms[i]*qn + epsilon)
		results[i] = ref
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if n < len(results) {
		results = results[:n]
	}
	return results, nil
}
