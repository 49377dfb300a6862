package search

import (
	"context"
	"fmt"
	"sync/atomic"

	"nexus/internal/domain"
	"nexus/internal/logger"
	"nexus/internal/port"
)

// Engine answers nearest-neighbor queries for the retrieval orchestrator.
// It prefers the flat in-memory index when one has been built and falls back
// to the exact corpus scan otherwise. The two strategies share the same
// ranking contract, so the fallback never changes semantics, only cost.
type Engine struct {
	store port.CorpusStore
	exact *ExactScanner
	index atomic.Pointer[FlatIndex]
}

func NewEngine(store port.CorpusStore) *Engine {
	return &Engine{
		store: store,
		exact: NewExactScanner(store),
	}
}

// Rebuild snapshots the corpus into a fresh index and swaps it in as a unit.
// Searches in flight keep reading the previous snapshot.
func (e *Engine) Rebuild(ctx context.Context) error {
	idx, err := BuildFlatIndex(ctx, e.store)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	e.index.Store(idx)
	logger.Debug("flat index rebuilt with %d chunks", idx.Size())
	return nil
}

// DropIndex discards the current snapshot; searches revert to exact scans.
func (e *Engine) DropIndex() {
	e.index.Store(nil)
}

// Indexed reports whether an index snapshot is currently active.
func (e *Engine) Indexed() bool {
	return e.index.Load() != nil
}

// Search returns the n most similar chunks for the query vector, scored by
// cosine similarity descending, ties in ascending corpus order. An empty
// corpus yields an empty result.
func (e *Engine) Search(ctx context.Context, query []float32, n int) ([]domain.CandidateResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: candidate count must be positive, got %d", domain.ErrInvalidArgument, n)
	}

	if idx := e.index.Load(); idx != nil {
		results, err := idx.Search(query, n)
		if err == nil {
			return results, nil
		}
		logger.Warn("index search failed, falling back to exact scan: %v", err)
	}

	return e.exact.Search(ctx, query, n)
}
