package port

import "context"

// Reranker scores query-candidate pairs for relevance.
type Reranker interface {
	// Score returns one relevance score per candidate text, in input order.
	// Higher is more relevant. Reordering is the caller's job.
	Score(ctx context.Context, query string, texts []string) ([]float64, error)

	// ModelName returns the name of the reranking model.
	ModelName() string
}
