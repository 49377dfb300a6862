package port

import "context"

// Embedder maps text to fixed-length numeric vectors.
type Embedder interface {
	// Embed generates one vector per input text, order-preserving.
	// Identical input yields identical output for a given provider.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension. It is stable for
	// the lifetime of the corpus.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
