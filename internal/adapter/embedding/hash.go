package embedding

import (
	"context"
	"math"
	"math/rand"
)

// HashDimension is the vector width of the hashing embedder.
const HashDimension = 384

// hashSeed fixes the projection matrix so embeddings are reproducible
// across processes.
const hashSeed = 42

// HashEmbedder is a deterministic, provider-free embedder: it projects a
// byte histogram of the text through a fixed random matrix. Quality is far
// below a learned model, but it keeps search functional with no backend and
// gives tests a stable vectorizer.
type HashEmbedder struct {
	dimension  int
	projection [][]float64
}

func NewHashEmbedder() *HashEmbedder {
	rng := rand.New(rand.NewSource(hashSeed))
	projection := make([][]float64, HashDimension)
	for i := range projection {
		row := make([]float64, 256)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		projection[i] = row
	}
	return &HashEmbedder{dimension: HashDimension, projection: projection}
}

// Embed maps each text to a unit-length projection of its byte histogram.
// Identical input always yields identical output.
func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

func (e *HashEmbedder) embedOne(text string) []float32 {
	var hist [256]float64
	for _, b := range []byte(text) {
		hist[b]++
	}
	var histNorm float64
	for _, v := range hist {
		histNorm += v * v
	}
	histNorm = math.Sqrt(histNorm) + 1e-9

	vec := make([]float64, e.dimension)
	var norm float64
	for i, row := range e.projection {
		var sum float64
		for j, v := range hist {
			if v != 0 {
				sum += row[j] * (v / histNorm)
			}
		}
		vec[i] = sum
		norm += sum * sum
	}
	norm = math.Sqrt(norm) + 1e-9

	out := make([]float32, e.dimension)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func (e *HashEmbedder) Dimension() int { return e.dimension }

func (e *HashEmbedder) ModelName() string { return "hash-projection" }
