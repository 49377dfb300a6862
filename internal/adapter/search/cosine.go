package search

import "math"

// epsilon guards the cosine denominator so zero vectors score 0 instead of
// dividing by zero.
const epsilon = 1e-9

// Cosine returns the cosine similarity of a and b, accumulated in float64.
// Mismatched lengths and zero vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + epsilon)
}

// Normalize returns a unit-length copy of v. Zero vectors come back as an
// all-zero copy, which then scores 0 against everything.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	var n float64
	for _, x := range v {
		n += float64(x) * float64(x)
	}
	n = math.Sqrt(n)
	if n == 0 {
		return out
	}
	inv := 1 / n
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// norm returns the Euclidean length of v in float64.
func norm(v []float32) float64 {
	var n float64
	for _, x := range v {
		n += float64(x) * float64(x)
	}
	return math.Sqrt(n)
}

// dot returns the inner product of two equal-length vectors in float64.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
