package chunker

import (
	"fmt"
	"strings"

	"nexus/internal/domain"
)

const (
	DefaultMaxChars = 1000
	DefaultOverlap  = 200
)

// Chunker splits raw text into overlapping fixed-size windows. Consecutive
// windows overlap by `overlap` characters so a concept spanning a boundary
// still appears fully in one chunk.
type Chunker struct {
	maxChars int
	overlap  int
}

// New validates the window parameters. Overlap must satisfy
// 0 <= overlap < maxChars.
func New(maxChars, overlap int) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: max_chars must be positive, got %d", domain.ErrConfiguration, maxChars)
	}
	if overlap < 0 || overlap >= maxChars {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < max_chars, got overlap=%d max_chars=%d",
			domain.ErrConfiguration, overlap, maxChars)
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}, nil
}

// Chunk splits text into normalized windows of at most maxChars characters.
// Whitespace runs collapse to a single space; empty windows are dropped
// without introducing index gaps. Pure: identical input yields identical
// output.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + c.maxChars
		if end > n {
			end = n
		}
		window := collapseWhitespace(string(runes[start:end]))
		if window != "" {
			chunks = append(chunks, window)
		}
		if end == n {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// MaxChars returns the configured window size.
func (c *Chunker) MaxChars() int { return c.maxChars }

// Overlap returns the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
