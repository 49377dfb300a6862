package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain"
)

// denseText builds a string with no whitespace so window boundaries are
// directly observable in the output.
func denseText(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = rune('a' + i%26)
	}
	return string(b)
}

func TestChunkWindowBoundaries(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	text := denseText(1500)
	chunks := c.Chunk(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, text[0:1000], chunks[0])
	assert.Equal(t, text[800:1500], chunks[1])
}

func TestChunkDeterminism(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := denseText(950) + " tail with   spaces\n and lines"
	first := c.Chunk(text)
	second := c.Chunk(text)

	assert.Equal(t, first, second)
}

func TestChunkOverlapProperty(t *testing.T) {
	c, err := New(100, 25)
	require.NoError(t, err)

	text := denseText(1000)
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 2)

	for i := 0; i+1 < len(chunks); i++ {
		cur := chunks[i]
		next := chunks[i+1]
		suffix := cur[len(cur)-25:]
		assert.True(t, strings.HasPrefix(next, suffix),
			"chunk %d should start with the last 25 chars of chunk %d", i+1, i)
	}
}

func TestChunkCollapsesWhitespace(t *testing.T) {
	c, err := New(1000, 0)
	require.NoError(t, err)

	chunks := c.Chunk("alpha  beta\t\tgamma\n\ndelta")
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma delta", chunks[0])
}

func TestChunkDropsEmptyWindows(t *testing.T) {
	c, err := New(10, 0)
	require.NoError(t, err)

	// Second window is all whitespace and must be dropped without a gap.
	text := "abcdefghij          0123456789"
	chunks := c.Chunk(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "0123456789", chunks[1])
}

func TestChunkEmptyInput(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)

	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\t  "))
}

func TestChunkShortInput(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	chunks := c.Chunk("just one small passage")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just one small passage", chunks[0])
}

func TestNewRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name     string
		maxChars int
		overlap  int
	}{
		{"zero max_chars", 0, 0},
		{"negative max_chars", -5, 0},
		{"negative overlap", 100, -1},
		{"overlap equals max_chars", 100, 100},
		{"overlap exceeds max_chars", 100, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.maxChars, tc.overlap)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		})
	}
}
