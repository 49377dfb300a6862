package port

// Chunker splits raw text into an ordered sequence of normalized passages.
type Chunker interface {
	Chunk(text string) []string
}
