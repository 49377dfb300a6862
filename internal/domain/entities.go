package domain

// Document is the unit of ingestion. The ID is assigned on first ingestion
// and never changes; reingestion replaces Content in place.
type Document struct {
	ID         string
	ExternalID string
	Title      string
	Source     string
	Content    string
}

// Chunk is a bounded, overlapping passage of a document and the atomic unit
// of retrieval. Index values are contiguous from 0 within a document.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
	Embedding  []float32
}

// CandidateResult pairs a chunk with its document and a relevance score.
// The score comes from the similarity engine and may later be overwritten
// by a reranker; higher is always more relevant.
type CandidateResult struct {
	Document Document
	Chunk    Chunk
	Score    float64
}

// SearchResult is the attributed row returned to callers.
type SearchResult struct {
	DocumentTitle string  `json:"document_title"`
	ChunkIndex    int     `json:"chunk_index"`
	Score         float64 `json:"score"`
	Text          string  `json:"text"`
}

// Stats holds corpus-wide counts.
type Stats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}
