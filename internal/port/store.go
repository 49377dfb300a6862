package port

import (
	"context"

	"nexus/internal/domain"
)

// CorpusStore is durable keyed storage for documents and their chunks.
type CorpusStore interface {
	// UpsertDocument finds an existing document by externalID when non-empty,
	// else by (title, source); creates it if absent, otherwise updates
	// content and source in place. The document ID never changes.
	UpsertDocument(ctx context.Context, title, content, source, externalID string) (domain.Document, error)

	// ReplaceChunks atomically deletes all existing chunks for the document
	// and inserts the new ordered set. The store is never left with a mixed
	// old/new chunk set.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// AllChunks returns every chunk joined with its document, score zero.
	// Iteration order is stable across calls on an unchanged corpus.
	AllChunks(ctx context.Context) ([]domain.CandidateResult, error)

	// GetDocument returns a document by ID, or domain.ErrNotFound.
	GetDocument(ctx context.Context, id string) (domain.Document, error)

	// ListDocuments returns all documents without content ordering guarantees.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Stats returns corpus-wide counts.
	Stats(ctx context.Context) (domain.Stats, error)

	Close() error
}
