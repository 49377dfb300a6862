package port

import (
	"context"
	"time"
)

// SourceDocument is a raw document as supplied by an external source.
type SourceDocument struct {
	ID           string
	Title        string
	Content      string
	LastModified time.Time
}

// DocumentSource lists raw documents page by page (pull model).
type DocumentSource interface {
	// List returns one page of documents starting at cursor. An empty
	// cursor requests the first page; an empty next cursor ends iteration.
	List(ctx context.Context, cursor string) (docs []SourceDocument, next string, err error)

	// Name identifies the source and becomes the provenance tag on
	// ingested documents.
	Name() string
}
