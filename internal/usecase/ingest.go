package usecase

import (
	"context"
	"fmt"
	"sync"

	"nexus/internal/domain"
	"nexus/internal/logger"
	"nexus/internal/port"
)

// IngestResult reports what a single document ingestion produced.
type IngestResult struct {
	Document   domain.Document
	ChunkCount int
}

// Ingestor turns raw documents into embedded chunks in the corpus store.
// Re-ingesting a document fully replaces its previous chunk set.
type Ingestor struct {
	store    port.CorpusStore
	chunker  port.Chunker
	embedder port.Embedder

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewIngestor(store port.CorpusStore, chunker port.Chunker, embedder port.Embedder) *Ingestor {
	return &Ingestor{
		store:    store,
		chunker:  chunker,
		embedder: embedder,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Ingest chunks, embeds and stores one document. Embedding happens before
// any write, so a provider failure leaves the previous corpus state intact.
func (in *Ingestor) Ingest(ctx context.Context, title, content, source, externalID string) (IngestResult, error) {
	if title == "" {
		return IngestResult{}, fmt.Errorf("%w: document title must not be empty", domain.ErrInvalidArgument)
	}

	unlock := in.lockDocument(externalID, title, source)
	defer unlock()

	texts := in.chunker.Chunk(content)

	var chunks []domain.Chunk
	if len(texts) > 0 {
		vectors, err := in.embedder.Embed(ctx, texts)
		if err != nil {
			return IngestResult{}, fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(vectors) != len(texts) {
			return IngestResult{}, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", domain.ErrProviderUnavailable, len(vectors), len(texts))
		}
		dim := in.embedder.Dimension()
		for i, v := range vectors {
			if len(v) != dim {
				return IngestResult{}, fmt.Errorf("%w: embedding %d has dimension %d, want %d", domain.ErrProviderUnavailable, i, len(v), dim)
			}
		}
		chunks = make([]domain.Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = domain.Chunk{Index: i, Text: text, Embedding: vectors[i]}
		}
	}

	doc, err := in.store.UpsertDocument(ctx, title, content, source, externalID)
	if err != nil {
		return IngestResult{}, err
	}

	if len(chunks) == 0 {
		logger.Warn("document %q produced no chunks, keeping its previous chunk set", title)
		return IngestResult{Document: doc, ChunkCount: 0}, nil
	}

	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}
	if err := in.store.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return IngestResult{}, err
	}
	return IngestResult{Document: doc, ChunkCount: len(chunks)}, nil
}

// IngestSource drains a document source page by page, invoking progress for
// each document processed. Individual document failures abort the run.
func (in *Ingestor) IngestSource(ctx context.Context, src port.DocumentSource, progress func(IngestResult)) (int, error) {
	total := 0
	cursor := ""
	for {
		docs, next, err := src.List(ctx, cursor)
		if err != nil {
			return total, fmt.Errorf("failed to list documents from %s: %w", src.Name(), err)
		}
		for _, d := range docs {
			res, err := in.Ingest(ctx, d.Title, d.Content, src.Name(), d.ID)
			if err != nil {
				return total, fmt.Errorf("failed to ingest %q: %w", d.Title, err)
			}
			total++
			if progress != nil {
				progress(res)
			}
		}
		if next == "" {
			return total, nil
		}
		cursor = next
	}
}

// lockDocument serializes concurrent ingestion of the same logical document
// while letting distinct documents proceed in parallel.
func (in *Ingestor) lockDocument(externalID, title, source string) func() {
	key := externalID
	if key == "" {
		key = title + "\x1f" + source
	}

	in.mu.Lock()
	lock, ok := in.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		in.locks[key] = lock
	}
	in.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
