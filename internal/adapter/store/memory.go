package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"nexus/internal/domain"
)

// Memory is an in-memory CorpusStore used by tests and ephemeral setups.
// It mirrors the BoltStore contract, including stable AllChunks ordering.
type Memory struct {
	mu         sync.RWMutex
	docs       map[string]domain.Document
	chunks     map[string][]domain.Chunk
	byExternal map[string]string
	byTitleSrc map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		docs:       make(map[string]domain.Document),
		chunks:     make(map[string][]domain.Chunk),
		byExternal: make(map[string]string),
		byTitleSrc: make(map[string]string),
	}
}

func (s *Memory) UpsertDocument(ctx context.Context, title, content, source, externalID string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	if externalID != "" {
		id = s.byExternal[externalID]
	}
	if id == "" {
		id = s.byTitleSrc[title+"\x00"+source]
	}

	if id == "" {
		doc := domain.Document{
			ID:         uuid.NewString(),
			ExternalID: externalID,
			Title:      title,
			Source:     source,
			Content:    content,
		}
		s.docs[doc.ID] = doc
		if externalID != "" {
			s.byExternal[externalID] = doc.ID
		}
		s.byTitleSrc[title+"\x00"+source] = doc.ID
		return doc, nil
	}

	doc := s.docs[id]
	if doc.Source != source {
		delete(s.byTitleSrc, doc.Title+"\x00"+doc.Source)
		s.byTitleSrc[doc.Title+"\x00"+source] = id
	}
	doc.Content = content
	doc.Source = source
	s.docs[id] = doc
	return doc, nil
}

func (s *Memory) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[documentID]; !ok {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	replacement := make([]domain.Chunk, len(chunks))
	copy(replacement, chunks)
	s.chunks[documentID] = replacement
	return nil
}

func (s *Memory) AllChunks(ctx context.Context) ([]domain.CandidateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var results []domain.CandidateResult
	for _, id := range ids {
		doc := s.docs[id]
		doc.Content = ""
		for _, chunk := range s.chunks[id] {
			results = append(results, domain.CandidateResult{Document: doc, Chunk: chunk})
		}
	}
	return results, nil
}

func (s *Memory) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (s *Memory) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Memory) Stats(ctx context.Context) (domain.Stats, error) {
	if err := ctx.Err(); err != nil {
		return domain.Stats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.Stats{Documents: len(s.docs)}
	for _, chunks := range s.chunks {
		stats.Chunks += len(chunks)
	}
	return stats, nil
}

func (s *Memory) Close() error {
	return nil
}
