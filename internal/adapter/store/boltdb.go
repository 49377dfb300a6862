package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"nexus/internal/domain"
)

var (
	bucketDocs        = []byte("docs")
	bucketChunks      = []byte("chunks")
	bucketExternalIDs = []byte("idx_external")
	bucketTitleSource = []byte("idx_title_source")
)

// chunkKeySep separates document ID and chunk index in chunk keys. Document
// IDs are UUIDs and never contain it, so prefix scans stay unambiguous.
const chunkKeySep = "/"

// BoltStore implements port.CorpusStore on BoltDB. Upserts and chunk
// replacement each run inside a single read-write transaction, so concurrent
// readers always observe either the old or the new chunk set, never a mix.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if needed) the corpus database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt db: %v", domain.ErrStorage, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketDocs, bucketChunks, bucketExternalIDs, bucketTitleSource}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return &BoltStore{db: db}, nil
}

type docRecord struct {
	ExternalID string `json:"external_id,omitempty"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	Content    string `json:"content,omitempty"`
}

type chunkRecord struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

func chunkKey(documentID string, index int) []byte {
	return []byte(fmt.Sprintf("%s%s%08d", documentID, chunkKeySep, index))
}

func titleSourceKey(title, source string) []byte {
	return []byte(title + "\x00" + source)
}

// UpsertDocument finds a document by externalID when non-empty, else by
// (title, source); creates it if absent, otherwise updates content and
// source in place. The document ID is assigned once and never changes.
func (s *BoltStore) UpsertDocument(ctx context.Context, title, content, source, externalID string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	var doc domain.Document
	err := s.db.Update(func(tx *bbolt.Tx) error {
		docs := tx.Bucket(bucketDocs)
		externals := tx.Bucket(bucketExternalIDs)
		titles := tx.Bucket(bucketTitleSource)

		var id string
		if externalID != "" {
			if v := externals.Get([]byte(externalID)); v != nil {
				id = string(v)
			}
		}
		if id == "" {
			if v := titles.Get(titleSourceKey(title, source)); v != nil {
				id = string(v)
			}
		}

		if id == "" {
			id = uuid.NewString()
			rec := docRecord{ExternalID: externalID, Title: title, Source: source, Content: content}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := docs.Put([]byte(id), data); err != nil {
				return err
			}
			if externalID != "" {
				if err := externals.Put([]byte(externalID), []byte(id)); err != nil {
					return err
				}
			}
			if err := titles.Put(titleSourceKey(title, source), []byte(id)); err != nil {
				return err
			}
			doc = domain.Document{ID: id, ExternalID: externalID, Title: title, Source: source, Content: content}
			return nil
		}

		data := docs.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("index points at missing document %s", id)
		}
		var rec docRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}

		// Source may change on reingestion; keep the title-source index in step.
		if rec.Source != source {
			if err := titles.Delete(titleSourceKey(rec.Title, rec.Source)); err != nil {
				return err
			}
			if err := titles.Put(titleSourceKey(rec.Title, source), []byte(id)); err != nil {
				return err
			}
		}
		rec.Content = content
		rec.Source = source

		updated, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := docs.Put([]byte(id), updated); err != nil {
			return err
		}
		doc = domain.Document{ID: id, ExternalID: rec.ExternalID, Title: rec.Title, Source: source, Content: content}
		return nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: upsert document %q: %v", domain.ErrStorage, title, err)
	}
	return doc, nil
}

// ReplaceChunks atomically swaps the document's chunk set. Delete and insert
// share one transaction; a failure rolls both back.
func (s *BoltStore) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketDocs).Get([]byte(documentID)) == nil {
			return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
		}

		b := tx.Bucket(bucketChunks)
		prefix := []byte(documentID + chunkKeySep)
		c := b.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		for _, chunk := range chunks {
			rec := chunkRecord{Text: chunk.Text, Embedding: chunk.Embedding}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put(chunkKey(documentID, chunk.Index), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: replace chunks for %s: %v", domain.ErrStorage, documentID, err)
	}
	return nil
}

// AllChunks returns every chunk joined with its document in stable key order:
// grouped by document ID, chunk index ascending within a document.
func (s *BoltStore) AllChunks(ctx context.Context) ([]domain.CandidateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []domain.CandidateResult
	err := s.db.View(func(tx *bbolt.Tx) error {
		docsByID := make(map[string]domain.Document)
		err := tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var rec docRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			docsByID[string(k)] = domain.Document{
				ID:         string(k),
				ExternalID: rec.ExternalID,
				Title:      rec.Title,
				Source:     rec.Source,
			}
			return nil
		})
		if err != nil {
			return err
		}

		return tx.Bucket(bucketChunks).ForEach(func(k, v []byte) error {
			id, index, err := parseChunkKey(k)
			if err != nil {
				return err
			}
			doc, ok := docsByID[id]
			if !ok {
				return fmt.Errorf("chunk %s references missing document %s", k, id)
			}
			var rec chunkRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			results = append(results, domain.CandidateResult{
				Document: doc,
				Chunk: domain.Chunk{
					DocumentID: id,
					Index:      index,
					Text:       rec.Text,
					Embedding:  rec.Embedding,
				},
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan chunks: %v", domain.ErrStorage, err)
	}
	return results, nil
}

// GetDocument returns a document by ID.
func (s *BoltStore) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		var rec docRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		doc = domain.Document{
			ID:         id,
			ExternalID: rec.ExternalID,
			Title:      rec.Title,
			Source:     rec.Source,
			Content:    rec.Content,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Document{}, err
		}
		return domain.Document{}, fmt.Errorf("%w: get document %s: %v", domain.ErrStorage, id, err)
	}
	return doc, nil
}

// ListDocuments returns all documents, content included.
func (s *BoltStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var rec docRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			docs = append(docs, domain.Document{
				ID:         string(k),
				ExternalID: rec.ExternalID,
				Title:      rec.Title,
				Source:     rec.Source,
				Content:    rec.Content,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", domain.ErrStorage, err)
	}
	return docs, nil
}

// Stats returns corpus-wide document and chunk counts.
func (s *BoltStore) Stats(ctx context.Context) (domain.Stats, error) {
	if err := ctx.Err(); err != nil {
		return domain.Stats{}, err
	}

	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		stats.Documents = tx.Bucket(bucketDocs).Stats().KeyN
		stats.Chunks = tx.Bucket(bucketChunks).Stats().KeyN
		return nil
	})
	if err != nil {
		return domain.Stats{}, fmt.Errorf("%w: stats: %v", domain.ErrStorage, err)
	}
	return stats, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func parseChunkKey(k []byte) (documentID string, index int, err error) {
	i := bytes.LastIndexByte(k, chunkKeySep[0])
	if i < 0 {
		return "", 0, fmt.Errorf("malformed chunk key %q", k)
	}
	if _, err := fmt.Sscanf(string(k[i+1:]), "%d", &index); err != nil {
		return "", 0, fmt.Errorf("malformed chunk key %q: %v", k, err)
	}
	return string(k[:i]), index, nil
}
