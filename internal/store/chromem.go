package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
)

const compress = false

// ChromemStore keeps the collection in a directory-backed chromem-go
// database, the serving-time default. The ingestion process and the chat
// service must point at the same path and collection name.
type ChromemStore struct {
	db   *chromem.DB
	name string
}

func NewChromemStore(dbPath, collectionName string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dbPath, compress)
	if err != nil {
		return nil, fmt.Errorf("chromem: open database: %w", err)
	}
	return &ChromemStore{db: db, name: collectionName}, nil
}

// NewMemoryStore is the in-memory variant used in tests.
func NewMemoryStore(collectionName string) *ChromemStore {
	return &ChromemStore{db: chromem.NewDB(), name: collectionName}
}

func (s *ChromemStore) Reset(ctx context.Context) error {
	// deleting a missing collection is a no-op in chromem
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("chromem: delete collection: %w", err)
	}
	if _, err := s.db.CreateCollection(s.name, nil, nil); err != nil {
		return fmt.Errorf("chromem: create collection: %w", err)
	}
	return nil
}

func (s *ChromemStore) Upsert(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error {
	if err := checkAligned(ids, embeddings, documents, metadatas); err != nil {
		return err
	}
	collection, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("chromem: get collection: %w", err)
	}

	docs := make([]chromem.Document, len(ids))
	for i := range ids {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   documents[i],
			Metadata:  metadatas[i],
			Embedding: embeddings[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem: add documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	collection := s.db.GetCollection(s.name, nil)
	if collection == nil {
		return nil, nil
	}
	// chromem rejects nResults greater than the collection size
	if count := collection.Count(); count < k {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	found, err := collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	results := make([]Result, len(found))
	for i, r := range found {
		results[i] = Result{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		}
	}
	return results, nil
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	collection := s.db.GetCollection(s.name, nil)
	if collection == nil {
		return 0, nil
	}
	return collection.Count(), nil
}
