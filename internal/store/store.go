package store

import (
	"context"
	"fmt"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/config"
)

// Result is one retrieved record. Similarity follows the backend's native
// metric and is only meaningful for ordering.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// Store is the thin persistence boundary around the named collection
// shared by the ingestion pipeline and the chat service. Distance metric
// and index layout are the backend's business.
type Store interface {
	// Reset deletes the collection if it exists (absence is not an error)
	// and recreates it empty.
	Reset(ctx context.Context) error
	// Upsert writes positionally aligned records keyed by id. All four
	// slices must have equal length.
	Upsert(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error
	// Query returns up to k nearest records. An absent or empty collection
	// yields an empty result set, never an error.
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)
	// Count reports the number of stored records.
	Count(ctx context.Context) (int, error)
}

// Open builds the backend selected by the config.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Type {
	case "", "chromem":
		return NewChromemStore(cfg.Store.Path, cfg.RAG.Collection)
	case "postgres":
		return NewPostgresStore(cfg.Store.DSN, cfg.Store.Debug)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Store.Type)
	}
}

func checkAligned(ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error {
	n := len(ids)
	if len(embeddings) != n || len(documents) != n || len(metadatas) != n {
		return fmt.Errorf("store: misaligned upsert: ids=%d embeddings=%d documents=%d metadatas=%d",
			len(ids), len(embeddings), len(documents), len(metadatas))
	}
	return nil
}
