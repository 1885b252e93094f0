package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/chunker"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/llm"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/parser"
	"github.com/erdemozkan1/MIR4VA-Chat-Bot/internal/store"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Files   int
	Chunks  int
	Records int
}

// Pipeline is the offline scan/parse/chunk/embed/load job. It is one-shot
// and non-concurrent; it must finish before the chat service starts
// serving against the same collection.
type Pipeline struct {
	store        store.Store
	embedder     llm.Embedder
	chunkSize    int
	chunkOverlap int
}

func NewPipeline(st store.Store, embedder llm.Embedder, chunkSize, chunkOverlap int) *Pipeline {
	return &Pipeline{
		store:        st,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Run scans the top level of dir (non-recursive), parses each supported
// file, chunks and embeds the text, and bulk-loads the collection.
//
// The collection is dropped and recreated up front, so re-running never
// duplicates chunk ids; a failed run must be retried from scratch. Parse
// failures skip the file; an embedding failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read directory: %w", err)
	}

	// phase 1: reset, so ids stay unique within the collection
	if err := p.store.Reset(ctx); err != nil {
		return nil, err
	}

	stats := &Stats{}
	var (
		ids       []string
		texts     []string
		metadatas []map[string]string
	)
	seq := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !parser.Supported(strings.ToLower(filepath.Ext(name))) {
			continue
		}

		text, err := parser.Parse(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("Failed to parse file, skipping")
			continue
		}

		chunks, err := chunker.Split(text, p.chunkSize, p.chunkOverlap)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			ids = append(ids, fmt.Sprintf("%s_%d", name, seq))
			texts = append(texts, chunk)
			metadatas = append(metadatas, map[string]string{"source": name})
			seq++
		}

		stats.Files++
		log.Info().Str("file", name).Int("chunks", len(chunks)).Msg("Processed file")
	}

	stats.Chunks = len(texts)
	if stats.Chunks == 0 {
		log.Warn().Str("dir", dir).Msg("No parseable documents found")
		return stats, nil
	}

	log.Info().Int("chunks", stats.Chunks).Msg("Embedding chunks")
	embeddings, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ingest: embed chunks: %w", err)
	}
	// vectors are zipped positionally with chunks; a short or reordered
	// response would corrupt the index
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("ingest: embedding count mismatch: got %d vectors for %d chunks", len(embeddings), len(texts))
	}

	if err := p.store.Upsert(ctx, ids, embeddings, texts, metadatas); err != nil {
		return nil, err
	}

	stats.Records, err = p.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
