package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// vectorSize matches the text-embedding-004 output dimension.
const vectorSize = 768

type chunkRecord struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64  `bun:"id,pk,autoincrement"`
	ChunkID       string `bun:"chunk_id,notnull,unique"`
	Content       string `bun:"content,notnull"`
	Source        string `bun:"source,notnull"`
	// pgvector literal, e.g. "[0.1,0.2,...]"
	Embedding string `bun:"embedding,notnull,type:vector(768)"`
}

// vectorLiteral renders the embedding in pgvector's input syntax.
func vectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// PostgresStore is the pgvector-backed alternative to the chromem default.
// Nearest-neighbor ordering is left to the `<->` operator.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(dsn string, debug bool) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres: dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*chunkRecord)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("postgres: drop table: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*chunkRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error {
	if err := checkAligned(ids, embeddings, documents, metadatas); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	records := make([]chunkRecord, len(ids))
	for i := range ids {
		records[i] = chunkRecord{
			ChunkID:   ids[i],
			Content:   documents[i],
			Source:    metadatas[i]["source"],
			Embedding: vectorLiteral(embeddings[i]),
		}
	}
	_, err := s.db.NewInsert().
		Model(&records).
		On("CONFLICT (chunk_id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("source = EXCLUDED.source").
		Set("embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("postgres: upsert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	var records []chunkRecord
	err := s.db.NewSelect().
		Model(&records).
		Column("chunk_id", "content", "source").
		OrderExpr("embedding <-> ?", vectorLiteral(embedding)).
		Limit(k).
		Scan(ctx)
	if err != nil {
		// an uninitialized table means no context, not a failure
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == "42P01" {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: query: %w", err)
	}

	results := make([]Result, len(records))
	for i, r := range records {
		results[i] = Result{
			ID:       r.ChunkID,
			Content:  r.Content,
			Metadata: map[string]string{"source": r.Source},
		}
	}
	return results, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*chunkRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return count, nil
}
