// Package memory is an optional pgvector-backed cache of accepted research
// findings. When enabled it lets the executor hand prior related findings
// to the model so already-answered questions are not re-researched from
// scratch. It is a cache, not the system of record: the rendered research
// document stays authoritative.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Insight is one stored finding with its embedding.
type Insight struct {
	ID       uuid.UUID              `json:"id"`
	Topic    string                 `json:"topic"`
	Query    string                 `json:"query"`
	Findings string                 `json:"findings"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Store persists insights in a pgvector table.
type Store struct {
	pool      *pgxpool.Pool
	tableName string
	dimension int
}

// isValidTableName validates that a table name contains only safe characters
// to prevent SQL injection attacks
func isValidTableName(name string) bool {
	// Table names must start with a letter or underscore and be between
	// 1-63 chars (PostgreSQL limit)
	matched, _ := regexp.MatchString(`^[a-z_][a-zA-Z0-9_]{0,62}$`, name)
	return matched
}

// NewStore connects to the database and ensures the insights table exists.
func NewStore(ctx context.Context, databaseURL, tableName string, dimension int) (*Store, error) {
	if !isValidTableName(tableName) {
		return nil, fmt.Errorf("invalid table name %q: must contain only alphanumeric characters and underscores, start with a letter or underscore, and be 1-63 characters long", tableName)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{pool: pool, tableName: tableName, dimension: dimension}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to ensure vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			topic TEXT NOT NULL,
			query TEXT NOT NULL,
			findings TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, s.tableName, s.dimension)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.tableName, err)
	}

	indexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s USING hnsw (embedding vector_cosine_ops)
	`, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, indexQuery); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", s.tableName, err)
	}

	return nil
}

// AddInsight stores one finding with its embedding.
func (s *Store) AddInsight(ctx context.Context, insight Insight, embedding []float32) error {
	metadataJSON, err := json.Marshal(insight.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (topic, query, findings, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query, insight.Topic, insight.Query, insight.Findings, metadataJSON, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}
	return nil
}

// Search returns the findings of the insights closest to the embedding.
func (s *Store) Search(ctx context.Context, embedding []float32, limit int) ([]Insight, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, query, findings
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var insights []Insight
	for rows.Next() {
		var in Insight
		if err := rows.Scan(&in.ID, &in.Topic, &in.Query, &in.Findings); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return insights, nil
}
