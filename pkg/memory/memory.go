package memory

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// InsightMemory ties the embedder and store together behind the lookup
// interface the research executor expects.
type InsightMemory struct {
	Store    *Store
	Embedder *Embedder
	RunID    uuid.UUID
}

func NewInsightMemory(store *Store, embedder *Embedder) *InsightMemory {
	return &InsightMemory{Store: store, Embedder: embedder, RunID: uuid.New()}
}

// SimilarFindings returns the findings of prior insights nearest to the
// query.
func (m *InsightMemory) SimilarFindings(ctx context.Context, query string, limit int) ([]string, error) {
	embedding, err := m.Embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	insights, err := m.Store.Search(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}

	findings := make([]string, 0, len(insights))
	for _, in := range insights {
		findings = append(findings, in.Findings)
	}
	return findings, nil
}

// Remember stores an accepted finding so later runs can build on it.
func (m *InsightMemory) Remember(ctx context.Context, topic, query, findings string) {
	embedding, err := m.Embedder.EmbedText(ctx, query+"\n"+findings)
	if err != nil {
		slog.Warn("Failed to embed insight for memory", "query", query, "error", err)
		return
	}

	insight := Insight{
		Topic:    topic,
		Query:    query,
		Findings: findings,
		Metadata: map[string]interface{}{"run_id": m.RunID.String()},
	}
	if err := m.Store.AddInsight(ctx, insight, embedding); err != nil {
		slog.Warn("Failed to store insight in memory", "query", query, "error", err)
	}
}
