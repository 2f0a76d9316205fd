// Package clustering groups the FAQ corpus into topic clusters. Every run
// recomputes the full assignment from scratch; cluster ids are only
// meaningful within a single run.
package clustering

import (
	"context"
	"log/slog"

	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// minCorpusSize is the smallest corpus worth clustering. Below it every
// entry is left unclustered.
const minCorpusSize = 3

// Strategy selects how similarity between questions is judged. The two
// strategies are never mixed within a single recompute.
type Strategy string

const (
	// StrategyEmbedding runs density-based clustering over embedding
	// vectors with cosine distance. This is the primary algorithm.
	StrategyEmbedding Strategy = "embedding"
	// StrategyLexical groups by stop-word-filtered token overlap. It is a
	// degraded mode for when no embedding provider is available.
	StrategyLexical Strategy = "lexical"
)

// Config holds the clustering knobs.
type Config struct {
	Strategy Strategy
	// Eps is the cosine-distance reachability radius for the embedding
	// strategy. The default 0.4 admits pairs with similarity >= 0.6.
	Eps float64
	// MinPoints is the density requirement for a cluster seed.
	MinPoints int
	// JaccardThreshold and MinOverlap gate the lexical strategy.
	JaccardThreshold float64
	MinOverlap       int
}

func (c *Config) defaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyEmbedding
	}
	if c.Eps == 0 {
		c.Eps = 0.4
	}
	if c.MinPoints == 0 {
		c.MinPoints = 2
	}
	if c.JaccardThreshold == 0 {
		c.JaccardThreshold = 0.3
	}
	if c.MinOverlap == 0 {
		c.MinOverlap = 2
	}
}

// Item is a FAQ entry projected into the engine's view.
type Item struct {
	ID       int64
	Question string
}

// Assignment is the cluster placement computed for one item. Both fields
// are nil for outliers and for runs below the corpus floor.
type Assignment struct {
	ClusterID   *int
	ClusterName *string
}

// Embedder produces embeddings for free form text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a short completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Engine computes full cluster assignments over the FAQ corpus.
type Engine struct {
	cfg       Config
	embedder  Embedder
	generator Generator
	logger    *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(cfg Config, embedder Embedder, generator Generator, logger *slog.Logger) *Engine {
	cfg.defaults()
	return &Engine{
		cfg:       cfg,
		embedder:  embedder,
		generator: generator,
		logger:    logger.With("component", "clustering.engine"),
	}
}

// Compute returns an assignment for every input item. It is a pure
// function over the snapshot: callers apply the result to storage
// afterwards, so an interrupted run never leaves partial state behind.
func (e *Engine) Compute(ctx context.Context, items []Item) (map[int64]Assignment, error) {
	assignments := make(map[int64]Assignment, len(items))
	for _, it := range items {
		assignments[it.ID] = Assignment{}
	}
	if len(items) < minCorpusSize {
		return assignments, nil
	}

	var clusters [][]int
	switch e.cfg.Strategy {
	case StrategyLexical:
		clusters = e.lexicalClusters(items)
	default:
		var err error
		clusters, err = e.embeddingClusters(ctx, items)
		if err != nil {
			return nil, err
		}
	}

	for clusterID, members := range clusters {
		questions := make([]string, 0, len(members))
		for _, idx := range members {
			questions = append(questions, items[idx].Question)
		}
		name := e.clusterName(ctx, questions)
		id := clusterID
		for _, idx := range members {
			nameCopy := name
			assignments[items[idx].ID] = Assignment{ClusterID: &id, ClusterName: &nameCopy}
		}
	}

	e.logger.Info("clustering complete", "strategy", e.cfg.Strategy, "entries", len(items), "clusters", len(clusters))
	return assignments, nil
}

// embeddingClusters embeds every question and runs DBSCAN over cosine
// distance. Items whose embedding fails are excluded from this run and
// keep a null assignment.
func (e *Engine) embeddingClusters(ctx context.Context, items []Item) ([][]int, error) {
	texts := make([]string, 0, len(items))
	for _, it := range items {
		texts = append(texts, it.Question)
	}
	embeddings, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, apperrors.Wrap("provider_error", "failed to embed faq corpus", err)
	}

	embedded := make([]int, 0, len(items))
	points := make([][]float32, 0, len(items))
	for i := range items {
		if i >= len(embeddings) || len(embeddings[i]) == 0 {
			continue
		}
		embedded = append(embedded, i)
		points = append(points, embeddings[i])
	}
	if skipped := len(items) - len(embedded); skipped > 0 {
		e.logger.Warn("entries excluded from clustering run", "skipped", skipped)
	}
	if len(points) == 0 {
		return nil, nil
	}

	labels := dbscanLabels(points, e.cfg.Eps, e.cfg.MinPoints)

	byLabel := make(map[int][]int)
	order := make([]int, 0)
	for i, label := range labels {
		if label < 0 {
			continue
		}
		if _, seen := byLabel[label]; !seen {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], embedded[i])
	}

	clusters := make([][]int, 0, len(order))
	for _, label := range order {
		clusters = append(clusters, byLabel[label])
	}
	return clusters, nil
}
