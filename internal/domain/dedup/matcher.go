// Package dedup decides whether a newly resolved question duplicates an
// existing FAQ entry or must become a new one.
package dedup

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
	"github.com/knguyen2000/officehourlens/pkg/vectors"
)

// Strategy selects the semantic comparison used after the exact-match pass.
// The two strategies are never blended within one call.
type Strategy string

const (
	// StrategyCosine compares embedding vectors by cosine similarity.
	StrategyCosine Strategy = "cosine"
	// StrategyJaccard compares lowercase token sets by overlap ratio.
	// This is the earlier generation of the matcher, kept selectable.
	StrategyJaccard Strategy = "jaccard"
)

// Config holds the matcher thresholds.
type Config struct {
	Strategy         Strategy
	CosineThreshold  float64
	JaccardThreshold float64
}

// Entry is an existing FAQ entry projected into the matcher's view.
// Embedding may be empty when none was stored; the matcher computes
// missing embeddings on demand.
type Entry struct {
	ID        int64
	Question  string
	Embedding []float32
}

// Decision reports whether a duplicate was found.
type Decision struct {
	Matched bool
	// EntryID identifies the matched entry; valid only when Matched.
	EntryID int64
	// QuestionEmbedding is the embedding computed for the new question,
	// if one was obtained. Callers persist it with a newly created entry.
	QuestionEmbedding []float32
}

// Embedder produces embeddings for free form text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Matcher implements the exact-then-semantic duplicate check.
type Matcher struct {
	cfg      Config
	embedder Embedder
	logger   *slog.Logger
}

// NewMatcher constructs a Matcher.
func NewMatcher(cfg Config, embedder Embedder, logger *slog.Logger) *Matcher {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyCosine
	}
	if cfg.CosineThreshold == 0 {
		cfg.CosineThreshold = 0.8
	}
	if cfg.JaccardThreshold == 0 {
		cfg.JaccardThreshold = 0.7
	}
	return &Matcher{
		cfg:      cfg,
		embedder: embedder,
		logger:   logger.With("component", "dedup.matcher"),
	}
}

// Match scans existing entries in order and short-circuits on the first
// duplicate. Exact matching runs first regardless of strategy; the semantic
// pass only runs when exact matching found nothing.
func (m *Matcher) Match(ctx context.Context, question string, existing []Entry) (Decision, error) {
	normalized := normalizeQuestion(question)
	for _, e := range existing {
		if normalizeQuestion(e.Question) == normalized {
			return Decision{Matched: true, EntryID: e.ID}, nil
		}
	}

	switch m.cfg.Strategy {
	case StrategyJaccard:
		return m.matchJaccard(question, existing), nil
	default:
		return m.matchCosine(ctx, question, existing)
	}
}

func (m *Matcher) matchCosine(ctx context.Context, question string, existing []Entry) (Decision, error) {
	queryVec, err := m.embedOne(ctx, question)
	if err != nil {
		return Decision{}, err
	}
	if len(queryVec) == 0 {
		// No embedding for the new question: the semantic pass is skipped
		// and the caller creates a fresh entry.
		m.logger.Warn("no embedding for new question, skipping semantic dedup")
		return Decision{}, nil
	}

	for _, e := range existing {
		vec := e.Embedding
		if len(vec) == 0 {
			vec, err = m.embedOne(ctx, e.Question)
			if err != nil {
				return Decision{}, err
			}
			if len(vec) == 0 {
				continue
			}
		}
		if vectors.Cosine(queryVec, vec) > m.cfg.CosineThreshold {
			return Decision{Matched: true, EntryID: e.ID, QuestionEmbedding: queryVec}, nil
		}
	}
	return Decision{QuestionEmbedding: queryVec}, nil
}

func (m *Matcher) matchJaccard(question string, existing []Entry) Decision {
	queryTokens := tokenSet(question)
	for _, e := range existing {
		if overlapRatio(queryTokens, tokenSet(e.Question)) > m.cfg.JaccardThreshold {
			return Decision{Matched: true, EntryID: e.ID}
		}
	}
	return Decision{}
}

func (m *Matcher) embedOne(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := m.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, apperrors.Wrap("provider_error", "failed to embed question", err)
	}
	if len(embeddings) == 0 {
		return nil, nil
	}
	return embeddings[0], nil
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// overlapRatio divides the intersection size by the larger set size.
func overlapRatio(a, b map[string]struct{}) float64 {
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	if larger == 0 {
		return 0
	}
	overlap := 0
	for token := range a {
		if _, ok := b[token]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(larger)
}
