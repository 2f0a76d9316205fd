package retrieval

import (
	"strings"

	"github.com/knguyen2000/officehourlens/pkg/vectors"
)

// Mode identifies the scoring strategy chosen for one retrieval pass.
// The mode is picked once per pass; embedding and lexical scores are never
// mixed within a single ranking.
type Mode string

const (
	// ModeEmbedding scores by cosine similarity of embedding vectors.
	ModeEmbedding Mode = "embedding"
	// ModeLexical scores by the size of the shared token set.
	ModeLexical Mode = "lexical"
)

// EmbeddingScore returns the cosine similarity of two embedding vectors.
func EmbeddingScore(query, candidate []float32) float64 {
	return vectors.Cosine(query, candidate)
}

// LexicalOverlap counts distinct tokens shared by the two texts.
// Tokens come from lowercasing and splitting on whitespace. The count is
// not normalized, so scores are unbounded non-negative integers.
func LexicalOverlap(query, candidate string) int {
	queryTokens := tokenSet(query)
	overlap := 0
	for token := range tokenSet(candidate) {
		if _, ok := queryTokens[token]; ok {
			overlap++
		}
	}
	return overlap
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
