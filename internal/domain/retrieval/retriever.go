package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// maxCandidateChars caps the text carried by a single candidate.
const maxCandidateChars = 600

// fallbackCandidates is how many candidates are returned when nothing
// scores above zero, so the answer generator always has some grounding.
const fallbackCandidates = 2

// Retriever ranks course documents and FAQ entries against a question and
// selects the snippets used to ground an AI answer.
type Retriever struct {
	docs     DocumentSource
	faqs     FAQSource
	embedder Embedder
	logger   *slog.Logger
}

// NewRetriever constructs a Retriever.
func NewRetriever(docs DocumentSource, faqs FAQSource, embedder Embedder, logger *slog.Logger) *Retriever {
	return &Retriever{
		docs:     docs,
		faqs:     faqs,
		embedder: embedder,
		logger:   logger.With("component", "retrieval.retriever"),
	}
}

// Retrieve scores every document and FAQ candidate against query and returns
// the selected subset, highest score first. When at least one candidate
// scores above zero, up to topK positive candidates are returned; otherwise
// the first two candidates in source order serve as a best-effort fallback.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Candidate, error) {
	candidates, err := r.buildCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	mode, err := r.scoreAll(ctx, query, candidates)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("candidates scored", "mode", mode, "count", len(candidates))

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	positive := ranked[:0:0]
	for _, c := range ranked {
		if c.Score > 0 {
			positive = append(positive, c)
		}
	}
	if len(positive) > 0 {
		if topK > 0 && len(positive) > topK {
			positive = positive[:topK]
		}
		return positive, nil
	}

	// Nothing is topically close; hand back the leading candidates in their
	// original order so the generator still receives some grounding.
	n := fallbackCandidates
	if len(candidates) < n {
		n = len(candidates)
	}
	return candidates[:n], nil
}

func (r *Retriever) buildCandidates(ctx context.Context) ([]Candidate, error) {
	docs, err := r.docs.ListDocuments(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list course documents", err)
	}
	qas, err := r.faqs.ListQA(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list faq entries", err)
	}

	candidates := make([]Candidate, 0, len(docs)+len(qas))
	for _, d := range docs {
		candidates = append(candidates, Candidate{
			Label: "Doc: " + d.Title,
			Text:  truncateRunes(d.Content, maxCandidateChars),
		})
	}
	for _, qa := range qas {
		combined := fmt.Sprintf("Q: %s \nA: %s", qa.Question, qa.Answer)
		candidates = append(candidates, Candidate{
			Label: "FAQ",
			Text:  truncateRunes(combined, maxCandidateChars),
		})
	}
	return candidates, nil
}

// scoreAll fills in candidate scores and reports the mode used. Embedding
// mode applies only when the query and every candidate embedded
// successfully; any gap degrades the whole pass to lexical scoring. An
// embedder error propagates: the provider adapter only errors when its
// fallback has been disabled by configuration.
func (r *Retriever) scoreAll(ctx context.Context, query string, candidates []Candidate) (Mode, error) {
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, query)
	for _, c := range candidates {
		texts = append(texts, c.Text)
	}

	embeddings, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return "", apperrors.Wrap("provider_error", "failed to embed candidates", err)
	}

	if complete(embeddings, len(texts)) {
		queryVec := embeddings[0]
		for i := range candidates {
			candidates[i].Embedding = embeddings[i+1]
			candidates[i].Score = EmbeddingScore(queryVec, candidates[i].Embedding)
		}
		return ModeEmbedding, nil
	}

	for i := range candidates {
		candidates[i].Score = float64(LexicalOverlap(query, candidates[i].Text))
	}
	return ModeLexical, nil
}

func complete(embeddings [][]float32, want int) bool {
	if len(embeddings) != want {
		return false
	}
	for _, vec := range embeddings {
		if len(vec) == 0 {
			return false
		}
	}
	return true
}

func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
