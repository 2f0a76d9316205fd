package dedup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeEmbedder struct {
	byText map[string][]float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.byText[text]
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestMatcher(strategy Strategy, embedder Embedder) *Matcher {
	if embedder == nil {
		embedder = &fakeEmbedder{}
	}
	return NewMatcher(Config{Strategy: strategy}, embedder, testLogger())
}

func TestMatchExactIgnoresCaseAndWhitespace(t *testing.T) {
	existing := []Entry{
		{ID: 1, Question: "How do I submit HW1?"},
		{ID: 2, Question: "When is the midterm?"},
	}

	cases := []struct {
		name     string
		question string
		wantID   int64
	}{
		{name: "identical", question: "How do I submit HW1?", wantID: 1},
		{name: "case folded", question: "how do i submit hw1?", wantID: 1},
		{name: "padded", question: "  When is the midterm?  ", wantID: 2},
	}

	m := newTestMatcher(StrategyCosine, nil)
	for _, tc := range cases {
		decision, err := m.Match(context.Background(), tc.question, existing)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !decision.Matched || decision.EntryID != tc.wantID {
			t.Fatalf("%s: expected match on %d, got %+v", tc.name, tc.wantID, decision)
		}
	}
}

func TestMatchCosineAboveThresholdMerges(t *testing.T) {
	// cosine(query, paraphrase) ~= 0.85, cosine(query, unrelated) = 0.
	embedder := &fakeEmbedder{byText: map[string][]float32{
		"How do I turn in the first homework?": {1, 0},
	}}
	existing := []Entry{
		{ID: 7, Question: "unrelated", Embedding: []float32{0, 1}},
		{ID: 9, Question: "paraphrase", Embedding: []float32{0.85, 0.527}},
	}

	m := newTestMatcher(StrategyCosine, embedder)
	decision, err := m.Match(context.Background(), "How do I turn in the first homework?", existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Matched || decision.EntryID != 9 {
		t.Fatalf("expected match on entry 9, got %+v", decision)
	}
	if len(decision.QuestionEmbedding) == 0 {
		t.Fatalf("expected question embedding to be carried on the decision")
	}
}

func TestMatchCosineBelowThresholdCreates(t *testing.T) {
	embedder := &fakeEmbedder{byText: map[string][]float32{
		"When is HW1 due?": {1, 0},
	}}
	// cosine = 0.5: below the 0.8 bar, so no merge.
	existing := []Entry{{ID: 3, Question: "other", Embedding: []float32{0.5, 0.866}}}

	m := newTestMatcher(StrategyCosine, embedder)
	decision, err := m.Match(context.Background(), "When is HW1 due?", existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Matched {
		t.Fatalf("expected no match, got %+v", decision)
	}
	if len(decision.QuestionEmbedding) == 0 {
		t.Fatalf("expected embedding for the new entry")
	}
}

func TestMatchCosineFirstQualifyingEntryWins(t *testing.T) {
	embedder := &fakeEmbedder{byText: map[string][]float32{"q": {1, 0}}}
	existing := []Entry{
		{ID: 1, Question: "a", Embedding: []float32{0.99, 0.141}},
		{ID: 2, Question: "b", Embedding: []float32{1, 0}},
	}

	m := newTestMatcher(StrategyCosine, embedder)
	decision, err := m.Match(context.Background(), "q", existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.EntryID != 1 {
		t.Fatalf("expected first qualifying entry, got %+v", decision)
	}
}

func TestMatchCosineMissingQuestionEmbeddingSkipsSemantic(t *testing.T) {
	// Embedder knows nothing: every text embeds to nil.
	m := newTestMatcher(StrategyCosine, &fakeEmbedder{})
	existing := []Entry{{ID: 4, Question: "similar thing", Embedding: []float32{1, 0}}}

	decision, err := m.Match(context.Background(), "similar things", existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Matched {
		t.Fatalf("expected creation when no embedding, got %+v", decision)
	}
}

func TestMatchCosinePropagatesEmbedderError(t *testing.T) {
	m := newTestMatcher(StrategyCosine, &fakeEmbedder{err: errors.New("provider down")})
	_, err := m.Match(context.Background(), "q", []Entry{{ID: 1, Question: "other"}})
	if err == nil {
		t.Fatalf("expected embedder error to propagate")
	}
}

func TestMatchJaccardStrategy(t *testing.T) {
	m := newTestMatcher(StrategyJaccard, nil)
	existing := []Entry{{ID: 11, Question: "how do i submit homework one"}}

	decision, err := m.Match(context.Background(), "how do i submit homework late", existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 5 of 6 tokens shared: ratio ~0.83 > 0.7.
	if !decision.Matched || decision.EntryID != 11 {
		t.Fatalf("expected jaccard match, got %+v", decision)
	}

	decision, err = m.Match(context.Background(), "completely different topic", existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Matched {
		t.Fatalf("expected no jaccard match, got %+v", decision)
	}
}
