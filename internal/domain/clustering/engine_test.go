package clustering

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

type fakeEmbedder struct {
	byText map[string][]float32
	err    error
}

func (f fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.byText[text]
	}
	return out, nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f fakeGenerator) Generate(context.Context, string, int) (string, error) {
	return f.reply, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEngine(strategy Strategy, embedder Embedder, generator Generator) *Engine {
	if embedder == nil {
		embedder = fakeEmbedder{}
	}
	if generator == nil {
		generator = fakeGenerator{reply: "Homework Logistics"}
	}
	return NewEngine(Config{Strategy: strategy}, embedder, generator, testLogger())
}

func TestComputeBelowCorpusFloorNullsEverything(t *testing.T) {
	// Even identical questions stay unclustered below three entries.
	items := []Item{
		{ID: 1, Question: "same question"},
		{ID: 2, Question: "same question"},
	}
	engine := newTestEngine(StrategyEmbedding, nil, nil)

	got, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected assignments for all items, got %d", len(got))
	}
	for id, a := range got {
		if a.ClusterID != nil || a.ClusterName != nil {
			t.Fatalf("entry %d should be unclustered, got %+v", id, a)
		}
	}
}

func TestComputeTwoCloseOneFar(t *testing.T) {
	items := []Item{
		{ID: 1, Question: "when is hw1 due"},
		{ID: 2, Question: "what is the hw1 deadline"},
		{ID: 3, Question: "will there be a curve"},
	}
	// First two have cosine ~0.9, third is near-orthogonal to both.
	embedder := fakeEmbedder{byText: map[string][]float32{
		"when is hw1 due":           {1, 0, 0},
		"what is the hw1 deadline":  {0.9, 0.436, 0},
		"will there be a curve":     {0.05, 0, 1},
	}}
	engine := newTestEngine(StrategyEmbedding, embedder, fakeGenerator{reply: "HW1 Deadlines"})

	got, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, second, third := got[1], got[2], got[3]
	if first.ClusterID == nil || second.ClusterID == nil {
		t.Fatalf("expected close pair to cluster, got %+v %+v", first, second)
	}
	if *first.ClusterID != 0 || *second.ClusterID != 0 {
		t.Fatalf("expected zero-based shared cluster id, got %d %d", *first.ClusterID, *second.ClusterID)
	}
	if first.ClusterName == nil || *first.ClusterName != "HW1 Deadlines" {
		t.Fatalf("expected generated name on members, got %+v", first.ClusterName)
	}
	if third.ClusterID != nil {
		t.Fatalf("expected outlier to stay unclustered, got %+v", third)
	}
}

func TestComputeIsDeterministicAcrossRuns(t *testing.T) {
	items := []Item{
		{ID: 1, Question: "a"},
		{ID: 2, Question: "b"},
		{ID: 3, Question: "c"},
		{ID: 4, Question: "d"},
	}
	embedder := fakeEmbedder{byText: map[string][]float32{
		"a": {1, 0},
		"b": {0.95, 0.312},
		"c": {0, 1},
		"d": {0.312, 0.95},
	}}
	engine := newTestEngine(StrategyEmbedding, embedder, nil)

	first, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(membership(first), membership(second)) {
		t.Fatalf("expected identical partitions, got %v vs %v", membership(first), membership(second))
	}
}

// membership projects assignments onto comparable cluster membership sets.
func membership(assignments map[int64]Assignment) map[int][]int64 {
	out := make(map[int][]int64)
	for id, a := range assignments {
		if a.ClusterID == nil {
			continue
		}
		out[*a.ClusterID] = append(out[*a.ClusterID], id)
	}
	for _, ids := range out {
		for i := 1; i < len(ids); i++ {
			for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
				ids[j-1], ids[j] = ids[j], ids[j-1]
			}
		}
	}
	return out
}

func TestComputeExcludesFailedEmbeddings(t *testing.T) {
	items := []Item{
		{ID: 1, Question: "a"},
		{ID: 2, Question: "b"},
		{ID: 3, Question: "no embedding for this one"},
	}
	embedder := fakeEmbedder{byText: map[string][]float32{
		"a": {1, 0},
		"b": {1, 0.01},
	}}
	engine := newTestEngine(StrategyEmbedding, embedder, nil)

	got, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[3].ClusterID != nil {
		t.Fatalf("entry without embedding must stay unclustered, got %+v", got[3])
	}
	if got[1].ClusterID == nil || got[2].ClusterID == nil {
		t.Fatalf("embedded entries should still cluster, got %+v %+v", got[1], got[2])
	}
}

func TestComputeNamingFallback(t *testing.T) {
	items := []Item{
		{ID: 1, Question: "a"},
		{ID: 2, Question: "b"},
		{ID: 3, Question: "c"},
	}
	embedder := fakeEmbedder{byText: map[string][]float32{
		"a": {1, 0}, "b": {1, 0.01}, "c": {0, 1},
	}}
	engine := newTestEngine(StrategyEmbedding, embedder, fakeGenerator{reply: "  "})

	got, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1].ClusterName == nil || *got[1].ClusterName != defaultClusterName {
		t.Fatalf("expected default name, got %+v", got[1].ClusterName)
	}
}

func TestLexicalStrategyGroupsByTokenOverlap(t *testing.T) {
	items := []Item{
		{ID: 1, Question: "How do I submit homework one?"},
		{ID: 2, Question: "Can I submit homework late?"},
		{ID: 3, Question: "What topics are covered on the midterm exam?"},
	}
	engine := newTestEngine(StrategyLexical, nil, fakeGenerator{reply: "Homework Submission"})

	got, err := engine.Compute(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1].ClusterID == nil || got[2].ClusterID == nil {
		t.Fatalf("expected homework questions to group, got %+v %+v", got[1], got[2])
	}
	if *got[1].ClusterID != *got[2].ClusterID {
		t.Fatalf("expected same cluster, got %d and %d", *got[1].ClusterID, *got[2].ClusterID)
	}
	if got[3].ClusterID != nil {
		t.Fatalf("midterm question should stay unclustered, got %+v", got[3])
	}
}

func TestCleanTopic(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "passthrough", in: "Homework Deadlines", want: "Homework Deadlines"},
		{name: "first line only", in: "Homework Deadlines\nextra commentary", want: "Homework Deadlines"},
		{name: "strips quotes", in: `"Grading Policy"`, want: "Grading Policy"},
		{name: "empty falls back", in: "  \n", want: defaultClusterName},
		{
			name: "truncates at word boundary",
			in:   strings.Repeat("topic ", 12), // 72 chars
			want: strings.TrimSpace(strings.Repeat("topic ", 8)) + "...",
		},
	}

	for _, tc := range cases {
		if got := cleanTopic(tc.in); got != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestDBSCANTransitiveReachability(t *testing.T) {
	// a-b and b-c are within eps but a-c is not; density reachability
	// still pulls all three into one cluster.
	points := [][]float32{
		{1, 0},
		{0.85, 0.527},
		{0.45, 0.893},
	}
	labels := dbscanLabels(points, 0.4, 2)
	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Fatalf("expected one chained cluster, got %v", labels)
	}

	labels = dbscanLabels([][]float32{{1, 0}, {0, 1}}, 0.4, 2)
	if labels[0] != -1 || labels[1] != -1 {
		t.Fatalf("expected all noise, got %v", labels)
	}
}
