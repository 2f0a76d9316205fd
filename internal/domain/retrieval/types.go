package retrieval

import "context"

// Candidate is one scored grounding snippet. It lives only for the duration
// of a single retrieval call and is never persisted.
type Candidate struct {
	Label     string    `json:"label"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
	Score     float64   `json:"score"`
}

// Document is a course document projected into the retriever's view.
type Document struct {
	Title   string
	Content string
}

// QA is a resolved FAQ pair projected into the retriever's view.
type QA struct {
	Question string
	Answer   string
}

// DocumentSource lists all course documents.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}

// FAQSource lists all resolved FAQ pairs.
type FAQSource interface {
	ListQA(ctx context.Context) ([]QA, error)
}

// Embedder produces embeddings for free form text. An empty vector for a
// text signals that no embedding could be obtained.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a short completion for a prompt. An empty string
// signals that no completion could be obtained.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
