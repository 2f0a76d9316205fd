package faq

import (
	"context"
	"time"
)

// ThresholdKey is the settings key that parameterizes FAQ visibility.
const ThresholdKey = "faq_threshold"

// Entry is one resolved question/answer pair in the FAQ corpus.
// ClusterID and ClusterName are nil while the entry is unclustered; both
// are rewritten on every clustering run. AskCount starts at 1 and grows by
// one each time the dedup matcher folds a duplicate into this entry.
type Entry struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	CreatedAt   time.Time `json:"created_at"`
	ClusterID   *int      `json:"cluster_id"`
	ClusterName *string   `json:"cluster_name"`
	AskCount    int       `json:"ask_count"`
	Embedding   []float32 `json:"-"`
}

// Result reports the outcome of archiving a resolved question.
type Result struct {
	Entry Entry `json:"entry"`
	// Created is true when a new entry was inserted; false when an
	// existing entry absorbed the question as a duplicate.
	Created bool `json:"created"`
}

// Repository persists FAQ entries.
type Repository interface {
	// List returns all entries in insertion order.
	List(ctx context.Context) ([]Entry, error)
	Insert(ctx context.Context, question, answer string, embedding []float32, createdAt time.Time) (Entry, error)
	// IncrementAskCount adds one to the entry's ask count and returns the
	// updated entry.
	IncrementAskCount(ctx context.Context, id int64) (Entry, error)
	// UpdateCluster rewrites the clustering fields; nil values clear them.
	UpdateCluster(ctx context.Context, id int64, clusterID *int, clusterName *string) error
	Count(ctx context.Context) (int, error)
}

// SettingsStore is a single key/value lookup used for course settings.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
