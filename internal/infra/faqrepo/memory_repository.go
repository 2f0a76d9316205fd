package faqrepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/knguyen2000/officehourlens/internal/domain/faq"
)

var errEntryNotFound = errors.New("faq entry not found")

// MemoryRepository is an in-memory faq.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	entries map[int64]faq.Entry
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		entries: make(map[int64]faq.Entry),
	}
}

// List implements faq.Repository.
func (r *MemoryRepository) List(_ context.Context) ([]faq.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faq.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Insert implements faq.Repository.
func (r *MemoryRepository) Insert(_ context.Context, question, answer string, embedding []float32, createdAt time.Time) (faq.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := faq.Entry{
		ID:        r.nextID,
		Question:  question,
		Answer:    answer,
		CreatedAt: createdAt,
		AskCount:  1,
		Embedding: append([]float32(nil), embedding...),
	}
	r.nextID++
	r.entries[entry.ID] = entry
	return entry, nil
}

// IncrementAskCount implements faq.Repository.
func (r *MemoryRepository) IncrementAskCount(_ context.Context, id int64) (faq.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return faq.Entry{}, errEntryNotFound
	}
	entry.AskCount++
	r.entries[id] = entry
	return entry, nil
}

// UpdateCluster implements faq.Repository.
func (r *MemoryRepository) UpdateCluster(_ context.Context, id int64, clusterID *int, clusterName *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return errEntryNotFound
	}
	entry.ClusterID = cloneIntPtr(clusterID)
	entry.ClusterName = cloneStringPtr(clusterName)
	r.entries[id] = entry
	return nil
}

// Count implements faq.Repository.
func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

var _ faq.Repository = (*MemoryRepository)(nil)
