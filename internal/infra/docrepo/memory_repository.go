package docrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/knguyen2000/officehourlens/internal/domain/course"
)

// MemoryRepository is an in-memory course.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	docs map[int64]course.Doc
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		docs:   make(map[int64]course.Doc),
	}
}

// List implements course.Repository.
func (r *MemoryRepository) List(_ context.Context) ([]course.Doc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]course.Doc, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Insert implements course.Repository.
func (r *MemoryRepository) Insert(_ context.Context, doc course.Doc) (course.Doc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = r.nextID
	r.nextID++
	r.docs[doc.ID] = doc
	return doc, nil
}

// Delete implements course.Repository.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

// Count implements course.Repository.
func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}

var _ course.Repository = (*MemoryRepository)(nil)
