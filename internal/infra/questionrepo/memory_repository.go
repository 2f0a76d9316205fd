package questionrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/knguyen2000/officehourlens/internal/domain/question"
)

var errQuestionNotFound = errors.New("question not found")

// MemoryRepository is an in-memory question.Repository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	questions map[int64]question.Question
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:    1,
		questions: make(map[int64]question.Question),
	}
}

// Insert implements question.Repository.
func (r *MemoryRepository) Insert(_ context.Context, q question.Question) (question.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = r.nextID
	r.nextID++
	r.questions[q.ID] = q
	return q, nil
}

// Get implements question.Repository.
func (r *MemoryRepository) Get(_ context.Context, id int64) (question.Question, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questions[id]
	return q, ok, nil
}

// Update implements question.Repository.
func (r *MemoryRepository) Update(_ context.Context, q question.Question) (question.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[q.ID]; !ok {
		return question.Question{}, errQuestionNotFound
	}
	r.questions[q.ID] = q
	return q, nil
}

// Delete implements question.Repository.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return false, nil
	}
	delete(r.questions, id)
	return true, nil
}

// ListActive implements question.Repository.
func (r *MemoryRepository) ListActive(_ context.Context) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var active []question.Question
	for _, q := range r.questions {
		if q.Status == question.StatusWaiting || q.Status == question.StatusInProgress {
			active = append(active, q)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].ID < active[j].ID
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active, nil
}

var _ question.Repository = (*MemoryRepository)(nil)
