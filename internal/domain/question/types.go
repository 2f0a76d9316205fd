package question

import (
	"context"
	"time"
)

// Status tracks where a question sits in the office hours lifecycle.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Question is a student question submitted during office hours.
type Question struct {
	ID             int64     `json:"id"`
	StudentName    string    `json:"student_name"`
	Course         string    `json:"course,omitempty"`
	QuestionText   string    `json:"question_text"`
	CreatedAt      time.Time `json:"created_at"`
	Status         Status    `json:"status"`
	AIAnswer       string    `json:"ai_answer,omitempty"`
	AISources      string    `json:"ai_sources,omitempty"`
	ResolvedAnswer string    `json:"resolved_answer,omitempty"`
}

// Repository stores questions.
type Repository interface {
	Insert(ctx context.Context, q Question) (Question, error)
	Get(ctx context.Context, id int64) (Question, bool, error)
	Update(ctx context.Context, q Question) (Question, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// ListActive returns waiting and in-progress questions ordered by
	// creation time ascending.
	ListActive(ctx context.Context) ([]Question, error)
}
