package question

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/knguyen2000/officehourlens/internal/domain/retrieval"
	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// Config holds runtime knobs for the question service.
type Config struct {
	// DraftTopK is how many grounding snippets the AI draft may use.
	DraftTopK int
}

// Drafter produces an AI draft answer for a freshly submitted question.
type Drafter interface {
	Draft(ctx context.Context, question string, topK int) (retrieval.Draft, error)
}

// FAQArchive receives resolved question/answer pairs for deduplication
// and archiving.
type FAQArchive interface {
	SaveResolved(ctx context.Context, question, answer string) error
}

// Service manages the live question queue: submission with an AI draft,
// status moves, queue position, and resolution into the FAQ corpus.
type Service struct {
	cfg     Config
	repo    Repository
	drafter Drafter
	archive FAQArchive
	logger  *slog.Logger
}

// NewService wires up the question domain.
func NewService(cfg Config, repo Repository, drafter Drafter, archive FAQArchive, logger *slog.Logger) *Service {
	if cfg.DraftTopK <= 0 {
		cfg.DraftTopK = 5
	}
	return &Service{
		cfg:     cfg,
		repo:    repo,
		drafter: drafter,
		archive: archive,
		logger:  logger.With("component", "question.service"),
	}
}

// Create stores a new waiting question and attaches an AI draft answer.
// A failed draft does not fail the submission, the question simply goes
// into the queue without one.
func (s *Service) Create(ctx context.Context, studentName, course, text string) (Question, error) {
	studentName = strings.TrimSpace(studentName)
	text = strings.TrimSpace(text)
	if studentName == "" {
		return Question{}, apperrors.Wrap("invalid_input", "student name cannot be empty", nil)
	}
	if text == "" {
		return Question{}, apperrors.Wrap("invalid_input", "question text cannot be empty", nil)
	}

	q, err := s.repo.Insert(ctx, Question{
		StudentName:  studentName,
		Course:       strings.TrimSpace(course),
		QuestionText: text,
		Status:       StatusWaiting,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return Question{}, apperrors.Wrap("storage_error", "failed to insert question", err)
	}

	draft, err := s.drafter.Draft(ctx, q.QuestionText, s.cfg.DraftTopK)
	if err != nil {
		s.logger.Warn("ai draft failed, question queued without one", "question_id", q.ID, "error", err)
		return q, nil
	}

	q.AIAnswer = draft.Answer
	q.AISources = strings.Join(draft.Sources, ", ")
	q, err = s.repo.Update(ctx, q)
	if err != nil {
		return Question{}, apperrors.Wrap("storage_error", "failed to attach ai draft", err)
	}
	return q, nil
}

// Get fetches one question by id.
func (s *Service) Get(ctx context.Context, id int64) (Question, error) {
	q, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Question{}, apperrors.Wrap("storage_error", "failed to load question", err)
	}
	if !ok {
		return Question{}, apperrors.Wrap("not_found", "question not found", nil)
	}
	return q, nil
}

// Delete removes a question.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to delete question", err)
	}
	if !deleted {
		return apperrors.Wrap("not_found", "question not found", nil)
	}
	return nil
}

// Queue returns the active questions in arrival order.
func (s *Service) Queue(ctx context.Context) ([]Question, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list queue", err)
	}
	return active, nil
}

// QueuePosition reports where a question stands in line: the number of
// active questions submitted at or before it.
func (s *Service) QueuePosition(ctx context.Context, id int64) (int, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, apperrors.Wrap("storage_error", "failed to list queue", err)
	}
	position := 0
	for _, other := range active {
		if !other.CreatedAt.After(q.CreatedAt) {
			position++
		}
	}
	return position, nil
}

// UpdateStatus moves a question to a new lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Question, error) {
	if !status.Valid() {
		return Question{}, apperrors.Wrap("invalid_input", "invalid status", nil)
	}
	q, err := s.Get(ctx, id)
	if err != nil {
		return Question{}, err
	}
	q.Status = status
	q, err = s.repo.Update(ctx, q)
	if err != nil {
		return Question{}, apperrors.Wrap("storage_error", "failed to update status", err)
	}
	return q, nil
}

// Resolve records the TA's final answer and marks the question done.
// With saveToFAQ set the pair is also archived into the FAQ corpus.
func (s *Service) Resolve(ctx context.Context, id int64, resolvedAnswer string, saveToFAQ bool) (Question, error) {
	resolvedAnswer = strings.TrimSpace(resolvedAnswer)
	if resolvedAnswer == "" {
		return Question{}, apperrors.Wrap("invalid_input", "resolved answer cannot be empty", nil)
	}

	q, err := s.Get(ctx, id)
	if err != nil {
		return Question{}, err
	}
	q.ResolvedAnswer = resolvedAnswer
	q.Status = StatusDone
	q, err = s.repo.Update(ctx, q)
	if err != nil {
		return Question{}, apperrors.Wrap("storage_error", "failed to resolve question", err)
	}

	if saveToFAQ {
		if err := s.archive.SaveResolved(ctx, q.QuestionText, q.ResolvedAnswer); err != nil {
			return q, err
		}
	}
	return q, nil
}
