package faq

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/knguyen2000/officehourlens/internal/domain/clustering"
	"github.com/knguyen2000/officehourlens/internal/domain/dedup"
	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// Config holds runtime knobs for the FAQ service.
type Config struct {
	// DefaultThreshold is the visibility threshold used when the stored
	// setting is absent or malformed.
	DefaultThreshold int
}

// Deduper decides whether a resolved question duplicates an existing entry.
type Deduper interface {
	Match(ctx context.Context, question string, existing []dedup.Entry) (dedup.Decision, error)
}

// ClusterEngine computes a full cluster assignment over the corpus.
type ClusterEngine interface {
	Compute(ctx context.Context, items []clustering.Item) (map[int64]clustering.Assignment, error)
}

// Service owns the FAQ corpus: archiving resolved questions through the
// dedup matcher, keeping topic clusters fresh, and filtering what is
// exposed to students.
type Service struct {
	cfg      Config
	repo     Repository
	settings SettingsStore
	matcher  Deduper
	engine   ClusterEngine
	logger   *slog.Logger

	// mu serializes corpus mutations: two interleaved reset-then-reassign
	// clustering passes would corrupt assignments.
	mu sync.Mutex
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo Repository, settings SettingsStore, matcher Deduper, engine ClusterEngine, logger *slog.Logger) *Service {
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = 1
	}
	return &Service{
		cfg:      cfg,
		repo:     repo,
		settings: settings,
		matcher:  matcher,
		engine:   engine,
		logger:   logger.With("component", "faq.service"),
	}
}

// SaveResolved archives a resolved question: duplicates fold into the
// matching entry (ask count + 1), everything else becomes a new entry.
// Either way the whole corpus is reclustered afterwards.
func (s *Service) SaveResolved(ctx context.Context, question, answer string) (Result, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return Result{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	if answer == "" {
		return Result{}, apperrors.Wrap("invalid_input", "answer cannot be empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.repo.List(ctx)
	if err != nil {
		return Result{}, apperrors.Wrap("storage_error", "failed to list faq entries", err)
	}

	existing := make([]dedup.Entry, 0, len(entries))
	for _, e := range entries {
		existing = append(existing, dedup.Entry{ID: e.ID, Question: e.Question, Embedding: e.Embedding})
	}

	decision, err := s.matcher.Match(ctx, question, existing)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if decision.Matched {
		updated, err := s.repo.IncrementAskCount(ctx, decision.EntryID)
		if err != nil {
			return Result{}, apperrors.Wrap("storage_error", "failed to increment ask count", err)
		}
		s.logger.Info("duplicate question folded into faq entry", "entry_id", updated.ID, "ask_count", updated.AskCount)
		result = Result{Entry: updated}
	} else {
		inserted, err := s.repo.Insert(ctx, question, answer, decision.QuestionEmbedding, time.Now().UTC())
		if err != nil {
			return Result{}, apperrors.Wrap("storage_error", "failed to insert faq entry", err)
		}
		s.logger.Info("new faq entry created", "entry_id", inserted.ID)
		result = Result{Entry: inserted, Created: true}
	}

	if err := s.reclusterLocked(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// Recluster recomputes cluster assignments for the whole corpus.
func (s *Service) Recluster(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reclusterLocked(ctx)
}

func (s *Service) reclusterLocked(ctx context.Context) error {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to list faq entries", err)
	}

	items := make([]clustering.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, clustering.Item{ID: e.ID, Question: e.Question})
	}

	assignments, err := s.engine.Compute(ctx, items)
	if err != nil {
		return err
	}

	for _, e := range entries {
		a := assignments[e.ID]
		if err := s.repo.UpdateCluster(ctx, e.ID, a.ClusterID, a.ClusterName); err != nil {
			return apperrors.Wrap("storage_error", "failed to update cluster fields", err)
		}
	}
	return nil
}

// List returns the entries students may see, filtered by the visibility
// threshold and ordered for display.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list faq entries", err)
	}
	return Visible(entries, s.Threshold(ctx)), nil
}

// Threshold reads the visibility threshold from settings, falling back to
// the configured default when the value is absent or not a number.
func (s *Service) Threshold(ctx context.Context) int {
	raw, ok, err := s.settings.Get(ctx, ThresholdKey)
	if err != nil {
		s.logger.Warn("settings lookup failed, using default threshold", "error", err)
		return s.cfg.DefaultThreshold
	}
	if !ok {
		return s.cfg.DefaultThreshold
	}
	threshold, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.Warn("malformed threshold setting, using default", "value", raw)
		return s.cfg.DefaultThreshold
	}
	return threshold
}

// Setting returns the raw value for a settings key.
func (s *Service) Setting(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.settings.Get(ctx, key)
	if err != nil {
		return "", false, apperrors.Wrap("storage_error", "failed to read setting", err)
	}
	return value, ok, nil
}

// SetSetting upserts a settings key.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperrors.Wrap("invalid_input", "setting key cannot be empty", nil)
	}
	if err := s.settings.Set(ctx, key, value); err != nil {
		return apperrors.Wrap("storage_error", "failed to store setting", err)
	}
	return nil
}

// SeedDefaults inserts a couple of starter FAQ entries into an empty corpus.
func (s *Service) SeedDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to count faq entries", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []struct{ question, answer string }{
		{
			question: "What should I focus on for the midterm?",
			answer:   "Focus on understanding linear regression, logistic regression, and how to interpret model coefficients. Practice past homework problems and review lecture slides.",
		},
		{
			question: "Can I submit homework late?",
			answer:   "You can submit homework up to 48 hours late with a small penalty. After that, submissions are not accepted unless you have prior approval.",
		},
	}
	now := time.Now().UTC()
	for _, seed := range seeds {
		if _, err := s.repo.Insert(ctx, seed.question, seed.answer, nil, now); err != nil {
			return apperrors.Wrap("storage_error", "failed to seed faq entry", err)
		}
	}
	return nil
}
