package course

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// sourceTypes are the accepted kinds of course material.
var sourceTypes = map[string]struct{}{
	"syllabus":      {},
	"hw":            {},
	"slide":         {},
	"lecture_notes": {},
	"other":         {},
}

// Service manages the course document library.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires up the course document domain.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("component", "course.service")}
}

// Create stores a new course document.
func (s *Service) Create(ctx context.Context, title, content, sourceType string) (Doc, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	sourceType = strings.TrimSpace(strings.ToLower(sourceType))
	if title == "" {
		return Doc{}, apperrors.Wrap("invalid_input", "title cannot be empty", nil)
	}
	if content == "" {
		return Doc{}, apperrors.Wrap("invalid_input", "content cannot be empty", nil)
	}
	if _, ok := sourceTypes[sourceType]; !ok {
		return Doc{}, apperrors.Wrap("invalid_input", "unknown source type", nil)
	}

	doc, err := s.repo.Insert(ctx, Doc{Title: title, Content: content, SourceType: sourceType})
	if err != nil {
		return Doc{}, apperrors.Wrap("storage_error", "failed to insert course doc", err)
	}
	s.logger.Info("course doc created", "doc_id", doc.ID, "source_type", doc.SourceType)
	return doc, nil
}

// List returns all course documents.
func (s *Service) List(ctx context.Context) ([]Doc, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list course docs", err)
	}
	return docs, nil
}

// Delete removes a course document.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to delete course doc", err)
	}
	if !deleted {
		return apperrors.Wrap("not_found", "document not found", nil)
	}
	return nil
}

// SeedDefaults inserts a couple of starter documents into an empty library.
func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to count course docs", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []Doc{
		{
			Title:      "HW1: Linear Regression",
			Content:    "Homework 1 covers linear regression, mean squared error, gradient descent, and basic data preprocessing.",
			SourceType: "hw",
		},
		{
			Title:      "Syllabus: Intro to ML",
			Content:    "Course covers supervised learning, regression, classification, neural networks. Homework is due on Fridays at 11:59 PM.",
			SourceType: "syllabus",
		},
	}
	for _, seed := range seeds {
		if _, err := s.repo.Insert(ctx, seed); err != nil {
			return apperrors.Wrap("storage_error", "failed to seed course doc", err)
		}
	}
	return nil
}
