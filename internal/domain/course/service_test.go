package course

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

type fakeRepo struct {
	nextID int64
	docs   []Doc
}

func newFakeRepo() *fakeRepo { return &fakeRepo{nextID: 1} }

func (r *fakeRepo) List(context.Context) ([]Doc, error) {
	out := make([]Doc, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

func (r *fakeRepo) Insert(_ context.Context, doc Doc) (Doc, error) {
	doc.ID = r.nextID
	r.nextID++
	r.docs = append(r.docs, doc)
	return doc, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i, doc := range r.docs {
		if doc.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Count(context.Context) (int, error) { return len(r.docs), nil }

func newTestService(repo *fakeRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(repo, logger)
}

func TestCreateValidatesSourceType(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	for _, sourceType := range []string{"syllabus", "hw", "slide", "lecture_notes", "other"} {
		doc, err := svc.Create(ctx, "Title", "Content", sourceType)
		require.NoError(t, err, sourceType)
		require.Equal(t, sourceType, doc.SourceType)
	}

	_, err := svc.Create(ctx, "Title", "Content", "textbook")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Create(ctx, "", "Content", "hw")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Create(ctx, "Title", "  ", "hw")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "Slides week 1", "Intro material", "slide")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, doc.ID))
	require.True(t, apperrors.IsCode(svc.Delete(ctx, doc.ID), "not_found"))
}

func TestSeedDefaultsOnlyOnEmptyLibrary(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaults(ctx))
	docs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	require.NoError(t, svc.SeedDefaults(ctx))
	docs, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
}
