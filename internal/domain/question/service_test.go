package question

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/knguyen2000/officehourlens/internal/domain/retrieval"
	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

type fakeRepo struct {
	nextID    int64
	questions map[int64]Question
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, questions: map[int64]Question{}}
}

func (r *fakeRepo) Insert(_ context.Context, q Question) (Question, error) {
	q.ID = r.nextID
	r.nextID++
	r.questions[q.ID] = q
	return q, nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (Question, bool, error) {
	q, ok := r.questions[id]
	return q, ok, nil
}

func (r *fakeRepo) Update(_ context.Context, q Question) (Question, error) {
	r.questions[q.ID] = q
	return q, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.questions[id]; !ok {
		return false, nil
	}
	delete(r.questions, id)
	return true, nil
}

func (r *fakeRepo) ListActive(_ context.Context) ([]Question, error) {
	var active []Question
	for _, q := range r.questions {
		if q.Status == StatusWaiting || q.Status == StatusInProgress {
			active = append(active, q)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active, nil
}

type fakeDrafter struct {
	draft retrieval.Draft
	err   error
}

func (f fakeDrafter) Draft(context.Context, string, int) (retrieval.Draft, error) {
	return f.draft, f.err
}

type fakeArchive struct {
	saved [][2]string
	err   error
}

func (f *fakeArchive) SaveResolved(_ context.Context, question, answer string) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, [2]string{question, answer})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *fakeRepo, drafter Drafter, archive FAQArchive) *Service {
	return NewService(Config{DraftTopK: 5}, repo, drafter, archive, testLogger())
}

func TestCreateAttachesDraft(t *testing.T) {
	repo := newFakeRepo()
	drafter := fakeDrafter{draft: retrieval.Draft{
		Answer:  "Submit through the portal.",
		Sources: []string{"Doc: Syllabus", "FAQ"},
	}}
	svc := newTestService(repo, drafter, &fakeArchive{})

	q, err := svc.Create(context.Background(), "Ana", "CS101", "How do I submit HW1?")
	require.NoError(t, err)
	require.Equal(t, StatusWaiting, q.Status)
	require.Equal(t, "Submit through the portal.", q.AIAnswer)
	require.Equal(t, "Doc: Syllabus, FAQ", q.AISources)
	require.False(t, q.CreatedAt.IsZero())
}

func TestCreateSurvivesDraftFailure(t *testing.T) {
	repo := newFakeRepo()
	drafter := fakeDrafter{err: errors.New("provider down")}
	svc := newTestService(repo, drafter, &fakeArchive{})

	q, err := svc.Create(context.Background(), "Ana", "", "How do I submit HW1?")
	require.NoError(t, err)
	require.Empty(t, q.AIAnswer)
	require.Equal(t, StatusWaiting, q.Status)

	stored, ok, err := repo.Get(context.Background(), q.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StatusWaiting, stored.Status)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), fakeDrafter{}, &fakeArchive{})

	_, err := svc.Create(context.Background(), "", "", "question")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Create(context.Background(), "Ana", "", "   ")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, fakeDrafter{}, &fakeArchive{})
	q, err := svc.Create(context.Background(), "Ana", "", "When is HW1 due?")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), q.ID, StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), q.ID, Status("answered"))
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.UpdateStatus(context.Background(), 999, StatusDone)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestQueueOrderAndPosition(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, fakeDrafter{}, &fakeArchive{})
	ctx := context.Background()

	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"Ana", "Ben", "Cleo"} {
		_, err := repo.Insert(ctx, Question{
			StudentName:  name,
			QuestionText: "q",
			Status:       StatusWaiting,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	queue, err := svc.Queue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 3)
	require.Equal(t, "Ana", queue[0].StudentName)
	require.Equal(t, "Cleo", queue[2].StudentName)

	pos, err := svc.QueuePosition(ctx, queue[1].ID)
	require.NoError(t, err)
	require.Equal(t, 2, pos)

	// Resolved questions leave the queue and no longer count.
	_, err = svc.Resolve(ctx, queue[0].ID, "done", false)
	require.NoError(t, err)
	pos, err = svc.QueuePosition(ctx, queue[1].ID)
	require.NoError(t, err)
	require.Equal(t, 1, pos)
}

func TestResolveArchivesWhenRequested(t *testing.T) {
	repo := newFakeRepo()
	archive := &fakeArchive{}
	svc := newTestService(repo, fakeDrafter{}, archive)
	ctx := context.Background()

	q, err := svc.Create(ctx, "Ana", "", "Can I use numpy?")
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, q.ID, "Yes, numpy is allowed.", true)
	require.NoError(t, err)
	require.Equal(t, StatusDone, resolved.Status)
	require.Equal(t, "Yes, numpy is allowed.", resolved.ResolvedAnswer)
	require.Equal(t, [][2]string{{"Can I use numpy?", "Yes, numpy is allowed."}}, archive.saved)

	// Without the flag nothing new reaches the archive.
	q2, err := svc.Create(ctx, "Ben", "", "Is recursion covered?")
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, q2.ID, "Yes, in week 6.", false)
	require.NoError(t, err)
	require.Len(t, archive.saved, 1)
}

func TestResolveValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, fakeDrafter{}, &fakeArchive{})
	ctx := context.Background()

	q, err := svc.Create(ctx, "Ana", "", "Can I use numpy?")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, q.ID, "   ", true)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Resolve(ctx, 999, "answer", true)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, fakeDrafter{}, &fakeArchive{})
	ctx := context.Background()

	q, err := svc.Create(ctx, "Ana", "", "Can I use numpy?")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, q.ID))
	require.True(t, apperrors.IsCode(svc.Delete(ctx, q.ID), "not_found"))
}
