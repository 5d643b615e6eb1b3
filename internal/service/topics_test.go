package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/revisio/internal/clock"
	"github.com/akarpov87/revisio/internal/errs"
	"github.com/akarpov87/revisio/internal/model"
	"github.com/akarpov87/revisio/internal/repository"
)

type fakeTopicRepo struct {
	createInTopic *model.Topic
	createInFirst *model.Revision
	createOut     *model.Topic
	createErr     error

	getOut *model.Topic
	getErr error

	listOut []model.Topic
	listErr error

	updInPatch model.TopicPatch
	updOut     *model.Topic
	updErr     error

	delErr error
}

var _ repository.TopicRepository = (*fakeTopicRepo)(nil)

func (f *fakeTopicRepo) Create(_ context.Context, t *model.Topic, first *model.Revision) (*model.Topic, error) {
	f.createInTopic, f.createInFirst = t, first
	return f.createOut, f.createErr
}
func (f *fakeTopicRepo) Get(_ context.Context, _, _ uuid.UUID) (*model.Topic, error) {
	return f.getOut, f.getErr
}
func (f *fakeTopicRepo) List(_ context.Context, _ uuid.UUID) ([]model.Topic, error) {
	return f.listOut, f.listErr
}
func (f *fakeTopicRepo) Update(_ context.Context, _, _ uuid.UUID, patch model.TopicPatch) (*model.Topic, error) {
	f.updInPatch = patch
	return f.updOut, f.updErr
}
func (f *fakeTopicRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return f.delErr }

var march30 = time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)

func TestTopicService_Create_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewTopicService(&fakeTopicRepo{}, clock.Fixed(march30))
	owner := uuid.Must(uuid.NewV4())

	_, err := s.Create(ctx, uuid.Nil, "Algebra", "", "")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.Create(ctx, owner, "   ", "", "")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.Create(ctx, owner, "Algebra", "", "not-a-date")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestTopicService_Create_ExplicitInitialDate(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTopicRepo{createOut: &model.Topic{Title: "X"}}
	s := NewTopicService(repo, clock.Fixed(march30))
	owner := uuid.Must(uuid.NewV4())

	out, err := s.Create(ctx, owner, "X", "", "2025-04-01")
	require.NoError(t, err)
	require.Equal(t, "X", out.Title)

	require.Equal(t, owner, repo.createInTopic.OwnerID)
	require.Equal(t, 1, repo.createInFirst.Interval)
	require.Equal(t, model.StatusPending, repo.createInFirst.Status)
	require.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), repo.createInFirst.ScheduledDate)
}

func TestTopicService_Create_DefaultsToTomorrow(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTopicRepo{createOut: &model.Topic{}}
	s := NewTopicService(repo, clock.Fixed(march30))

	_, err := s.Create(ctx, uuid.Must(uuid.NewV4()), "Trig", "identities", "")
	require.NoError(t, err)
	require.Equal(t, march30.AddDate(0, 0, 1), repo.createInFirst.ScheduledDate)
}

func TestTopicService_Create_TrimsTitle(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTopicRepo{createOut: &model.Topic{}}
	s := NewTopicService(repo, clock.Fixed(march30))

	_, err := s.Create(ctx, uuid.Must(uuid.NewV4()), "  Calculus  ", "", "2025-04-01")
	require.NoError(t, err)
	require.Equal(t, "Calculus", repo.createInTopic.Title)
}

func TestTopicService_Update_Validation(t *testing.T) {
	ctx := context.Background()
	s := NewTopicService(&fakeTopicRepo{}, clock.Fixed(march30))
	owner, id := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	empty := "  "
	_, err := s.Update(ctx, owner, id, model.TopicPatch{Title: &empty})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.Update(ctx, uuid.Nil, id, model.TopicPatch{})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestTopicService_Update_TrimsTitle(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTopicRepo{updOut: &model.Topic{}}
	s := NewTopicService(repo, clock.Fixed(march30))

	title := " Linear Algebra "
	_, err := s.Update(ctx, uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), model.TopicPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Linear Algebra", *repo.updInPatch.Title)
}

func TestTopicService_Get_NotFoundPassesThrough(t *testing.T) {
	ctx := context.Background()
	s := NewTopicService(&fakeTopicRepo{getErr: errs.ErrNotFound}, clock.Fixed(march30))

	_, err := s.Get(ctx, uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTopicService_TimeoutMapsToTransient(t *testing.T) {
	ctx := context.Background()
	s := NewTopicService(&fakeTopicRepo{listErr: context.DeadlineExceeded}, clock.Fixed(march30))

	_, err := s.List(ctx, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrTransient)
}

func TestTopicService_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewTopicService(&fakeTopicRepo{}, clock.Fixed(march30))

	require.ErrorIs(t, s.Delete(ctx, uuid.Nil, uuid.Must(uuid.NewV4())), errs.ErrValidation)
	require.NoError(t, s.Delete(ctx, uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())))
}
