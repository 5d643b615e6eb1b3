package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/revisio/internal/clock"
	"github.com/akarpov87/revisio/internal/errs"
	"github.com/akarpov87/revisio/internal/model"
	"github.com/akarpov87/revisio/internal/repository"
	"github.com/akarpov87/revisio/internal/schedule"
)

// ClassifiedRevision is a revision plus its read-time temporal label.
// Temporal is set only for pending revisions; closed ones carry no label.
type ClassifiedRevision struct {
	model.Revision
	Temporal schedule.Temporal
}

// RevisionService defines the revision lifecycle operations.
type RevisionService interface {
	// Get returns a single revision with its temporal label.
	Get(ctx context.Context, ownerID, revisionID uuid.UUID) (*ClassifiedRevision, error)
	// Complete marks a pending revision completed today and appends the
	// successor with a doubled interval. Not idempotent: a second call on
	// the same id fails with ErrInvalidState.
	Complete(ctx context.Context, ownerID, revisionID uuid.UUID) (*model.Revision, error)
	// Postpone shifts a pending revision by days (>=1) from its original
	// scheduled date, keeping the interval unchanged.
	Postpone(ctx context.Context, ownerID, revisionID uuid.UUID, days int) (*model.Revision, error)
	// List returns revisions matching the filter, classified against a
	// single reference date.
	List(ctx context.Context, filter model.RevisionFilter) ([]ClassifiedRevision, error)
	// ListToday returns pending revisions scheduled for today.
	ListToday(ctx context.Context, ownerID uuid.UUID) ([]ClassifiedRevision, error)
	// ListMissed returns pending revisions scheduled strictly before today.
	ListMissed(ctx context.Context, ownerID uuid.UUID) ([]ClassifiedRevision, error)
	// ListUpcoming returns pending revisions scheduled after today.
	ListUpcoming(ctx context.Context, ownerID uuid.UUID) ([]ClassifiedRevision, error)
	// Reschedule moves a pending revision to a new scheduled date.
	Reschedule(ctx context.Context, ownerID, revisionID uuid.UUID, newDate time.Time) (*model.Revision, error)
}

type RevisionServiceImpl struct {
	repo repository.RevisionRepository
	clk  clock.Clock
}

// NewRevisionService constructs RevisionService.
func NewRevisionService(repo repository.RevisionRepository, clk clock.Clock) *RevisionServiceImpl {
	return &RevisionServiceImpl{repo: repo, clk: clk}
}

// Get fetches one revision and classifies it.
func (s *RevisionServiceImpl) Get(ctx context.Context, ownerID, revisionID uuid.UUID) (*ClassifiedRevision, error) {
	if ownerID == uuid.Nil || revisionID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/revisionID", errs.ErrValidation)
	}
	rev, err := s.repo.Get(ctx, ownerID, revisionID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := classify(*rev, s.clk.Today())
	return &out, nil
}

// Complete closes a pending revision as completed today and appends the next
// one at today + doubled interval.
func (s *RevisionServiceImpl) Complete(ctx context.Context, ownerID, revisionID uuid.UUID) (*model.Revision, error) {
	if ownerID == uuid.Nil || revisionID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/revisionID", errs.ErrValidation)
	}
	rev, err := s.repo.Get(ctx, ownerID, revisionID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if rev.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: revision is %s", errs.ErrInvalidState, rev.Status)
	}

	today := s.clk.Today()
	nextInterval := schedule.NextInterval(rev.Interval)
	next := &model.Revision{
		TopicID:       rev.TopicID,
		ScheduledDate: schedule.NextDate(today, nextInterval),
		Interval:      nextInterval,
		Status:        model.StatusPending,
	}
	out, err := s.repo.Complete(ctx, ownerID, revisionID, today, next)
	return out, mapRepoErr(err)
}

// Postpone closes a pending revision and appends its replacement at
// scheduled date + days, carrying the same interval.
func (s *RevisionServiceImpl) Postpone(ctx context.Context, ownerID, revisionID uuid.UUID, days int) (*model.Revision, error) {
	if ownerID == uuid.Nil || revisionID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/revisionID", errs.ErrValidation)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: postpone days must be >= 1, got %d", errs.ErrValidation, days)
	}
	rev, err := s.repo.Get(ctx, ownerID, revisionID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if rev.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: revision is %s", errs.ErrInvalidState, rev.Status)
	}

	target := schedule.PostponeTarget(rev.ScheduledDate, days)
	next := &model.Revision{
		TopicID:       rev.TopicID,
		ScheduledDate: target,
		Interval:      rev.Interval,
		Status:        model.StatusPending,
	}
	out, err := s.repo.Postpone(ctx, ownerID, revisionID, rev.ScheduledDate, target, next)
	return out, mapRepoErr(err)
}

// List returns revisions matching the filter.
func (s *RevisionServiceImpl) List(ctx context.Context, filter model.RevisionFilter) ([]ClassifiedRevision, error) {
	if filter.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID", errs.ErrValidation)
	}
	revs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return classifyAll(revs, s.clk.Today()), nil
}

// ListToday returns pending revisions due today.
func (s *RevisionServiceImpl) ListToday(ctx context.Context, ownerID uuid.UUID) ([]ClassifiedRevision, error) {
	return s.listPendingWhere(ctx, ownerID, func(t schedule.Temporal) bool {
		return t == schedule.Today
	})
}

// ListMissed returns pending revisions whose date has passed.
func (s *RevisionServiceImpl) ListMissed(ctx context.Context, ownerID uuid.UUID) ([]ClassifiedRevision, error) {
	return s.listPendingWhere(ctx, ownerID, func(t schedule.Temporal) bool {
		return t == schedule.Overdue
	})
}

// ListUpcoming returns pending revisions scheduled after today.
func (s *RevisionServiceImpl) ListUpcoming(ctx context.Context, ownerID uuid.UUID) ([]ClassifiedRevision, error) {
	return s.listPendingWhere(ctx, ownerID, func(t schedule.Temporal) bool {
		return t == schedule.Tomorrow || t == schedule.Upcoming
	})
}

// Reschedule moves a pending revision's scheduled date.
func (s *RevisionServiceImpl) Reschedule(
	ctx context.Context, ownerID, revisionID uuid.UUID, newDate time.Time,
) (*model.Revision, error) {
	if ownerID == uuid.Nil || revisionID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/revisionID", errs.ErrValidation)
	}
	if newDate.IsZero() {
		return nil, fmt.Errorf("%w: empty scheduled date", errs.ErrValidation)
	}
	d := clock.Normalize(newDate)
	out, err := s.repo.Update(ctx, ownerID, revisionID, model.RevisionPatch{ScheduledDate: &d})
	return out, mapRepoErr(err)
}

// listPendingWhere fetches the owner's pending revisions and keeps those
// whose label matches. One today value classifies the whole response.
func (s *RevisionServiceImpl) listPendingWhere(
	ctx context.Context, ownerID uuid.UUID, keep func(schedule.Temporal) bool,
) ([]ClassifiedRevision, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID", errs.ErrValidation)
	}
	pending := model.StatusPending
	revs, err := s.repo.List(ctx, model.RevisionFilter{OwnerID: ownerID, Status: &pending})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	today := s.clk.Today()
	out := make([]ClassifiedRevision, 0, len(revs))
	for _, rev := range revs {
		c := classify(rev, today)
		if keep(c.Temporal) {
			out = append(out, c)
		}
	}
	return out, nil
}

func classify(rev model.Revision, today time.Time) ClassifiedRevision {
	c := ClassifiedRevision{Revision: rev}
	if rev.Status == model.StatusPending {
		c.Temporal = schedule.Classify(rev.ScheduledDate, today)
	}
	return c
}

func classifyAll(revs []model.Revision, today time.Time) []ClassifiedRevision {
	out := make([]ClassifiedRevision, 0, len(revs))
	for _, rev := range revs {
		out = append(out, classify(rev, today))
	}
	return out
}
