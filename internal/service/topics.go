// Package service orchestrates repository reads/writes, the interval policy
// and the reference clock. Services are stateless between calls; every
// operation is a single logical transaction against the repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/revisio/internal/clock"
	"github.com/akarpov87/revisio/internal/errs"
	"github.com/akarpov87/revisio/internal/model"
	"github.com/akarpov87/revisio/internal/repository"
	"github.com/akarpov87/revisio/internal/schedule"
)

// TopicService defines operations over topics and their revision chains.
type TopicService interface {
	// Create registers a topic and its first pending revision. An empty
	// initialDate defaults to tomorrow.
	Create(ctx context.Context, ownerID uuid.UUID, title, description, initialDate string) (*model.Topic, error)
	// Get returns a topic with its revisions.
	Get(ctx context.Context, ownerID, topicID uuid.UUID) (*model.Topic, error)
	// List returns the owner's topics.
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Topic, error)
	// Update edits title/description.
	Update(ctx context.Context, ownerID, topicID uuid.UUID, patch model.TopicPatch) (*model.Topic, error)
	// Delete removes a topic and, by cascade, its revisions.
	Delete(ctx context.Context, ownerID, topicID uuid.UUID) error
}

type TopicServiceImpl struct {
	repo repository.TopicRepository
	clk  clock.Clock
}

// NewTopicService constructs TopicService.
func NewTopicService(repo repository.TopicRepository, clk clock.Clock) *TopicServiceImpl {
	return &TopicServiceImpl{repo: repo, clk: clk}
}

// Create validates input and creates the topic with its first revision.
// Guarantees exactly one pending revision exists afterward.
func (s *TopicServiceImpl) Create(
	ctx context.Context, ownerID uuid.UUID, title, description, initialDate string,
) (*model.Topic, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID", errs.ErrValidation)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", errs.ErrValidation)
	}

	var firstDate time.Time
	if initialDate == "" {
		firstDate = s.clk.Today().AddDate(0, 0, 1)
	} else {
		d, err := clock.ParseDate(initialDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errs.ErrValidation, err)
		}
		firstDate = d
	}

	topic := &model.Topic{OwnerID: ownerID, Title: title, Description: description}
	first := &model.Revision{
		ScheduledDate: firstDate,
		Interval:      schedule.FirstInterval,
		Status:        model.StatusPending,
	}
	out, err := s.repo.Create(ctx, topic, first)
	return out, mapRepoErr(err)
}

// Get fetches a topic with its revision chain.
func (s *TopicServiceImpl) Get(ctx context.Context, ownerID, topicID uuid.UUID) (*model.Topic, error) {
	if ownerID == uuid.Nil || topicID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/topicID", errs.ErrValidation)
	}
	out, err := s.repo.Get(ctx, ownerID, topicID)
	return out, mapRepoErr(err)
}

// List fetches the owner's topics.
func (s *TopicServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]model.Topic, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID", errs.ErrValidation)
	}
	out, err := s.repo.List(ctx, ownerID)
	return out, mapRepoErr(err)
}

// Update edits title/description; a set-but-empty title is rejected.
func (s *TopicServiceImpl) Update(
	ctx context.Context, ownerID, topicID uuid.UUID, patch model.TopicPatch,
) (*model.Topic, error) {
	if ownerID == uuid.Nil || topicID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/topicID", errs.ErrValidation)
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: empty title", errs.ErrValidation)
		}
		patch.Title = &t
	}
	out, err := s.repo.Update(ctx, ownerID, topicID, patch)
	return out, mapRepoErr(err)
}

// Delete removes a topic.
func (s *TopicServiceImpl) Delete(ctx context.Context, ownerID, topicID uuid.UUID) error {
	if ownerID == uuid.Nil || topicID == uuid.Nil {
		return fmt.Errorf("%w: empty ownerID/topicID", errs.ErrValidation)
	}
	return mapRepoErr(s.repo.Delete(ctx, ownerID, topicID))
}

// mapRepoErr surfaces repository timeouts/cancellations as retryable
// transient failures; everything else passes through unchanged.
func mapRepoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", errs.ErrTransient, err)
	}
	return err
}
