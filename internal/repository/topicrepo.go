package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/revisio/internal/model"
)

// TopicRepository provides owner-scoped access to topics and their revision chains.
type TopicRepository interface {
	// Create inserts a topic together with its first pending revision in one
	// transaction and returns the stored topic with the revision attached.
	Create(ctx context.Context, topic *model.Topic, first *model.Revision) (*model.Topic, error)

	// Get returns a topic with its revisions ordered by scheduled date.
	Get(ctx context.Context, ownerID, topicID uuid.UUID) (*model.Topic, error)

	// List returns the owner's topics without revision chains, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Topic, error)

	// Update applies a patch to title/description and returns the updated topic.
	Update(ctx context.Context, ownerID, topicID uuid.UUID, patch model.TopicPatch) (*model.Topic, error)

	// Delete removes a topic; its revisions cascade.
	Delete(ctx context.Context, ownerID, topicID uuid.UUID) error
}
