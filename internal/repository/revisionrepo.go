package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/revisio/internal/model"
)

// RevisionRepository provides owner-scoped access to revisions and applies
// lifecycle transitions atomically. Transition methods lock the source row,
// verify it is still pending, and insert the successor in the same
// transaction, so two concurrent transitions on one revision yield exactly
// one success and one ErrInvalidState.
type RevisionRepository interface {
	// Get returns a single revision.
	Get(ctx context.Context, ownerID, revisionID uuid.UUID) (*model.Revision, error)

	// List returns the owner's revisions matching the filter, ordered by
	// scheduled date.
	List(ctx context.Context, filter model.RevisionFilter) ([]model.Revision, error)

	// Complete marks a pending revision completed on completedOn and inserts
	// next as the successor pending revision. Returns the closed revision.
	Complete(ctx context.Context, ownerID, revisionID uuid.UUID, completedOn time.Time, next *model.Revision) (*model.Revision, error)

	// Postpone closes a pending revision with postponed_to=target and inserts
	// next as the replacement pending revision. baseScheduled must match the
	// stored scheduled date, guarding against a concurrent reschedule.
	Postpone(ctx context.Context, ownerID, revisionID uuid.UUID, baseScheduled, target time.Time, next *model.Revision) (*model.Revision, error)

	// Update applies a patch to a pending revision (closed revisions are
	// immutable history) and returns the updated revision.
	Update(ctx context.Context, ownerID, revisionID uuid.UUID, patch model.RevisionPatch) (*model.Revision, error)
}
