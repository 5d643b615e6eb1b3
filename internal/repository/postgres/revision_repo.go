package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/akarpov87/revisio/internal/errs"
	"github.com/akarpov87/revisio/internal/model"
)

// RevisionRepo implements RevisionRepository using PostgreSQL.
type RevisionRepo struct{ db *DB }

// NewRevisionRepo constructs a revision repository.
func NewRevisionRepo(db *DB) *RevisionRepo { return &RevisionRepo{db: db} }

const revisionCols = `r.id, r.topic_id, r.scheduled_date, r.interval_days, r.status, r.completion_date, r.postponed_to, r.created_at, r.updated_at`

func scanRevision(row pgx.Row) (*model.Revision, error) {
	var rev model.Revision
	err := row.Scan(&rev.ID, &rev.TopicID, &rev.ScheduledDate, &rev.Interval,
		&rev.Status, &rev.CompletionDate, &rev.PostponedTo, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// Get returns a single revision scoped to the owner.
func (r *RevisionRepo) Get(ctx context.Context, ownerID, revisionID uuid.UUID) (*model.Revision, error) {
	const q = `
SELECT ` + revisionCols + `
FROM revisions r JOIN topics t ON t.id=r.topic_id
WHERE r.id=$1 AND t.owner_id=$2`
	rev, err := scanRevision(r.db.Pool.QueryRow(ctx, q, revisionID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rev, nil
}

// List returns the owner's revisions matching the filter, ordered by scheduled date.
func (r *RevisionRepo) List(ctx context.Context, filter model.RevisionFilter) ([]model.Revision, error) {
	const q = `
SELECT ` + revisionCols + `
FROM revisions r JOIN topics t ON t.id=r.topic_id
WHERE t.owner_id=$1
  AND ($2::date IS NULL OR r.scheduled_date=$2)
  AND ($3::text IS NULL OR r.status=$3)
ORDER BY r.scheduled_date ASC`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	rows, err := r.db.Pool.Query(ctx, q, filter.OwnerID, filter.Date, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rev)
	}
	return out, rows.Err()
}

// lockPending locks the revision row and verifies it is still pending.
// Returns the topic id and stored scheduled date for the transition to use.
func lockPending(ctx context.Context, tx pgx.Tx, ownerID, revisionID uuid.UUID) (uuid.UUID, time.Time, error) {
	const sel = `
SELECT r.topic_id, r.scheduled_date, r.status
FROM revisions r JOIN topics t ON t.id=r.topic_id
WHERE r.id=$1 AND t.owner_id=$2
FOR UPDATE OF r`
	var (
		topicID   uuid.UUID
		scheduled time.Time
		status    model.RevisionStatus
	)
	if err := tx.QueryRow(ctx, sel, revisionID, ownerID).Scan(&topicID, &scheduled, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, errs.ErrNotFound
		}
		return uuid.Nil, time.Time{}, err
	}
	if status != model.StatusPending {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: revision is %s", errs.ErrInvalidState, status)
	}
	return topicID, scheduled, nil
}

// insertSuccessor appends the next pending revision. A pending revision may
// already occupy the (topic, date) slot; the partial unique index swallows
// the duplicate so the chain never holds two identical pendings.
func insertSuccessor(ctx context.Context, tx pgx.Tx, topicID uuid.UUID, next *model.Revision) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	const ins = `
INSERT INTO revisions (id, topic_id, scheduled_date, interval_days, status)
VALUES ($1,$2,$3,$4,'pending')
ON CONFLICT (topic_id, scheduled_date) WHERE status='pending' DO NOTHING`
	_, err = tx.Exec(ctx, ins, id, topicID, next.ScheduledDate, next.Interval)
	return err
}

// Complete closes a pending revision and appends its successor atomically.
func (r *RevisionRepo) Complete(
	ctx context.Context, ownerID, revisionID uuid.UUID, completedOn time.Time, next *model.Revision,
) (out *model.Revision, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	topicID, _, err := lockPending(ctx, tx, ownerID, revisionID)
	if err != nil {
		return nil, err
	}

	const upd = `
UPDATE revisions SET status='completed', completion_date=$2, updated_at=now()
WHERE id=$1
RETURNING id, topic_id, scheduled_date, interval_days, status, completion_date, postponed_to, created_at, updated_at`
	out, err = scanRevision(tx.QueryRow(ctx, upd, revisionID, completedOn))
	if err != nil {
		return nil, err
	}
	if err = insertSuccessor(ctx, tx, topicID, next); err != nil {
		return nil, err
	}
	return out, nil
}

// Postpone closes a pending revision with its target date and appends the
// replacement pending revision atomically. baseScheduled guards against a
// reschedule racing the postponement.
func (r *RevisionRepo) Postpone(
	ctx context.Context, ownerID, revisionID uuid.UUID, baseScheduled, target time.Time, next *model.Revision,
) (out *model.Revision, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	topicID, scheduled, err := lockPending(ctx, tx, ownerID, revisionID)
	if err != nil {
		return nil, err
	}
	if !scheduled.Equal(baseScheduled) {
		return nil, fmt.Errorf("%w: scheduled date changed", errs.ErrInvalidState)
	}

	const upd = `
UPDATE revisions SET status='postponed', postponed_to=$2, updated_at=now()
WHERE id=$1
RETURNING id, topic_id, scheduled_date, interval_days, status, completion_date, postponed_to, created_at, updated_at`
	out, err = scanRevision(tx.QueryRow(ctx, upd, revisionID, target))
	if err != nil {
		return nil, err
	}
	if err = insertSuccessor(ctx, tx, topicID, next); err != nil {
		return nil, err
	}
	return out, nil
}

// Update patches a pending revision. Closed revisions are immutable history.
func (r *RevisionRepo) Update(
	ctx context.Context, ownerID, revisionID uuid.UUID, patch model.RevisionPatch,
) (*model.Revision, error) {
	const q = `
UPDATE revisions r
SET scheduled_date=COALESCE($3,r.scheduled_date), updated_at=now()
FROM topics t
WHERE r.id=$1 AND t.id=r.topic_id AND t.owner_id=$2 AND r.status='pending'
RETURNING r.id, r.topic_id, r.scheduled_date, r.interval_days, r.status, r.completion_date, r.postponed_to, r.created_at, r.updated_at`
	rev, err := scanRevision(r.db.Pool.QueryRow(ctx, q, revisionID, ownerID, patch.ScheduledDate))
	if err == nil {
		return rev, nil
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: a pending revision already exists on that date", errs.ErrValidation)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Distinguish a missing revision from a closed one.
	if _, getErr := r.Get(ctx, ownerID, revisionID); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: revision is not pending", errs.ErrInvalidState)
}
