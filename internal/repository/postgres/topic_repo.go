package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/akarpov87/revisio/internal/errs"
	"github.com/akarpov87/revisio/internal/model"
)

// TopicRepo implements TopicRepository using PostgreSQL.
type TopicRepo struct{ db *DB }

// NewTopicRepo constructs a topic repository.
func NewTopicRepo(db *DB) *TopicRepo { return &TopicRepo{db: db} }

// Create inserts the topic and its first pending revision in one transaction.
func (r *TopicRepo) Create(
	ctx context.Context, topic *model.Topic, first *model.Revision,
) (out *model.Topic, err error) {
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

	topicID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	revID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	t := *topic
	t.ID = topicID
	const insTopic = `
INSERT INTO topics (id, owner_id, title, description)
VALUES ($1,$2,$3,$4)
RETURNING created_at, updated_at`
	if err = tx.QueryRow(ctx, insTopic, t.ID, t.OwnerID, t.Title, t.Description).
		Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	rev := *first
	rev.ID = revID
	rev.TopicID = t.ID
	rev.Status = model.StatusPending
	const insRev = `
INSERT INTO revisions (id, topic_id, scheduled_date, interval_days, status)
VALUES ($1,$2,$3,$4,$5)
RETURNING created_at, updated_at`
	if err = tx.QueryRow(ctx, insRev, rev.ID, rev.TopicID, rev.ScheduledDate, rev.Interval, rev.Status).
		Scan(&rev.CreatedAt, &rev.UpdatedAt); err != nil {
		return nil, err
	}

	t.Revisions = []model.Revision{rev}
	return &t, nil
}

// Get returns a topic with its revision chain ordered by scheduled date.
func (r *TopicRepo) Get(ctx context.Context, ownerID, topicID uuid.UUID) (*model.Topic, error) {
	const q = `
SELECT id, owner_id, title, description, created_at, updated_at
FROM topics WHERE id=$1 AND owner_id=$2`
	var t model.Topic
	err := r.db.Pool.QueryRow(ctx, q, topicID, ownerID).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	const qRevs = `
SELECT id, topic_id, scheduled_date, interval_days, status, completion_date, postponed_to, created_at, updated_at
FROM revisions WHERE topic_id=$1 ORDER BY scheduled_date ASC`
	rows, err := r.db.Pool.Query(ctx, qRevs, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rev model.Revision
		if err = rows.Scan(&rev.ID, &rev.TopicID, &rev.ScheduledDate, &rev.Interval,
			&rev.Status, &rev.CompletionDate, &rev.PostponedTo, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		t.Revisions = append(t.Revisions, rev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the owner's topics without revision chains, newest first.
func (r *TopicRepo) List(ctx context.Context, ownerID uuid.UUID) ([]model.Topic, error) {
	const q = `
SELECT id, owner_id, title, description, created_at, updated_at
FROM topics WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Topic
	for rows.Next() {
		var t model.Topic
		if err = rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update patches title/description, leaving nil fields unchanged.
func (r *TopicRepo) Update(
	ctx context.Context, ownerID, topicID uuid.UUID, patch model.TopicPatch,
) (*model.Topic, error) {
	const q = `
UPDATE topics
SET title=COALESCE($3,title), description=COALESCE($4,description), updated_at=now()
WHERE id=$1 AND owner_id=$2
RETURNING id, owner_id, title, description, created_at, updated_at`
	var t model.Topic
	err := r.db.Pool.QueryRow(ctx, q, topicID, ownerID, patch.Title, patch.Description).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes a topic; revisions cascade via FK.
func (r *TopicRepo) Delete(ctx context.Context, ownerID, topicID uuid.UUID) error {
	const q = `DELETE FROM topics WHERE id=$1 AND owner_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, topicID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
