package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/revisio/internal/errs"
	"github.com/akarpov87/revisio/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestTopicRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	ts := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO topics \(id, owner_id, title, description\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING created_at, updated_at`).
		WithArgs(pgxmock.AnyArg(), ownerID, "Algebra", "matrices").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))
	mock.ExpectQuery(`INSERT INTO revisions \(id, topic_id, scheduled_date, interval_days, status\) VALUES \(\$1,\$2,\$3,\$4,\$5\) RETURNING created_at, updated_at`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), first, 1, model.StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))
	mock.ExpectCommit()

	out, err := r.Create(ctx,
		&model.Topic{OwnerID: ownerID, Title: "Algebra", Description: "matrices"},
		&model.Revision{ScheduledDate: first, Interval: 1, Status: model.StatusPending},
	)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, out.ID)
	require.Len(t, out.Revisions, 1)
	require.Equal(t, out.ID, out.Revisions[0].TopicID)
	require.Equal(t, model.StatusPending, out.Revisions[0].Status)
}

func TestTopicRepo_Create_RevisionInsertErr_RollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	ctx := context.Background()
	ts := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO topics`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))
	mock.ExpectQuery(`INSERT INTO revisions`).
		WillReturnError(errors.New("insert-fail"))
	mock.ExpectRollback()

	_, err := r.Create(ctx,
		&model.Topic{OwnerID: uuid.Must(uuid.NewV4()), Title: "X"},
		&model.Revision{ScheduledDate: time.Now(), Interval: 1},
	)
	require.Error(t, err)
}

func TestTopicRepo_Get_WithRevisions(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	topicID := uuid.Must(uuid.NewV4())
	revID := uuid.Must(uuid.NewV4())
	day := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	ts := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, owner_id, title, description, created_at, updated_at FROM topics WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(topicID, ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "title", "description", "created_at", "updated_at"}).
			AddRow(topicID, ownerID, "Algebra", "", ts, ts))
	mock.ExpectQuery(`SELECT id, topic_id, scheduled_date, interval_days, status, completion_date, postponed_to, created_at, updated_at FROM revisions WHERE topic_id=\$1 ORDER BY scheduled_date ASC`).
		WithArgs(topicID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "topic_id", "scheduled_date", "interval_days", "status", "completion_date", "postponed_to", "created_at", "updated_at"}).
			AddRow(revID, topicID, day, 1, model.StatusPending, (*time.Time)(nil), (*time.Time)(nil), ts, ts))

	out, err := r.Get(ctx, ownerID, topicID)
	require.NoError(t, err)
	require.Equal(t, "Algebra", out.Title)
	require.Len(t, out.Revisions, 1)
	require.Equal(t, day, out.Revisions[0].ScheduledDate)
}

func TestTopicRepo_Get_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	mock.ExpectQuery(`SELECT id, owner_id, title, description, created_at, updated_at FROM topics WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Get(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTopicRepo_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	ownerID := uuid.Must(uuid.NewV4())
	ts := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "owner_id", "title", "description", "created_at", "updated_at"}).
		AddRow(uuid.Must(uuid.NewV4()), ownerID, "B", "", ts, ts).
		AddRow(uuid.Must(uuid.NewV4()), ownerID, "A", "", ts.Add(-time.Hour), ts)

	mock.ExpectQuery(`SELECT id, owner_id, title, description, created_at, updated_at FROM topics WHERE owner_id=\$1 ORDER BY created_at DESC`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	out, err := r.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "B", out[0].Title)
}

func TestTopicRepo_Update_OK_And_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	topicID := uuid.Must(uuid.NewV4())
	ts := time.Now().UTC()
	title := "Renamed"

	mock.ExpectQuery(`UPDATE topics SET title=COALESCE\(\$3,title\), description=COALESCE\(\$4,description\), updated_at=now\(\) WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(topicID, ownerID, &title, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "title", "description", "created_at", "updated_at"}).
			AddRow(topicID, ownerID, title, "", ts, ts))

	out, err := r.Update(ctx, ownerID, topicID, model.TopicPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, out.Title)

	mock.ExpectQuery(`UPDATE topics SET`).
		WithArgs(topicID, ownerID, &title, (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Update(ctx, ownerID, topicID, model.TopicPatch{Title: &title})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTopicRepo_Delete_OK_And_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTopicRepo(db)

	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV4())
	topicID := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM topics WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(topicID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, ownerID, topicID))

	mock.ExpectExec(`DELETE FROM topics WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(topicID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, ownerID, topicID), errs.ErrNotFound)
}
