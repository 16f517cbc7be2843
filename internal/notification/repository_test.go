package notification

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notification`)).
		WithArgs(sqlmock.AnyArg(), "employer-1", TypeNewApplication, "New Job Application", "body", "/applications/42", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	db := repo.db
	n, err := repo.Create(db, "employer-1", TypeNewApplication, "New Job Application", "body", "/applications/42")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "employer-1", n.RecipientID)
	assert.False(t, n.IsRead)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notification SET is_read = TRUE, read_at = COALESCE(read_at, $1) WHERE id = $2 AND recipient_id = $3`)).
		WithArgs(sqlmock.AnyArg(), "notif-1", "worker-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRead("notif-1", "worker-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadWrongOwner(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notification`)).
		WithArgs(sqlmock.AnyArg(), "notif-1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead("notif-1", "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserUnreadOnly(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`AND is_read = FALSE`).
		WithArgs("worker-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recipient_id", "notification_type", "title", "body", "link", "is_read", "read_at", "created_at",
		}))

	notifications, err := repo.ListForUser("worker-1", true, 50)
	require.NoError(t, err)
	assert.Empty(t, notifications)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserOrdersUnreadFirst(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY is_read ASC, created_at DESC LIMIT $2`)).
		WithArgs("worker-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recipient_id", "notification_type", "title", "body", "link", "is_read", "read_at", "created_at",
		}))

	_, err := repo.ListForUser("worker-1", false, 50)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
