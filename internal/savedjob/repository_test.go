package savedjob

import (
	"regexp"
	"testing"

	"github.com/skillconnect/marketplace/internal/job"

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

func TestSaveIncrementsCounter(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM job WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO saved_job`)).
		WithArgs("worker-1", 7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job SET saved_count = saved_count + 1 WHERE id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save("worker-1", 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveIsIdempotent(t *testing.T) {
	repo, mock := newTestRepository(t)

	// conflict swallowed by the insert, counter untouched
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM job WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO saved_job`)).
		WithArgs("worker-1", 7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.Save("worker-1", 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMissingPosting(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM job WHERE id = $1 FOR UPDATE`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	err := repo.Save("worker-1", 99)
	assert.ErrorIs(t, err, job.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsaveDecrementsCounterOnlyWhenSaved(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM saved_job WHERE user_id = $1 AND job_id = $2`)).
		WithArgs("worker-1", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job SET saved_count = GREATEST(saved_count - 1, 0) WHERE id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Unsave("worker-1", 7))

	// nothing to delete, nothing to decrement
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM saved_job`)).
		WithArgs("worker-1", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	require.NoError(t, repo.Unsave("worker-1", 7))

	require.NoError(t, mock.ExpectationsWereMet())
}
