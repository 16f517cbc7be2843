package job

import (
	"regexp"
	"testing"
	"time"

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

func jobRows(ids ...int) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"full_count", "id", "employer_id", "title", "company", "category", "sub_category",
		"job_type", "location", "salary_min", "salary_max", "salary_currency", "description",
		"requirements", "skills_required", "status", "urgent", "featured", "remote_ok",
		"views_count", "applications_count", "saved_count", "slug", "created_at",
		"expires_at", "filled_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(len(ids), id, "employer-1", "Electrician", "VoltWorks", "electrical", nil,
			"full_time", "Mumbai", 20000, 40000, "INR", "wiring work",
			nil, "wiring", StatusActive, false, false, true,
			0, 0, 0, "electrician-voltworks-1", now, nil, nil, now)
	}
	return rows
}

func TestJobsByFiltersComposesPredicates(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`AND category = $1 AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%' OR skills_required ILIKE '%' || $2 || '%') AND remote_ok = TRUE AND salary_max >= $3 ORDER BY created_at DESC, id ASC LIMIT $4 OFFSET $5`)).
		WithArgs("electrical", "wiring", 20000, 20, 0).
		WillReturnRows(jobRows(1, 2))

	jobs, total, err := repo.JobsByFilters(Filters{
		Category:   "electrical",
		Keyword:    "wiring",
		RemoteOnly: true,
		SalaryMin:  20000,
	}, SortByCreatedAt, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, jobs, 2)
	assert.Equal(t, 1, jobs[0].ID)
	assert.NotEmpty(t, jobs[0].TimeAgo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobsByFiltersSalarySort(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY salary_max DESC NULLS LAST, id ASC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 10).
		WillReturnRows(jobRows(11))

	jobs, total, err := repo.JobsByFilters(Filters{}, SortBySalary, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobsByFiltersOutOfRangePageKeepsTotal(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
		WithArgs("electrical", 20, 80).
		WillReturnRows(jobRows())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM job WHERE status = 'active' AND category = $1`)).
		WithArgs("electrical").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	jobs, total, err := repo.JobsByFilters(Filters{Category: "electrical"}, SortByCreatedAt, 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, jobs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobsByFiltersEmptyFirstPageSkipsCountFallback(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(20, 0).
		WillReturnRows(jobRows())

	jobs, total, err := repo.JobsByFilters(Filters{}, SortByCreatedAt, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, jobs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobWritesOnlySuppliedFields(t *testing.T) {
	repo, mock := newTestRepository(t)

	title := "Master Electrician"
	salaryMax := 60000
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job SET title = $1, salary_max = $2, updated_at = $3 WHERE id = $4`)).
		WithArgs(title, salaryMax, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateJob(7, JobRqUpdate{Title: &title, SalaryMax: &salaryMax})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobNoFieldsIsNoop(t *testing.T) {
	repo, mock := newTestRepository(t)

	require.NoError(t, repo.UpdateJob(7, JobRqUpdate{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackJobView(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job SET views_count = views_count + 1 WHERE id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TrackJobView(7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkExpiredJobs(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job SET status = $1, updated_at = $2 WHERE status = $3 AND expires_at IS NOT NULL AND expires_at < $2`)).
		WithArgs(StatusExpired, sqlmock.AnyArg(), StatusActive).
		WillReturnResult(sqlmock.NewResult(0, 3))

	expired, err := repo.MarkExpiredJobs()
	require.NoError(t, err)
	assert.Equal(t, int64(3), expired)
	require.NoError(t, mock.ExpectationsWereMet())
}
