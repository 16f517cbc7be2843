package worker

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
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

func profileRows(ids ...int) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"full_count", "id", "user_id", "title", "category", "skills", "experience_years",
		"hourly_rate_min", "hourly_rate_max", "location", "bio", "verified", "top_rated",
		"rating", "jobs_completed", "jobs_in_progress", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(len(ids), id, "worker-1", "Electrician", "electrical", "wiring", 5,
			200, 500, "Mumbai", nil, true, false,
			4.5, 12, 1, now, now)
	}
	return rows
}

func TestProfilesByFiltersRateWindowOverlaps(t *testing.T) {
	repo, mock := newTestRepository(t)

	// a profile matches when its rate band overlaps the requested window
	mock.ExpectQuery(regexp.QuoteMeta(`AND hourly_rate_max >= $1 AND hourly_rate_min <= $2 ORDER BY rating DESC, id ASC LIMIT $3 OFFSET $4`)).
		WithArgs(300, 600, 20, 0).
		WillReturnRows(profileRows(1))

	profiles, total, err := repo.ProfilesByFilters(Filters{RateMin: 300, RateMax: 600}, SortByRating, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, profiles, 1)
	assert.Equal(t, "worker-1", profiles[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesByFiltersRateSorts(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY hourly_rate_min ASC NULLS LAST, id ASC`)).
		WithArgs(20, 0).
		WillReturnRows(profileRows())
	_, _, err := repo.ProfilesByFilters(Filters{}, SortByRateAsc, 1, 20)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY hourly_rate_max DESC NULLS LAST, id ASC`)).
		WithArgs(20, 0).
		WillReturnRows(profileRows())
	_, _, err = repo.ProfilesByFilters(Filters{}, SortByRateDesc, 1, 20)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesByFiltersOutOfRangePageKeepsTotal(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
		WithArgs("electrical", 20, 40).
		WillReturnRows(profileRows())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM worker_profile WHERE 1=1 AND category = $1`)).
		WithArgs("electrical").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	profiles, total, err := repo.ProfilesByFilters(Filters{Category: "electrical"}, SortByRating, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, profiles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveProfileRejectsSecondProfile(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO worker_profile`)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.SaveProfile("worker-1", ProfileRq{Title: "Electrician"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileMissingProfile(t *testing.T) {
	repo, mock := newTestRepository(t)

	title := "Plumber"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE worker_profile SET title = $1, updated_at = $2 WHERE user_id = $3`)).
		WithArgs(title, sqlmock.AnyArg(), "nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile("nobody", ProfileRqUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
