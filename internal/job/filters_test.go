package job

import (
	"net/url"
	"testing"

	"github.com/skillconnect/marketplace/internal/validation"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFiltersFromQuery(t *testing.T) {
	f, err := ParseFiltersFromQuery(url.Values{
		"category":    {" plumbing "},
		"keyword":     {"pipe fitting"},
		"location":    {"Mumbai"},
		"job_type":    {"full_time"},
		"remote_only": {"TRUE"},
		"salary_min":  {"20000"},
		"salary_max":  {"50000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "plumbing", f.Category)
	assert.Equal(t, "pipe fitting", f.Keyword)
	assert.Equal(t, "Mumbai", f.Location)
	assert.Equal(t, "full_time", f.JobType)
	assert.True(t, f.RemoteOnly)
	assert.Equal(t, 20000, f.SalaryMin)
	assert.Equal(t, 50000, f.SalaryMax)
}

func TestParseFiltersFromQueryEmptyIsAbsent(t *testing.T) {
	f, err := ParseFiltersFromQuery(url.Values{"category": {"  "}, "salary_min": {""}})
	require.NoError(t, err)
	assert.Equal(t, Filters{}, f)
}

func TestParseFiltersFromQueryRejectsBadNumbers(t *testing.T) {
	_, err := ParseFiltersFromQuery(url.Values{"salary_min": {"twenty"}})
	require.Error(t, err)
	var validationErr *validation.Error
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "salary_min", validationErr.Field)

	_, err = ParseFiltersFromQuery(url.Values{"salary_max": {"1e5"}})
	assert.Error(t, err)
}

func TestParseSortFromQuery(t *testing.T) {
	assert.Equal(t, SortBySalary, ParseSortFromQuery(url.Values{"sort": {"salary"}}))
	assert.Equal(t, SortByApplications, ParseSortFromQuery(url.Values{"sort": {"applications"}}))
	assert.Equal(t, SortByCreatedAt, ParseSortFromQuery(url.Values{"sort": {"created_at"}}))
	assert.Equal(t, SortByCreatedAt, ParseSortFromQuery(url.Values{"sort": {"bogus"}}))
	assert.Equal(t, SortByCreatedAt, ParseSortFromQuery(url.Values{}))
}
