package job

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/skillconnect/marketplace/internal/validation"
)

// Filters holds the optional search predicates for postings. A zero value
// means the predicate was not supplied and matches everything.
type Filters struct {
	Category   string
	Keyword    string
	Location   string
	JobType    string
	RemoteOnly bool
	SalaryMin  int
	SalaryMax  int
}

// ParseFiltersFromQuery reads the recognised posting filters off the query
// string. String values are trimmed, an empty string counts as absent.
// Numeric values that fail to parse are rejected rather than ignored.
func ParseFiltersFromQuery(query url.Values) (Filters, error) {
	f := Filters{
		Category: strings.TrimSpace(query.Get("category")),
		Keyword:  strings.TrimSpace(query.Get("keyword")),
		Location: strings.TrimSpace(query.Get("location")),
		JobType:  strings.TrimSpace(query.Get("job_type")),
	}
	f.RemoteOnly = strings.EqualFold(strings.TrimSpace(query.Get("remote_only")), "true")

	salaryMinStr := strings.TrimSpace(query.Get("salary_min"))
	if salaryMinStr != "" {
		salaryMin, err := strconv.Atoi(salaryMinStr)
		if err != nil {
			return f, validation.Errorf("salary_min", "%q is not a number", salaryMinStr)
		}
		f.SalaryMin = salaryMin
	}
	salaryMaxStr := strings.TrimSpace(query.Get("salary_max"))
	if salaryMaxStr != "" {
		salaryMax, err := strconv.Atoi(salaryMaxStr)
		if err != nil {
			return f, validation.Errorf("salary_max", "%q is not a number", salaryMaxStr)
		}
		f.SalaryMax = salaryMax
	}

	return f, nil
}

// ParseSortFromQuery maps the sort parameter to a recognised posting sort
// key, defaulting to most recent first.
func ParseSortFromQuery(query url.Values) string {
	switch strings.TrimSpace(query.Get("sort")) {
	case SortBySalary:
		return SortBySalary
	case SortByApplications:
		return SortByApplications
	default:
		return SortByCreatedAt
	}
}
