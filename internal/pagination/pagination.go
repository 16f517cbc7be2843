package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/skillconnect/marketplace/internal/validation"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Offset() int {
	return p.Page*p.PerPage - p.PerPage
}

// Pages returns the number of pages needed to cover total records.
func Pages(total, perPage int) int {
	if total < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// ParseFromQuery reads page and per_page from the query string. Absent or
// empty values fall back to defaults, per_page is capped at MaxPerPage and
// unparseable values are rejected. defaultPerPage comes from config so
// each listing can carry its own page size; anything below 1 falls back
// to DefaultPerPage.
func ParseFromQuery(query url.Values, defaultPerPage int) (Pagination, error) {
	if defaultPerPage < 1 {
		defaultPerPage = DefaultPerPage
	}
	p := Pagination{Page: 1, PerPage: defaultPerPage}

	pageStr := strings.TrimSpace(query.Get("page"))
	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return p, validation.Errorf("page", "%q is not a number", pageStr)
		}
		if page > 0 {
			p.Page = page
		}
	}

	perPageStr := strings.TrimSpace(query.Get("per_page"))
	if perPageStr != "" {
		perPage, err := strconv.Atoi(perPageStr)
		if err != nil {
			return p, validation.Errorf("per_page", "%q is not a number", perPageStr)
		}
		if perPage > 0 {
			p.PerPage = perPage
		}
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	return p, nil
}
