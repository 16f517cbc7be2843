package worker

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFiltersFromQuery(t *testing.T) {
	f, err := ParseFiltersFromQuery(url.Values{
		"category":       {"electrical"},
		"location":       {" Pune "},
		"skills":         {"wiring"},
		"rate_min":       {"200"},
		"rate_max":       {"800"},
		"min_experience": {"3"},
		"verified_only":  {"true"},
		"top_rated_only": {"True"},
	})
	require.NoError(t, err)
	assert.Equal(t, "electrical", f.Category)
	assert.Equal(t, "Pune", f.Location)
	assert.Equal(t, "wiring", f.Skills)
	assert.Equal(t, 200, f.RateMin)
	assert.Equal(t, 800, f.RateMax)
	assert.Equal(t, 3, f.MinExperience)
	assert.True(t, f.VerifiedOnly)
	assert.True(t, f.TopRatedOnly)
}

func TestParseFiltersFromQueryRejectsBadNumbers(t *testing.T) {
	_, err := ParseFiltersFromQuery(url.Values{"rate_min": {"cheap"}})
	assert.Error(t, err)

	_, err = ParseFiltersFromQuery(url.Values{"min_experience": {"lots"}})
	assert.Error(t, err)
}

func TestParseSortFromQuery(t *testing.T) {
	assert.Equal(t, SortByExperience, ParseSortFromQuery(url.Values{"sort": {"experience"}}))
	assert.Equal(t, SortByRateAsc, ParseSortFromQuery(url.Values{"sort": {"rate_asc"}}))
	assert.Equal(t, SortByRateDesc, ParseSortFromQuery(url.Values{"sort": {"rate_desc"}}))
	assert.Equal(t, SortByRating, ParseSortFromQuery(url.Values{"sort": {"unknown"}}))
	assert.Equal(t, SortByRating, ParseSortFromQuery(url.Values{}))
}
