package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromQueryDefaults(t *testing.T) {
	p, err := ParseFromQuery(url.Values{}, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PerPage)
}

func TestParseFromQueryFallsBackOnBadDefault(t *testing.T) {
	p, err := ParseFromQuery(url.Values{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestParseFromQueryClampsLowValues(t *testing.T) {
	p, err := ParseFromQuery(url.Values{"page": {"0"}, "per_page": {"-5"}}, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestParseFromQueryCapsPerPage(t *testing.T) {
	p, err := ParseFromQuery(url.Values{"per_page": {"10000"}}, 20)
	require.NoError(t, err)
	assert.Equal(t, MaxPerPage, p.PerPage)
}

func TestParseFromQueryRejectsGarbage(t *testing.T) {
	_, err := ParseFromQuery(url.Values{"page": {"two"}}, 20)
	assert.Error(t, err)

	_, err = ParseFromQuery(url.Values{"per_page": {"lots"}}, 20)
	assert.Error(t, err)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PerPage: 20}.Offset())
	assert.Equal(t, 20, Pagination{Page: 2, PerPage: 20}.Offset())
	assert.Equal(t, 45, Pagination{Page: 4, PerPage: 15}.Offset())
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 20))
	assert.Equal(t, 1, Pages(1, 20))
	assert.Equal(t, 1, Pages(20, 20))
	assert.Equal(t, 2, Pages(21, 20))
	assert.Equal(t, 5, Pages(100, 20))
}
