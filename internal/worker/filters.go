package worker

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/skillconnect/marketplace/internal/validation"
)

// Filters holds the optional search predicates for worker profiles.
type Filters struct {
	Category      string
	Location      string
	Skills        string
	OwnerID       string
	RateMin       int
	RateMax       int
	MinExperience int
	VerifiedOnly  bool
	TopRatedOnly  bool
}

// ParseFiltersFromQuery reads the recognised profile filters off the query
// string. String values are trimmed, an empty string counts as absent.
// Numeric values that fail to parse are rejected rather than ignored.
func ParseFiltersFromQuery(query url.Values) (Filters, error) {
	f := Filters{
		Category: strings.TrimSpace(query.Get("category")),
		Location: strings.TrimSpace(query.Get("location")),
		Skills:   strings.TrimSpace(query.Get("skills")),
		OwnerID:  strings.TrimSpace(query.Get("owner_id")),
	}
	f.VerifiedOnly = strings.EqualFold(strings.TrimSpace(query.Get("verified_only")), "true")
	f.TopRatedOnly = strings.EqualFold(strings.TrimSpace(query.Get("top_rated_only")), "true")

	rateMinStr := strings.TrimSpace(query.Get("rate_min"))
	if rateMinStr != "" {
		rateMin, err := strconv.Atoi(rateMinStr)
		if err != nil {
			return f, validation.Errorf("rate_min", "%q is not a number", rateMinStr)
		}
		f.RateMin = rateMin
	}
	rateMaxStr := strings.TrimSpace(query.Get("rate_max"))
	if rateMaxStr != "" {
		rateMax, err := strconv.Atoi(rateMaxStr)
		if err != nil {
			return f, validation.Errorf("rate_max", "%q is not a number", rateMaxStr)
		}
		f.RateMax = rateMax
	}
	minExperienceStr := strings.TrimSpace(query.Get("min_experience"))
	if minExperienceStr != "" {
		minExperience, err := strconv.Atoi(minExperienceStr)
		if err != nil {
			return f, validation.Errorf("min_experience", "%q is not a number", minExperienceStr)
		}
		f.MinExperience = minExperience
	}

	return f, nil
}

// ParseSortFromQuery maps the sort parameter to a recognised profile sort
// key, defaulting to highest rated first.
func ParseSortFromQuery(query url.Values) string {
	switch strings.TrimSpace(query.Get("sort")) {
	case SortByExperience:
		return SortByExperience
	case SortByRateAsc:
		return SortByRateAsc
	case SortByRateDesc:
		return SortByRateDesc
	default:
		return SortByRating
	}
}
