package worker

import "time"

const (
	SortByRating     = "rating"
	SortByExperience = "experience"
	SortByRateAsc    = "rate_asc"
	SortByRateDesc   = "rate_desc"
)

type Profile struct {
	ID              int       `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Skills          string    `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	HourlyRateMin   *int      `json:"hourly_rate_min"`
	HourlyRateMax   *int      `json:"hourly_rate_max"`
	Location        string    `json:"location"`
	Bio             string    `json:"bio,omitempty"`
	Verified        bool      `json:"verified"`
	TopRated        bool      `json:"top_rated"`
	Rating          float64   `json:"rating"`
	JobsCompleted   int       `json:"jobs_completed"`
	JobsInProgress  int       `json:"jobs_in_progress"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileRq is the payload for creating a profile. One profile per
// worker identity.
type ProfileRq struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	Skills          string `json:"skills"`
	ExperienceYears int    `json:"experience_years"`
	HourlyRateMin   *int   `json:"hourly_rate_min"`
	HourlyRateMax   *int   `json:"hourly_rate_max"`
	Location        string `json:"location"`
	Bio             string `json:"bio"`
}

// ProfileRqUpdate carries the mutable profile fields. Verification, rating
// and the job counters only move through their owning flows.
type ProfileRqUpdate struct {
	Title           *string `json:"title"`
	Category        *string `json:"category"`
	Skills          *string `json:"skills"`
	ExperienceYears *int    `json:"experience_years"`
	HourlyRateMin   *int    `json:"hourly_rate_min"`
	HourlyRateMax   *int    `json:"hourly_rate_max"`
	Location        *string `json:"location"`
	Bio             *string `json:"bio"`
}
