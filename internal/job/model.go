package job

import "time"

const (
	StatusActive  = "active"
	StatusClosed  = "closed"
	StatusFilled  = "filled"
	StatusExpired = "expired"

	SortByCreatedAt    = "created_at"
	SortBySalary       = "salary"
	SortByApplications = "applications"
)

type JobPost struct {
	ID                int        `json:"id"`
	EmployerID        string     `json:"employer_id"`
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	Category          string     `json:"category"`
	SubCategory       string     `json:"sub_category,omitempty"`
	JobType           string     `json:"job_type"`
	Location          string     `json:"location"`
	SalaryMin         *int       `json:"salary_min"`
	SalaryMax         *int       `json:"salary_max"`
	SalaryCurrency    string     `json:"salary_currency"`
	Description       string     `json:"description"`
	Requirements      string     `json:"requirements,omitempty"`
	SkillsRequired    string     `json:"skills"`
	Status            string     `json:"status"`
	Urgent            bool       `json:"urgent"`
	Featured          bool       `json:"featured"`
	RemoteOK          bool       `json:"remote_ok"`
	ViewsCount        int        `json:"views_count"`
	ApplicationsCount int        `json:"applications_count"`
	SavedCount        int        `json:"saved_count"`
	Slug              string     `json:"slug"`
	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         *time.Time `json:"expires_at"`
	FilledAt          *time.Time `json:"filled_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
	TimeAgo           string     `json:"time_ago,omitempty"`
}

// JobRq is the payload for creating a posting.
type JobRq struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Category       string `json:"category"`
	SubCategory    string `json:"sub_category"`
	JobType        string `json:"job_type"`
	Location       string `json:"location"`
	SalaryMin      *int   `json:"salary_min"`
	SalaryMax      *int   `json:"salary_max"`
	SalaryCurrency string `json:"salary_currency"`
	Description    string `json:"description"`
	Requirements   string `json:"requirements"`
	SkillsRequired string `json:"skills_required"`
	Urgent         bool   `json:"urgent"`
	Featured       bool   `json:"featured"`
	RemoteOK       bool   `json:"remote_ok"`
}

// JobRqUpdate carries the mutable fields of a posting. Status and the
// denormalised counters are deliberately absent: they only move through
// their owning operations.
type JobRqUpdate struct {
	Title          *string `json:"title"`
	Company        *string `json:"company"`
	Category       *string `json:"category"`
	SubCategory    *string `json:"sub_category"`
	JobType        *string `json:"job_type"`
	Location       *string `json:"location"`
	SalaryMin      *int    `json:"salary_min"`
	SalaryMax      *int    `json:"salary_max"`
	SalaryCurrency *string `json:"salary_currency"`
	Description    *string `json:"description"`
	Requirements   *string `json:"requirements"`
	SkillsRequired *string `json:"skills_required"`
	Urgent         *bool   `json:"urgent"`
	Featured       *bool   `json:"featured"`
	RemoteOK       *bool   `json:"remote_ok"`
}
