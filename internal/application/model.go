package application

import (
	"time"

	"github.com/pkg/errors"
)

const (
	StatusPending            = "pending"
	StatusReviewed           = "reviewed"
	StatusInterviewScheduled = "interview_scheduled"
	StatusHired              = "hired"
	StatusRejected           = "rejected"
	StatusWithdrawn          = "withdrawn"
)

var (
	ErrNotFound             = errors.New("application not found")
	ErrDuplicateApplication = errors.New("an active application for this job already exists")
	ErrPostingClosed        = errors.New("job posting is not accepting applications")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrUnauthorized         = errors.New("caller may not act on this application")
)

// employerTransitions holds the forward path of the hiring pipeline.
// Withdrawal is handled separately, it is applicant-driven and valid
// from any non-terminal status.
var employerTransitions = map[string][]string{
	StatusPending:            {StatusReviewed, StatusRejected},
	StatusReviewed:           {StatusInterviewScheduled, StatusRejected},
	StatusInterviewScheduled: {StatusHired, StatusRejected},
}

func IsTerminal(status string) bool {
	switch status {
	case StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusReviewed, StatusInterviewScheduled, StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal move in the
// application state machine, regardless of who the actor is.
func CanTransition(from, to string) bool {
	if to == StatusWithdrawn {
		return !IsTerminal(from)
	}
	for _, next := range employerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Application struct {
	ID               int        `json:"id"`
	JobID            int        `json:"job_id"`
	JobTitle         string     `json:"job_title,omitempty"`
	Company          string     `json:"company,omitempty"`
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"`
	CoverLetter      string     `json:"cover_letter,omitempty"`
	ExpectedSalary   *int       `json:"expected_salary,omitempty"`
	AvailableFrom    *time.Time `json:"available_from,omitempty"`
	ViewedByEmployer bool       `json:"viewed_by_employer"`
	ViewedAt         *time.Time `json:"viewed_at,omitempty"`
	AppliedAt        time.Time  `json:"applied_at"`
	AppliedAtAgo     string     `json:"applied_at_humanised,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type StatusEvent struct {
	ID            string    `json:"id"`
	ApplicationID int       `json:"application_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActorID       string    `json:"actor_id"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ApplicationRq struct {
	CoverLetter    string `json:"cover_letter"`
	ExpectedSalary *int   `json:"expected_salary"`
	AvailableFrom  string `json:"available_from"`
}

type TransitionRq struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}
