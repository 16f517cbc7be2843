package notification

import "time"

const (
	TypeNewApplication    = "new_application"
	TypeApplicationStatus = "application_status"
	TypeJobSaved          = "job_saved"
)

type Notification struct {
	ID                 string     `json:"id"`
	RecipientID        string     `json:"recipient_id"`
	Type               string     `json:"type"`
	Title              string     `json:"title"`
	Body               string     `json:"body"`
	Link               string     `json:"link,omitempty"`
	IsRead             bool       `json:"is_read"`
	ReadAt             *time.Time `json:"read_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	CreatedAtHumanised string     `json:"created_at_humanised,omitempty"`
}
