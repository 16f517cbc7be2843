package user

import "time"

const (
	TypeWorker   = "worker"
	TypeEmployer = "employer"
)

type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Type               string    `json:"type"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedAtHumanised string    `json:"created_at_humanised,omitempty"`
}

type UserRq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"type"`
}
