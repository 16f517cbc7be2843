package user

import (
	"database/sql"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) GetUser(id string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, name, email, user_type, created_at FROM users WHERE id = $1`, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Type, &u.CreatedAt); err != nil {
		return u, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}

func (r *Repository) GetUserByEmail(email string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, name, email, user_type, created_at FROM users WHERE lower(email) = lower($1)`, email)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Type, &u.CreatedAt); err != nil {
		return u, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}

// SaveUser registers the identity record minted by the external auth
// capability so postings and applications can reference it.
func (r *Repository) SaveUser(name, email, userType string) (User, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:        id.String(),
		Name:      name,
		Email:     email,
		Type:      userType,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.db.Exec(
		`INSERT INTO users (id, name, email, user_type, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.Type, u.CreatedAt,
	); err != nil {
		return User{}, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt)
	return u, nil
}

func (r *Repository) CountByType(userType string) (int, error) {
	var c int
	row := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE user_type = $1`, userType)
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
