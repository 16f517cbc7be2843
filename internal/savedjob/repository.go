package savedjob

import (
	"database/sql"
	"time"

	"github.com/skillconnect/marketplace/internal/job"
)

// Repository tracks worker bookmarks on postings. Saving is
// idempotent: re-saving a posting neither errors nor double-counts.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(userID string, jobID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT 1 FROM job WHERE id = $1 FOR UPDATE`, jobID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return job.ErrNotFound
		}
		return err
	}
	res, err := tx.Exec(
		`INSERT INTO saved_job (user_id, job_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		userID, jobID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if inserted > 0 {
		if _, err := tx.Exec(`UPDATE job SET saved_count = saved_count + 1 WHERE id = $1`, jobID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repository) Unsave(userID string, jobID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM saved_job WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted > 0 {
		if _, err := tx.Exec(`UPDATE job SET saved_count = GREATEST(saved_count - 1, 0) WHERE id = $1`, jobID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SavedJobIDs returns the posting IDs the user has bookmarked, most
// recently saved first.
func (r *Repository) SavedJobIDs(userID string) ([]int, error) {
	rows, err := r.db.Query(`SELECT job_id FROM saved_job WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
