package worker

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("worker profile not found")
	ErrAlreadyExists = errors.New("worker already has a profile")
)

const uniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const profileColumns = `id, user_id, title, category, skills, experience_years, hourly_rate_min, hourly_rate_max, location, bio, verified, top_rated, rating, jobs_completed, jobs_in_progress, created_at, updated_at`

func scanProfile(scan func(dest ...interface{}) error) (Profile, error) {
	var p Profile
	var bio sql.NullString
	var rateMin, rateMax sql.NullInt64
	err := scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Category,
		&p.Skills,
		&p.ExperienceYears,
		&rateMin,
		&rateMax,
		&p.Location,
		&bio,
		&p.Verified,
		&p.TopRated,
		&p.Rating,
		&p.JobsCompleted,
		&p.JobsInProgress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	if bio.Valid {
		p.Bio = bio.String
	}
	if rateMin.Valid {
		v := int(rateMin.Int64)
		p.HourlyRateMin = &v
	}
	if rateMax.Valid {
		v := int(rateMax.Int64)
		p.HourlyRateMax = &v
	}
	return p, nil
}

func (r *Repository) ProfileByUserID(userID string) (Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM worker_profile WHERE user_id = $1`, userID)
	p, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	return p, nil
}

// profileFilterClause builds the WHERE clause and its arguments for a
// profile search. Shared by the page query and the out-of-range count
// fallback so both always see the same predicates.
func profileFilterClause(f Filters) (string, []interface{}) {
	clause := ` WHERE 1=1`
	var args []interface{}
	argIndex := 1

	if f.OwnerID != "" {
		clause += fmt.Sprintf(` AND user_id = $%d`, argIndex)
		args = append(args, f.OwnerID)
		argIndex++
	}
	if f.Category != "" {
		clause += fmt.Sprintf(` AND category = $%d`, argIndex)
		args = append(args, f.Category)
		argIndex++
	}
	if f.Location != "" {
		clause += fmt.Sprintf(` AND location ILIKE '%%' || $%d || '%%'`, argIndex)
		args = append(args, f.Location)
		argIndex++
	}
	if f.Skills != "" {
		clause += fmt.Sprintf(` AND skills ILIKE '%%' || $%d || '%%'`, argIndex)
		args = append(args, f.Skills)
		argIndex++
	}
	if f.RateMin > 0 {
		clause += fmt.Sprintf(` AND hourly_rate_max >= $%d`, argIndex)
		args = append(args, f.RateMin)
		argIndex++
	}
	if f.RateMax > 0 {
		clause += fmt.Sprintf(` AND hourly_rate_min <= $%d`, argIndex)
		args = append(args, f.RateMax)
		argIndex++
	}
	if f.MinExperience > 0 {
		clause += fmt.Sprintf(` AND experience_years >= $%d`, argIndex)
		args = append(args, f.MinExperience)
	}
	if f.VerifiedOnly {
		clause += ` AND verified = TRUE`
	}
	if f.TopRatedOnly {
		clause += ` AND top_rated = TRUE`
	}
	return clause, args
}

// ProfilesByFilters returns the page of profiles matching every supplied
// filter, along with the total match count. A profile matches a rate
// window when its own rate band overlaps it. The total is the count of
// all matches even when the requested page lies past the last one.
func (r *Repository) ProfilesByFilters(f Filters, sortBy string, pageID, pageSize int) ([]Profile, int, error) {
	offset := pageID*pageSize - pageSize
	profiles := []Profile{}

	clause, filterArgs := profileFilterClause(f)
	query := `SELECT count(*) OVER() AS full_count, ` + profileColumns + ` FROM worker_profile` + clause

	// id breaks ties so pages stay disjoint under concurrent inserts
	switch sortBy {
	case SortByExperience:
		query += ` ORDER BY experience_years DESC, id ASC`
	case SortByRateAsc:
		query += ` ORDER BY hourly_rate_min ASC NULLS LAST, id ASC`
	case SortByRateDesc:
		query += ` ORDER BY hourly_rate_max DESC NULLS LAST, id ASC`
	default:
		query += ` ORDER BY rating DESC, id ASC`
	}
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(filterArgs)+1, len(filterArgs)+2)
	args := append(append([]interface{}{}, filterArgs...), pageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err == sql.ErrNoRows {
		return profiles, 0, nil
	}
	if err != nil {
		return profiles, 0, err
	}

	var fullRowsCount int
	defer rows.Close()
	for rows.Next() {
		var p Profile
		p, err = scanProfile(func(dest ...interface{}) error {
			return rows.Scan(append([]interface{}{&fullRowsCount}, dest...)...)
		})
		if err != nil {
			return profiles, fullRowsCount, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return profiles, fullRowsCount, err
	}

	// the window count comes back with the rows, so an offset past the
	// last match would otherwise report zero for a non-empty result set
	if fullRowsCount == 0 && pageID > 1 {
		row := r.db.QueryRow(`SELECT COUNT(*) FROM worker_profile`+clause, filterArgs...)
		if err := row.Scan(&fullRowsCount); err != nil {
			return profiles, 0, err
		}
	}

	return profiles, fullRowsCount, nil
}

func (r *Repository) SaveProfile(userID string, rq ProfileRq) (Profile, error) {
	now := time.Now().UTC()
	var profileID int
	row := r.db.QueryRow(
		`INSERT INTO worker_profile (user_id, title, category, skills, experience_years, hourly_rate_min, hourly_rate_max, location, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`,
		userID,
		rq.Title,
		rq.Category,
		rq.Skills,
		rq.ExperienceYears,
		rq.HourlyRateMin,
		rq.HourlyRateMax,
		rq.Location,
		rq.Bio,
		now,
	)
	if err := row.Scan(&profileID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return Profile{}, ErrAlreadyExists
		}
		return Profile{}, err
	}
	return r.ProfileByUserID(userID)
}

// UpdateProfile writes only the fields present in the request. Verification
// flags, rating and job counters are not reachable from here.
func (r *Repository) UpdateProfile(userID string, rq ProfileRqUpdate) error {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}
	if rq.Title != nil {
		set("title", *rq.Title)
	}
	if rq.Category != nil {
		set("category", *rq.Category)
	}
	if rq.Skills != nil {
		set("skills", *rq.Skills)
	}
	if rq.ExperienceYears != nil {
		set("experience_years", *rq.ExperienceYears)
	}
	if rq.HourlyRateMin != nil {
		set("hourly_rate_min", *rq.HourlyRateMin)
	}
	if rq.HourlyRateMax != nil {
		set("hourly_rate_max", *rq.HourlyRateMax)
	}
	if rq.Location != nil {
		set("location", *rq.Location)
	}
	if rq.Bio != nil {
		set("bio", *rq.Bio)
	}
	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE worker_profile SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), argIndex)
	args = append(args, userID)
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRatingAggregate stores the recomputed rating for a worker. Called by
// the review aggregation flow, which owns the computation.
func (r *Repository) SetRatingAggregate(userID string, rating float64, topRated bool) error {
	_, err := r.db.Exec(
		`UPDATE worker_profile SET rating = $1, top_rated = $2, updated_at = $3 WHERE user_id = $4`,
		rating, topRated, time.Now().UTC(), userID,
	)
	return err
}

func (r *Repository) Count() (int, error) {
	var c int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM worker_profile`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
