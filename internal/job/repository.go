package job

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
)

var ErrNotFound = errors.New("job posting not found")

const postingTTL = 30 * 24 * time.Hour

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const jobColumns = `id, employer_id, title, company, category, sub_category, job_type, location, salary_min, salary_max, salary_currency, description, requirements, skills_required, status, urgent, featured, remote_ok, views_count, applications_count, saved_count, slug, created_at, expires_at, filled_at, updated_at`

func scanJob(scan func(dest ...interface{}) error) (JobPost, error) {
	var j JobPost
	var subCategory, requirements sql.NullString
	var salaryMin, salaryMax sql.NullInt64
	var expiresAt, filledAt sql.NullTime
	err := scan(
		&j.ID,
		&j.EmployerID,
		&j.Title,
		&j.Company,
		&j.Category,
		&subCategory,
		&j.JobType,
		&j.Location,
		&salaryMin,
		&salaryMax,
		&j.SalaryCurrency,
		&j.Description,
		&requirements,
		&j.SkillsRequired,
		&j.Status,
		&j.Urgent,
		&j.Featured,
		&j.RemoteOK,
		&j.ViewsCount,
		&j.ApplicationsCount,
		&j.SavedCount,
		&j.Slug,
		&j.CreatedAt,
		&expiresAt,
		&filledAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return j, err
	}
	if subCategory.Valid {
		j.SubCategory = subCategory.String
	}
	if requirements.Valid {
		j.Requirements = requirements.String
	}
	if salaryMin.Valid {
		v := int(salaryMin.Int64)
		j.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := int(salaryMax.Int64)
		j.SalaryMax = &v
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		j.ExpiresAt = &t
	}
	if filledAt.Valid {
		t := filledAt.Time
		j.FilledAt = &t
	}
	j.TimeAgo = humanize.Time(j.CreatedAt.UTC())
	return j, nil
}

func (r *Repository) JobPostByID(jobID int) (JobPost, error) {
	row := r.db.QueryRow(`SELECT `+jobColumns+` FROM job WHERE id = $1`, jobID)
	j, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return j, ErrNotFound
	}
	if err != nil {
		return j, err
	}
	return j, nil
}

// TrackJobView bumps the posting view counter. The increment happens in
// SQL so concurrent viewers never lose updates.
func (r *Repository) TrackJobView(jobID int) error {
	_, err := r.db.Exec(`UPDATE job SET views_count = views_count + 1 WHERE id = $1`, jobID)
	return err
}

// jobFilterClause builds the WHERE clause and its arguments for a
// posting search. Shared by the page query and the out-of-range count
// fallback so both always see the same predicates.
func jobFilterClause(f Filters) (string, []interface{}) {
	clause := ` WHERE status = 'active'`
	var args []interface{}
	argIndex := 1

	if f.Category != "" {
		clause += fmt.Sprintf(` AND category = $%d`, argIndex)
		args = append(args, f.Category)
		argIndex++
	}
	if f.JobType != "" {
		clause += fmt.Sprintf(` AND job_type = $%d`, argIndex)
		args = append(args, f.JobType)
		argIndex++
	}
	if f.Keyword != "" {
		clause += fmt.Sprintf(` AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%' OR skills_required ILIKE '%%' || $%d || '%%')`, argIndex, argIndex, argIndex)
		args = append(args, f.Keyword)
		argIndex++
	}
	if f.Location != "" {
		clause += fmt.Sprintf(` AND location ILIKE '%%' || $%d || '%%'`, argIndex)
		args = append(args, f.Location)
		argIndex++
	}
	if f.RemoteOnly {
		clause += ` AND remote_ok = TRUE`
	}
	if f.SalaryMin > 0 {
		clause += fmt.Sprintf(` AND salary_max >= $%d`, argIndex)
		args = append(args, f.SalaryMin)
		argIndex++
	}
	if f.SalaryMax > 0 {
		clause += fmt.Sprintf(` AND salary_min <= $%d`, argIndex)
		args = append(args, f.SalaryMax)
	}
	return clause, args
}

// JobsByFilters returns the page of active postings matching every
// supplied filter, along with the total match count. The total is the
// count of all matches even when the requested page lies past the last
// one.
func (r *Repository) JobsByFilters(f Filters, sortBy string, pageID, pageSize int) ([]JobPost, int, error) {
	offset := pageID*pageSize - pageSize
	jobs := []JobPost{}

	clause, filterArgs := jobFilterClause(f)
	query := `SELECT count(*) OVER() AS full_count, ` + jobColumns + ` FROM job` + clause

	// id breaks ties so pages stay disjoint under concurrent inserts
	switch sortBy {
	case SortBySalary:
		query += ` ORDER BY salary_max DESC NULLS LAST, id ASC`
	case SortByApplications:
		query += ` ORDER BY applications_count DESC, id ASC`
	default:
		query += ` ORDER BY created_at DESC, id ASC`
	}
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(filterArgs)+1, len(filterArgs)+2)
	args := append(append([]interface{}{}, filterArgs...), pageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err == sql.ErrNoRows {
		return jobs, 0, nil
	}
	if err != nil {
		return jobs, 0, err
	}

	var fullRowsCount int
	defer rows.Close()
	for rows.Next() {
		var j JobPost
		j, err = scanJob(func(dest ...interface{}) error {
			return rows.Scan(append([]interface{}{&fullRowsCount}, dest...)...)
		})
		if err != nil {
			return jobs, fullRowsCount, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return jobs, fullRowsCount, err
	}

	// the window count comes back with the rows, so an offset past the
	// last match would otherwise report zero for a non-empty result set
	if fullRowsCount == 0 && pageID > 1 {
		row := r.db.QueryRow(`SELECT COUNT(*) FROM job`+clause, filterArgs...)
		if err := row.Scan(&fullRowsCount); err != nil {
			return jobs, 0, err
		}
	}

	return jobs, fullRowsCount, nil
}

func (r *Repository) SaveJob(employerID string, rq JobRq) (JobPost, error) {
	createdAt := time.Now().UTC()
	slugTitle := slug.Make(fmt.Sprintf("%s %s %d", rq.Title, rq.Company, createdAt.Unix()))
	expiresAt := createdAt.Add(postingTTL)
	currency := rq.SalaryCurrency
	if currency == "" {
		currency = "INR"
	}
	var jobID int
	row := r.db.QueryRow(
		`INSERT INTO job (employer_id, title, company, category, sub_category, job_type, location, salary_min, salary_max, salary_currency, description, requirements, skills_required, urgent, featured, remote_ok, slug, created_at, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $18) RETURNING id`,
		employerID,
		rq.Title,
		rq.Company,
		rq.Category,
		rq.SubCategory,
		rq.JobType,
		rq.Location,
		rq.SalaryMin,
		rq.SalaryMax,
		currency,
		rq.Description,
		rq.Requirements,
		rq.SkillsRequired,
		rq.Urgent,
		rq.Featured,
		rq.RemoteOK,
		slugTitle,
		createdAt,
		expiresAt,
	)
	if err := row.Scan(&jobID); err != nil {
		return JobPost{}, err
	}
	return r.JobPostByID(jobID)
}

// UpdateJob writes only the fields present in the request. Status and
// counters are not reachable from here.
func (r *Repository) UpdateJob(jobID int, rq JobRqUpdate) error {
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
	if rq.Company != nil {
		set("company", *rq.Company)
	}
	if rq.Category != nil {
		set("category", *rq.Category)
	}
	if rq.SubCategory != nil {
		set("sub_category", *rq.SubCategory)
	}
	if rq.JobType != nil {
		set("job_type", *rq.JobType)
	}
	if rq.Location != nil {
		set("location", *rq.Location)
	}
	if rq.SalaryMin != nil {
		set("salary_min", *rq.SalaryMin)
	}
	if rq.SalaryMax != nil {
		set("salary_max", *rq.SalaryMax)
	}
	if rq.SalaryCurrency != nil {
		set("salary_currency", *rq.SalaryCurrency)
	}
	if rq.Description != nil {
		set("description", *rq.Description)
	}
	if rq.Requirements != nil {
		set("requirements", *rq.Requirements)
	}
	if rq.SkillsRequired != nil {
		set("skills_required", *rq.SkillsRequired)
	}
	if rq.Urgent != nil {
		set("urgent", *rq.Urgent)
	}
	if rq.Featured != nil {
		set("featured", *rq.Featured)
	}
	if rq.RemoteOK != nil {
		set("remote_ok", *rq.RemoteOK)
	}
	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE job SET %s WHERE id = $%d`, strings.Join(sets, ", "), argIndex)
	args = append(args, jobID)
	_, err := r.db.Exec(query, args...)
	return err
}

// CloseJob soft-closes a posting. The record is retained because
// applications keep referencing it.
func (r *Repository) CloseJob(jobID int) error {
	_, err := r.db.Exec(`UPDATE job SET status = $1, updated_at = $2 WHERE id = $3`, StatusClosed, time.Now().UTC(), jobID)
	return err
}

// MarkExpiredJobs flips active postings past their expiry to expired and
// reports how many were touched.
func (r *Repository) MarkExpiredJobs() (int64, error) {
	res, err := r.db.Exec(
		`UPDATE job SET status = $1, updated_at = $2 WHERE status = $3 AND expires_at IS NOT NULL AND expires_at < $2`,
		StatusExpired, time.Now().UTC(), StatusActive,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) CountByStatus(status string) (int, error) {
	var c int
	row := r.db.QueryRow(`SELECT COUNT(*) FROM job WHERE status = $1`, status)
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *Repository) CountActiveFlagged(column string) (int, error) {
	var c int
	var query string
	switch column {
	case "featured":
		query = `SELECT COUNT(*) FROM job WHERE status = 'active' AND featured = TRUE`
	case "urgent":
		query = `SELECT COUNT(*) FROM job WHERE status = 'active' AND urgent = TRUE`
	default:
		return 0, fmt.Errorf("unknown flag column %q", column)
	}
	if err := r.db.QueryRow(query).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

// SalaryMidpointsForCategory returns the midpoint of each active posting
// salary band in a category, for the salary stats read path.
func (r *Repository) SalaryMidpointsForCategory(category string) ([]float64, error) {
	midpoints := []float64{}
	rows, err := r.db.Query(
		`SELECT (salary_min + salary_max) / 2.0 FROM job WHERE status = 'active' AND category = $1 AND salary_min IS NOT NULL AND salary_max IS NOT NULL`,
		category,
	)
	if err != nil {
		return midpoints, err
	}
	defer rows.Close()
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return midpoints, err
		}
		midpoints = append(midpoints, m)
	}
	return midpoints, rows.Err()
}
