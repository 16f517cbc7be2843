package database

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(27) NOT NULL UNIQUE,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		user_type VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE TABLE IF NOT EXISTS worker_profile (
		id SERIAL PRIMARY KEY,
		user_id CHAR(27) NOT NULL UNIQUE REFERENCES users (id),
		title VARCHAR(200) NOT NULL,
		category VARCHAR(50) NOT NULL,
		skills TEXT NOT NULL,
		experience_years INTEGER NOT NULL DEFAULT 0,
		hourly_rate_min INTEGER,
		hourly_rate_max INTEGER,
		location VARCHAR(100) NOT NULL,
		bio TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		top_rated BOOLEAN NOT NULL DEFAULT FALSE,
		rating FLOAT NOT NULL DEFAULT 0,
		jobs_completed INTEGER NOT NULL DEFAULT 0,
		jobs_in_progress INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS job (
		id SERIAL PRIMARY KEY,
		employer_id CHAR(27) NOT NULL REFERENCES users (id),
		title VARCHAR(200) NOT NULL,
		company VARCHAR(200) NOT NULL,
		category VARCHAR(50) NOT NULL,
		sub_category VARCHAR(50),
		job_type VARCHAR(20) NOT NULL,
		location VARCHAR(100) NOT NULL,
		salary_min INTEGER,
		salary_max INTEGER,
		salary_currency VARCHAR(10) NOT NULL DEFAULT 'INR',
		description TEXT NOT NULL,
		requirements TEXT,
		skills_required TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		urgent BOOLEAN NOT NULL DEFAULT FALSE,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		remote_ok BOOLEAN NOT NULL DEFAULT FALSE,
		views_count INTEGER NOT NULL DEFAULT 0,
		applications_count INTEGER NOT NULL DEFAULT 0,
		saved_count INTEGER NOT NULL DEFAULT 0,
		slug VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP,
		filled_at TIMESTAMP,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS job_status_idx ON job (status)`,
	`CREATE INDEX IF NOT EXISTS job_category_idx ON job (category)`,
	`CREATE INDEX IF NOT EXISTS job_created_at_idx ON job (created_at)`,
	`CREATE TABLE IF NOT EXISTS application (
		id SERIAL PRIMARY KEY,
		job_id INTEGER NOT NULL REFERENCES job (id),
		user_id CHAR(27) NOT NULL REFERENCES users (id),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		cover_letter TEXT,
		expected_salary INTEGER,
		available_from DATE,
		viewed_by_employer BOOLEAN NOT NULL DEFAULT FALSE,
		viewed_at TIMESTAMP,
		applied_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	// one live application per applicant per posting, withdrawn ones excluded
	`CREATE UNIQUE INDEX IF NOT EXISTS application_job_applicant_live_idx
		ON application (job_id, user_id) WHERE status != 'withdrawn'`,
	`CREATE INDEX IF NOT EXISTS application_job_id_idx ON application (job_id)`,
	`CREATE INDEX IF NOT EXISTS application_user_id_idx ON application (user_id)`,
	`CREATE TABLE IF NOT EXISTS application_status_event (
		id CHAR(27) NOT NULL UNIQUE,
		application_id INTEGER NOT NULL REFERENCES application (id),
		from_status VARCHAR(20) NOT NULL,
		to_status VARCHAR(20) NOT NULL,
		actor_id CHAR(27) NOT NULL REFERENCES users (id),
		note TEXT,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE INDEX IF NOT EXISTS application_status_event_application_id_idx ON application_status_event (application_id)`,
	`CREATE TABLE IF NOT EXISTS notification (
		id CHAR(27) NOT NULL UNIQUE,
		recipient_id CHAR(27) NOT NULL REFERENCES users (id),
		notification_type VARCHAR(50) NOT NULL,
		title VARCHAR(200) NOT NULL,
		body TEXT,
		link VARCHAR(255),
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE INDEX IF NOT EXISTS notification_recipient_id_idx ON notification (recipient_id, is_read)`,
	`CREATE TABLE IF NOT EXISTS saved_job (
		user_id CHAR(27) NOT NULL REFERENCES users (id),
		job_id INTEGER NOT NULL REFERENCES job (id),
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY(user_id, job_id)
	)`,
}

// CreateSchema applies the table structure. Every statement is idempotent
// so it is safe to run against an existing database.
func CreateSchema(conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			return errors.Wrapf(err, "unable to run schema statement %q", stmt[:40])
		}
	}
	return nil
}

// SeedSampleData loads a handful of sample users, profiles and postings.
// It refuses to touch a store that already holds users.
func SeedSampleData(conn *sql.DB) error {
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return errors.Wrap(err, "unable to count users")
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	employers := []struct {
		name, email string
	}{
		{"BuildRight Constructions", "hiring@buildright.example"},
		{"Sharma Electricals", "jobs@sharmaelectricals.example"},
	}
	employerIDs := make([]string, 0, len(employers))
	for _, e := range employers {
		id, err := ksuid.NewRandom()
		if err != nil {
			return err
		}
		if _, err := conn.Exec(
			`INSERT INTO users (id, name, email, user_type, created_at) VALUES ($1, $2, $3, 'employer', $4)`,
			id.String(), e.name, e.email, now,
		); err != nil {
			return errors.Wrap(err, "unable to seed employer")
		}
		employerIDs = append(employerIDs, id.String())
	}

	workers := []struct {
		name, email, title, category, skills, location string
		years, rateMin, rateMax                        int
	}{
		{"Ramesh Kumar", "ramesh@workers.example", "Licensed Electrician", "electrical", "wiring,switchgear,earthing", "Mumbai", 8, 400, 650},
		{"Anita Desai", "anita@workers.example", "Plumbing Contractor", "plumbing", "pipe fitting,leak repair,bathroom fitting", "Pune", 5, 350, 500},
	}
	for _, w := range workers {
		id, err := ksuid.NewRandom()
		if err != nil {
			return err
		}
		if _, err := conn.Exec(
			`INSERT INTO users (id, name, email, user_type, created_at) VALUES ($1, $2, $3, 'worker', $4)`,
			id.String(), w.name, w.email, now,
		); err != nil {
			return errors.Wrap(err, "unable to seed worker")
		}
		if _, err := conn.Exec(
			`INSERT INTO worker_profile (user_id, title, category, skills, experience_years, hourly_rate_min, hourly_rate_max, location, bio, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', $9, $9)`,
			id.String(), w.title, w.category, w.skills, w.years, w.rateMin, w.rateMax, w.location, now,
		); err != nil {
			return errors.Wrap(err, "unable to seed worker profile")
		}
	}

	postings := []struct {
		title, category, jobType, location, skills, description string
		salaryMin, salaryMax                                    int
	}{
		{"Site Electrician for Residential Tower", "electrical", "full-time", "Mumbai", "wiring,conduiting,testing", "Wiring and fixture installation across 22 floors.", 25000, 40000},
		{"Commercial Plumbing Crew", "plumbing", "contract", "Pune", "pipe fitting,drainage", "Fit-out plumbing for a commercial complex.", 30000, 45000},
	}
	for i, p := range postings {
		if _, err := conn.Exec(
			`INSERT INTO job (employer_id, title, company, category, job_type, location, salary_min, salary_max, description, skills_required, slug, created_at, expires_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $12)`,
			employerIDs[i%len(employerIDs)], p.title, employers[i%len(employers)].name, p.category, p.jobType, p.location,
			p.salaryMin, p.salaryMax, p.description, p.skills,
			slugify(p.title, now), now, now.Add(30*24*time.Hour),
		); err != nil {
			return errors.Wrap(err, "unable to seed job posting")
		}
	}

	return nil
}
