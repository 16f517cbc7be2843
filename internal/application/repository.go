package application

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"github.com/skillconnect/marketplace/internal/job"
	"github.com/skillconnect/marketplace/internal/notification"
	"github.com/skillconnect/marketplace/internal/validation"
)

const uniqueViolation = "23505"

type Repository struct {
	db         *sql.DB
	dispatcher *notification.Dispatcher
}

func NewRepository(db *sql.DB, dispatcher *notification.Dispatcher) *Repository {
	return &Repository{db: db, dispatcher: dispatcher}
}

// Submit creates a pending application for an active job posting.
// The application row, the posting's applications_count increment and
// the employer notification commit as one unit. The posting row is
// locked for the duration so concurrent submits for the same job
// serialise, and a partial unique index on (job_id, user_id) over
// non-withdrawn rows guarantees at most one live application per pair.
func (r *Repository) Submit(jobID int, applicantID string, rq ApplicationRq) (Application, error) {
	var availableFrom *time.Time
	if rq.AvailableFrom != "" {
		t, err := time.Parse("2006-01-02", rq.AvailableFrom)
		if err != nil {
			return Application{}, validation.Errorf("available_from", "must be a date in YYYY-MM-DD format")
		}
		availableFrom = &t
	}

	tx, err := r.db.Begin()
	if err != nil {
		return Application{}, err
	}
	defer tx.Rollback()

	var employerID, jobTitle, jobStatus string
	row := tx.QueryRow(`SELECT employer_id, title, status FROM job WHERE id = $1 FOR UPDATE`, jobID)
	if err := row.Scan(&employerID, &jobTitle, &jobStatus); err != nil {
		if err == sql.ErrNoRows {
			return Application{}, job.ErrNotFound
		}
		return Application{}, err
	}
	if jobStatus != job.StatusActive {
		return Application{}, ErrPostingClosed
	}

	now := time.Now().UTC()
	app := Application{
		JobID:       jobID,
		JobTitle:    jobTitle,
		UserID:      applicantID,
		Status:      StatusPending,
		CoverLetter: rq.CoverLetter,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	app.ExpectedSalary = rq.ExpectedSalary
	app.AvailableFrom = availableFrom
	err = tx.QueryRow(
		`INSERT INTO application (job_id, user_id, status, cover_letter, expected_salary, available_from, viewed_by_employer, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $7) RETURNING id`,
		jobID, applicantID, StatusPending, rq.CoverLetter, rq.ExpectedSalary, availableFrom, now,
	).Scan(&app.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return Application{}, ErrDuplicateApplication
		}
		return Application{}, err
	}

	if _, err := tx.Exec(`UPDATE job SET applications_count = applications_count + 1 WHERE id = $1`, jobID); err != nil {
		return Application{}, err
	}

	n, err := r.dispatcher.Enqueue(
		tx,
		employerID,
		notification.TypeNewApplication,
		"New Job Application",
		fmt.Sprintf("New application received for %s", jobTitle),
		fmt.Sprintf("/applications/%d", app.ID),
	)
	if err != nil {
		return Application{}, err
	}

	if err := tx.Commit(); err != nil {
		return Application{}, err
	}
	go r.dispatcher.Deliver(n)

	app.AppliedAtAgo = humanize.Time(app.AppliedAt)
	return app, nil
}

// Transition moves an application to a new status. Authorisation,
// state machine validation, counter maintenance, the audit event and
// the applicant notification all happen inside one transaction with
// the application and job rows locked.
func (r *Repository) Transition(applicationID int, actorID, newStatus, note string) (Application, StatusEvent, error) {
	if !IsValidStatus(newStatus) {
		return Application{}, StatusEvent{}, ErrInvalidTransition
	}

	tx, err := r.db.Begin()
	if err != nil {
		return Application{}, StatusEvent{}, err
	}
	defer tx.Rollback()

	app, employerID, err := lockApplication(tx, applicationID)
	if err != nil {
		return Application{}, StatusEvent{}, err
	}

	if newStatus == StatusWithdrawn {
		if actorID != app.UserID {
			return Application{}, StatusEvent{}, ErrUnauthorized
		}
	} else if actorID != employerID {
		return Application{}, StatusEvent{}, ErrUnauthorized
	}
	if !CanTransition(app.Status, newStatus) {
		return Application{}, StatusEvent{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	fromStatus := app.Status
	if _, err := tx.Exec(`UPDATE application SET status = $1, updated_at = $2 WHERE id = $3`, newStatus, now, applicationID); err != nil {
		return Application{}, StatusEvent{}, err
	}

	switch newStatus {
	case StatusWithdrawn:
		// applications_count tracks live applications only
		if _, err := tx.Exec(`UPDATE job SET applications_count = GREATEST(applications_count - 1, 0) WHERE id = $1`, app.JobID); err != nil {
			return Application{}, StatusEvent{}, err
		}
	case StatusHired:
		if _, err := tx.Exec(`UPDATE job SET status = $1, filled_at = $2 WHERE id = $3`, job.StatusFilled, now, app.JobID); err != nil {
			return Application{}, StatusEvent{}, err
		}
		if _, err := tx.Exec(`UPDATE worker_profile SET jobs_in_progress = jobs_in_progress + 1 WHERE user_id = $1`, app.UserID); err != nil {
			return Application{}, StatusEvent{}, err
		}
	}

	eventID, err := ksuid.NewRandom()
	if err != nil {
		return Application{}, StatusEvent{}, err
	}
	event := StatusEvent{
		ID:            eventID.String(),
		ApplicationID: applicationID,
		FromStatus:    fromStatus,
		ToStatus:      newStatus,
		ActorID:       actorID,
		Note:          note,
		CreatedAt:     now,
	}
	_, err = tx.Exec(
		`INSERT INTO application_status_event (id, application_id, from_status, to_status, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, applicationID, fromStatus, newStatus, actorID, note, now,
	)
	if err != nil {
		return Application{}, StatusEvent{}, err
	}

	n, err := r.dispatcher.Enqueue(
		tx,
		app.UserID,
		notification.TypeApplicationStatus,
		"Application Status Updated",
		fmt.Sprintf("Your application for %s is now %s", app.JobTitle, newStatus),
		fmt.Sprintf("/applications/%d", applicationID),
	)
	if err != nil {
		return Application{}, StatusEvent{}, err
	}

	if err := tx.Commit(); err != nil {
		return Application{}, StatusEvent{}, err
	}
	go r.dispatcher.Deliver(n)

	app.Status = newStatus
	app.UpdatedAt = now
	app.AppliedAtAgo = humanize.Time(app.AppliedAt)
	return app, event, nil
}

// MarkViewed stamps the employer's first look at an application.
// Repeated views keep the original viewed_at.
func (r *Repository) MarkViewed(applicationID int, viewerID string) error {
	_, err := r.db.Exec(
		`UPDATE application a SET viewed_by_employer = TRUE, viewed_at = COALESCE(a.viewed_at, $1)
		FROM job j
		WHERE a.id = $2 AND j.id = a.job_id AND j.employer_id = $3`,
		time.Now().UTC(), applicationID, viewerID,
	)
	return err
}

// ApplicationByID returns the application with its job context and
// the IDs a caller must match to read it.
func (r *Repository) ApplicationByID(applicationID int) (Application, string, error) {
	row := r.db.QueryRow(
		`SELECT a.id, a.job_id, j.title, j.company, a.user_id, a.status, a.cover_letter, a.expected_salary, a.available_from, a.viewed_by_employer, a.viewed_at, a.applied_at, a.updated_at, j.employer_id
		FROM application a JOIN job j ON j.id = a.job_id WHERE a.id = $1`,
		applicationID,
	)
	var employerID string
	app, err := scanApplication(row.Scan, &employerID)
	if err == sql.ErrNoRows {
		return Application{}, "", ErrNotFound
	}
	if err != nil {
		return Application{}, "", err
	}
	return app, employerID, nil
}

// StatusHistory returns the audit trail oldest first.
func (r *Repository) StatusHistory(applicationID int) ([]StatusEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, application_id, from_status, to_status, actor_id, note, created_at
		FROM application_status_event WHERE application_id = $1 ORDER BY created_at ASC, id ASC`,
		applicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []StatusEvent{}
	for rows.Next() {
		var e StatusEvent
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.FromStatus, &e.ToStatus, &e.ActorID, &note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Note = note.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// ApplicationsByApplicant lists a worker's own applications, newest first.
func (r *Repository) ApplicationsByApplicant(applicantID string) ([]Application, error) {
	return r.list(
		`SELECT a.id, a.job_id, j.title, j.company, a.user_id, a.status, a.cover_letter, a.expected_salary, a.available_from, a.viewed_by_employer, a.viewed_at, a.applied_at, a.updated_at, j.employer_id
		FROM application a JOIN job j ON j.id = a.job_id WHERE a.user_id = $1 ORDER BY a.applied_at DESC, a.id DESC`,
		applicantID,
	)
}

// ApplicationsByEmployer lists applications across all of an
// employer's postings, newest first.
func (r *Repository) ApplicationsByEmployer(employerID string) ([]Application, error) {
	return r.list(
		`SELECT a.id, a.job_id, j.title, j.company, a.user_id, a.status, a.cover_letter, a.expected_salary, a.available_from, a.viewed_by_employer, a.viewed_at, a.applied_at, a.updated_at, j.employer_id
		FROM application a JOIN job j ON j.id = a.job_id WHERE j.employer_id = $1 ORDER BY a.applied_at DESC, a.id DESC`,
		employerID,
	)
}

func (r *Repository) CountByStatus(status string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM application WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM application`).Scan(&count)
	return count, err
}

func (r *Repository) list(query string, args ...interface{}) ([]Application, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	applications := []Application{}
	for rows.Next() {
		var employerID string
		app, err := scanApplication(rows.Scan, &employerID)
		if err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

func lockApplication(tx *sql.Tx, applicationID int) (Application, string, error) {
	row := tx.QueryRow(
		`SELECT a.id, a.job_id, j.title, j.company, a.user_id, a.status, a.cover_letter, a.expected_salary, a.available_from, a.viewed_by_employer, a.viewed_at, a.applied_at, a.updated_at, j.employer_id
		FROM application a JOIN job j ON j.id = a.job_id WHERE a.id = $1 FOR UPDATE`,
		applicationID,
	)
	var employerID string
	app, err := scanApplication(row.Scan, &employerID)
	if err == sql.ErrNoRows {
		return Application{}, "", ErrNotFound
	}
	if err != nil {
		return Application{}, "", err
	}
	return app, employerID, nil
}

func scanApplication(scan func(dest ...interface{}) error, employerID *string) (Application, error) {
	var app Application
	var coverLetter sql.NullString
	var expectedSalary sql.NullInt64
	var availableFrom, viewedAt sql.NullTime
	err := scan(
		&app.ID, &app.JobID, &app.JobTitle, &app.Company, &app.UserID, &app.Status,
		&coverLetter, &expectedSalary, &availableFrom, &app.ViewedByEmployer, &viewedAt,
		&app.AppliedAt, &app.UpdatedAt, employerID,
	)
	if err != nil {
		return Application{}, err
	}
	app.CoverLetter = coverLetter.String
	if expectedSalary.Valid {
		v := int(expectedSalary.Int64)
		app.ExpectedSalary = &v
	}
	if availableFrom.Valid {
		t := availableFrom.Time
		app.AvailableFrom = &t
	}
	if viewedAt.Valid {
		t := viewedAt.Time
		app.ViewedAt = &t
	}
	app.AppliedAtAgo = humanize.Time(app.AppliedAt)
	return app, nil
}
