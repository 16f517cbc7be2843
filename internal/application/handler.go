package application

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/skillconnect/marketplace/internal/job"
	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/validation"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// ApplyToJobHandler submits a new application to a posting on behalf of
// the calling worker.
func ApplyToJobHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		if !caller.IsWorker() {
			svr.JSONError(w, http.StatusForbidden, "only workers may apply to jobs")
			return
		}
		jobID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, "job id must be a number")
			return
		}
		var rq ApplicationRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		app, err := repo.Submit(jobID, caller.UserID, rq)
		var validationErr *validation.Error
		switch {
		case errors.Is(err, job.ErrNotFound):
			svr.JSONError(w, http.StatusNotFound, "job posting not found")
			return
		case errors.Is(err, ErrPostingClosed):
			svr.JSONError(w, http.StatusBadRequest, "job posting is no longer accepting applications")
			return
		case errors.Is(err, ErrDuplicateApplication):
			svr.JSONError(w, http.StatusBadRequest, "you have already applied to this job")
			return
		case errors.As(err, &validationErr):
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			svr.Log(err, "unable to submit application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to submit application")
			return
		}
		svr.JSON(w, http.StatusCreated, app)
	}
}

// ApplicationsHandler lists the caller's applications: a worker sees
// the ones they submitted, an employer sees every application across
// their postings.
func ApplicationsHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		var applications []Application
		if caller.IsEmployer() {
			applications, err = repo.ApplicationsByEmployer(caller.UserID)
		} else {
			applications, err = repo.ApplicationsByApplicant(caller.UserID)
		}
		if err != nil {
			svr.Log(err, "unable to list applications")
			svr.JSONError(w, http.StatusInternalServerError, "unable to list applications")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"items": applications,
			"total": len(applications),
		})
	}
}

// ApplicationByIDHandler returns one application with its audit trail.
// An employer reading it stamps viewed_by_employer as a side effect.
func ApplicationByIDHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		applicationID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, "application id must be a number")
			return
		}
		app, employerID, err := repo.ApplicationByID(applicationID)
		if errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "application not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve application")
			return
		}
		if caller.UserID != app.UserID && caller.UserID != employerID {
			svr.JSONError(w, http.StatusForbidden, "you may not view this application")
			return
		}
		if caller.UserID == employerID && !app.ViewedByEmployer {
			if err := repo.MarkViewed(applicationID, caller.UserID); err != nil {
				svr.Log(err, "unable to mark application viewed")
			} else {
				app.ViewedByEmployer = true
				now := time.Now().UTC()
				app.ViewedAt = &now
			}
		}
		history, err := repo.StatusHistory(applicationID)
		if err != nil {
			svr.Log(err, "unable to retrieve application history")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve application")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"application": app,
			"history":     history,
		})
	}
}

// TransitionApplicationHandler moves an application through the hiring
// pipeline. Employers drive reviewed, interview_scheduled, hired and
// rejected; the applicant may withdraw.
func TransitionApplicationHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		applicationID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, "application id must be a number")
			return
		}
		var rq TransitionRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		if rq.Status == "" {
			svr.JSONError(w, http.StatusBadRequest, "status cannot be empty")
			return
		}
		app, event, err := repo.Transition(applicationID, caller.UserID, rq.Status, rq.Notes)
		switch {
		case errors.Is(err, ErrNotFound):
			svr.JSONError(w, http.StatusNotFound, "application not found")
			return
		case errors.Is(err, ErrUnauthorized):
			svr.JSONError(w, http.StatusForbidden, "you may not change this application")
			return
		case errors.Is(err, ErrInvalidTransition):
			svr.JSONError(w, http.StatusBadRequest, "invalid status transition")
			return
		case err != nil:
			svr.Log(err, "unable to transition application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update application")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"application": app,
			"event":       event,
		})
	}
}
