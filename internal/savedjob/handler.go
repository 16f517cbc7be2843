package savedjob

import (
	"net/http"
	"strconv"

	"github.com/skillconnect/marketplace/internal/job"
	"github.com/skillconnect/marketplace/internal/server"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

func SaveJobHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		jobID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, "job id must be a number")
			return
		}
		err = repo.Save(caller.UserID, jobID)
		if errors.Is(err, job.ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "job posting not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to save job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to save job posting")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}
}

func UnsaveJobHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		jobID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, "job id must be a number")
			return
		}
		if err := repo.Unsave(caller.UserID, jobID); err != nil {
			svr.Log(err, "unable to unsave job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to unsave job posting")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

// SavedJobsHandler lists the caller's bookmarked postings.
func SavedJobsHandler(svr server.Server, repo *Repository, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		ids, err := repo.SavedJobIDs(caller.UserID)
		if err != nil {
			svr.Log(err, "unable to list saved job postings")
			svr.JSONError(w, http.StatusInternalServerError, "unable to list saved job postings")
			return
		}
		items := []job.JobPost{}
		for _, id := range ids {
			jobPost, err := jobRepo.JobPostByID(id)
			if errors.Is(err, job.ErrNotFound) {
				continue
			}
			if err != nil {
				svr.Log(err, "unable to retrieve saved job posting")
				svr.JSONError(w, http.StatusInternalServerError, "unable to list saved job postings")
				return
			}
			items = append(items, jobPost)
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"items": items,
			"total": len(items),
		})
	}
}
