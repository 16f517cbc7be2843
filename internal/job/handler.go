package job

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/skillconnect/marketplace/internal/pagination"
	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/validation"

	"github.com/aclements/go-moremath/stats"
	"github.com/gorilla/mux"
)

// JobsHandler serves the posting search: every supplied filter must match,
// only active postings are considered.
func JobsHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := ParseFiltersFromQuery(r.URL.Query())
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := pagination.ParseFromQuery(r.URL.Query(), svr.GetConfig().JobsPerPage)
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		sortBy := ParseSortFromQuery(r.URL.Query())

		jobs, total, err := jobRepo.JobsByFilters(filters, sortBy, page.Page, page.PerPage)
		if err != nil {
			svr.Log(err, "unable to search job postings")
			svr.JSONError(w, http.StatusInternalServerError, "unable to search job postings")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"items":        jobs,
			"total":        total,
			"pages":        pagination.Pages(total, page.PerPage),
			"current_page": page.Page,
		})
	}
}

// JobByIDHandler returns a single posting and bumps its view counter.
// The bump is fire and forget: a lost increment under race is fine, a
// corrupted counter is not, so the increment itself runs atomically in SQL.
func JobByIDHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, "job id must be a number")
			return
		}
		jobPost, err := jobRepo.JobPostByID(jobID)
		if errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "job posting not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve job posting")
			return
		}
		go func() {
			if err := jobRepo.TrackJobView(jobID); err != nil {
				svr.Log(err, "unable to track job view")
			}
		}()
		svr.JSON(w, http.StatusOK, jobPost)
	}
}

func PostJobHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		if !caller.IsEmployer() {
			svr.JSONError(w, http.StatusForbidden, "only employers may post jobs")
			return
		}
		var rq JobRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		if err := validateJobRq(rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		jobPost, err := jobRepo.SaveJob(caller.UserID, rq)
		if err != nil {
			svr.Log(err, "unable to save job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to save job posting")
			return
		}
		// marketplace stats count active postings, drop the stale entry
		_ = svr.CacheDelete(server.CacheKeyMarketplaceStats)
		svr.JSON(w, http.StatusCreated, jobPost)
	}
}

func validateJobRq(rq JobRq) error {
	required := map[string]string{
		"title":           rq.Title,
		"company":         rq.Company,
		"category":        rq.Category,
		"job_type":        rq.JobType,
		"location":        rq.Location,
		"description":     rq.Description,
		"skills_required": rq.SkillsRequired,
	}
	for field, value := range required {
		if value == "" {
			return validation.Errorf(field, "cannot be empty")
		}
	}
	if rq.SalaryMin != nil && rq.SalaryMax != nil && *rq.SalaryMin > *rq.SalaryMax {
		return validation.Errorf("salary_min", "cannot exceed salary_max")
	}
	return nil
}

func UpdateJobHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
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
		jobPost, err := jobRepo.JobPostByID(jobID)
		if errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "job posting not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve job posting")
			return
		}
		if jobPost.EmployerID != caller.UserID {
			svr.JSONError(w, http.StatusForbidden, "only the posting owner may update it")
			return
		}
		var rq JobRqUpdate
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		if err := jobRepo.UpdateJob(jobID, rq); err != nil {
			svr.Log(err, "unable to update job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update job posting")
			return
		}
		updated, err := jobRepo.JobPostByID(jobID)
		if err != nil {
			svr.Log(err, "unable to retrieve updated job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve updated job posting")
			return
		}
		svr.JSON(w, http.StatusOK, updated)
	}
}

func CloseJobHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
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
		jobPost, err := jobRepo.JobPostByID(jobID)
		if errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "job posting not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve job posting")
			return
		}
		if jobPost.EmployerID != caller.UserID {
			svr.JSONError(w, http.StatusForbidden, "only the posting owner may close it")
			return
		}
		if err := jobRepo.CloseJob(jobID); err != nil {
			svr.Log(err, "unable to close job posting")
			svr.JSONError(w, http.StatusInternalServerError, "unable to close job posting")
			return
		}
		_ = svr.CacheDelete(server.CacheKeyMarketplaceStats)
		svr.JSON(w, http.StatusOK, map[string]string{"status": StatusClosed})
	}
}

// TriggerExpiredJobsHandler sweeps active postings past their expiry.
// Protected by the machine token, meant to be hit by a scheduler.
func TriggerExpiredJobsHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expired, err := jobRepo.MarkExpiredJobs()
		if err != nil {
			svr.Log(err, "unable to mark expired job postings")
			svr.JSONError(w, http.StatusInternalServerError, "unable to mark expired job postings")
			return
		}
		if expired > 0 {
			_ = svr.CacheDelete(server.CacheKeyMarketplaceStats)
		}
		svr.JSON(w, http.StatusOK, map[string]int64{"expired": expired})
	}
}

// SalaryStatsHandler summarises the salary midpoints of active postings
// in a category.
func SalaryStatsHandler(svr server.Server, jobRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := mux.Vars(r)["category"]
		midpoints, err := jobRepo.SalaryMidpointsForCategory(category)
		if err != nil {
			svr.Log(err, "unable to retrieve salary midpoints")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve salary stats")
			return
		}
		if len(midpoints) == 0 {
			svr.JSON(w, http.StatusOK, map[string]interface{}{"category": category, "sample_size": 0})
			return
		}
		sample := stats.Sample{Xs: midpoints}
		min, max := sample.Bounds()
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"category":    category,
			"sample_size": len(midpoints),
			"min":         min,
			"p25":         sample.Quantile(0.25),
			"median":      sample.Quantile(0.5),
			"p75":         sample.Quantile(0.75),
			"max":         max,
		})
	}
}
