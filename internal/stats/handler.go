package stats

import (
	"encoding/json"
	"net/http"

	"github.com/skillconnect/marketplace/internal/application"
	"github.com/skillconnect/marketplace/internal/job"
	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/user"
	"github.com/skillconnect/marketplace/internal/worker"
)

type MarketplaceStats struct {
	ActiveJobs        int `json:"active_jobs"`
	FeaturedJobs      int `json:"featured_jobs"`
	UrgentJobs        int `json:"urgent_jobs"`
	Workers           int `json:"total_workers"`
	Employers         int `json:"total_employers"`
	TotalApplications int `json:"total_applications"`
	TotalHires        int `json:"total_hires"`
}

// MarketplaceStatsHandler serves the public marketplace counters. The
// payload is cached, counts lag reality by up to the cache lifetime.
func MarketplaceStatsHandler(
	svr server.Server,
	jobRepo *job.Repository,
	workerRepo *worker.Repository,
	userRepo *user.Repository,
	applicationRepo *application.Repository,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, ok := svr.CacheGet(server.CacheKeyMarketplaceStats); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		var s MarketplaceStats
		var err error
		if s.ActiveJobs, err = jobRepo.CountByStatus(job.StatusActive); err != nil {
			svr.Log(err, "unable to count active jobs")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if s.FeaturedJobs, err = jobRepo.CountActiveFlagged("featured"); err != nil {
			svr.Log(err, "unable to count featured jobs")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if s.UrgentJobs, err = jobRepo.CountActiveFlagged("urgent"); err != nil {
			svr.Log(err, "unable to count urgent jobs")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if s.Workers, err = workerRepo.Count(); err != nil {
			svr.Log(err, "unable to count workers")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if s.Employers, err = userRepo.CountByType(user.TypeEmployer); err != nil {
			svr.Log(err, "unable to count employers")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if s.TotalApplications, err = applicationRepo.Count(); err != nil {
			svr.Log(err, "unable to count applications")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if s.TotalHires, err = applicationRepo.CountByStatus(application.StatusHired); err != nil {
			svr.Log(err, "unable to count hires")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		out, err := json.Marshal(s)
		if err != nil {
			svr.Log(err, "unable to marshal stats")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve stats")
			return
		}
		if err := svr.CacheSet(server.CacheKeyMarketplaceStats, out); err != nil {
			svr.Log(err, "unable to cache stats")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}
