package worker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillconnect/marketplace/internal/pagination"
	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/validation"

	"github.com/gorilla/mux"
)

// WorkersHandler serves the worker profile search.
func WorkersHandler(svr server.Server, workerRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := ParseFiltersFromQuery(r.URL.Query())
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := pagination.ParseFromQuery(r.URL.Query(), svr.GetConfig().WorkersPerPage)
		if err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		sortBy := ParseSortFromQuery(r.URL.Query())

		profiles, total, err := workerRepo.ProfilesByFilters(filters, sortBy, page.Page, page.PerPage)
		if err != nil {
			svr.Log(err, "unable to search worker profiles")
			svr.JSONError(w, http.StatusInternalServerError, "unable to search worker profiles")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"items":        profiles,
			"total":        total,
			"pages":        pagination.Pages(total, page.PerPage),
			"current_page": page.Page,
		})
	}
}

// GetProfileHandler serves a single public profile by its owner's user id.
func GetProfileHandler(svr server.Server, workerRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := workerRepo.ProfileByUserID(mux.Vars(r)["id"])
		if errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "worker profile not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve worker profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve worker profile")
			return
		}
		svr.JSON(w, http.StatusOK, profile)
	}
}

// MyProfileHandler serves the calling worker's own profile.
func MyProfileHandler(svr server.Server, workerRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		profile, err := workerRepo.ProfileByUserID(caller.UserID)
		if errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "worker profile not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve worker profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve worker profile")
			return
		}
		svr.JSON(w, http.StatusOK, profile)
	}
}

func CreateProfileHandler(svr server.Server, workerRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		if !caller.IsWorker() {
			svr.JSONError(w, http.StatusForbidden, "only workers may create a profile")
			return
		}
		var rq ProfileRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		if err := validateProfileRq(rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		profile, err := workerRepo.SaveProfile(caller.UserID, rq)
		if errors.Is(err, ErrAlreadyExists) {
			svr.JSONError(w, http.StatusBadRequest, "worker already has a profile")
			return
		}
		if err != nil {
			svr.Log(err, "unable to save worker profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to save worker profile")
			return
		}
		svr.JSON(w, http.StatusCreated, profile)
	}
}

func validateProfileRq(rq ProfileRq) error {
	required := map[string]string{
		"title":    rq.Title,
		"category": rq.Category,
		"skills":   rq.Skills,
		"location": rq.Location,
	}
	for field, value := range required {
		if value == "" {
			return validation.Errorf(field, "cannot be empty")
		}
	}
	if rq.ExperienceYears < 0 {
		return validation.Errorf("experience_years", "cannot be negative")
	}
	if rq.HourlyRateMin != nil && rq.HourlyRateMax != nil && *rq.HourlyRateMin > *rq.HourlyRateMax {
		return validation.Errorf("hourly_rate_min", "cannot exceed hourly_rate_max")
	}
	return nil
}

func UpdateProfileHandler(svr server.Server, workerRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		var rq ProfileRqUpdate
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		if err := workerRepo.UpdateProfile(caller.UserID, rq); errors.Is(err, ErrNotFound) {
			svr.JSONError(w, http.StatusNotFound, "worker profile not found")
			return
		} else if err != nil {
			svr.Log(err, "unable to update worker profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update worker profile")
			return
		}
		profile, err := workerRepo.ProfileByUserID(caller.UserID)
		if err != nil {
			svr.Log(err, "unable to retrieve updated worker profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve updated worker profile")
			return
		}
		svr.JSON(w, http.StatusOK, profile)
	}
}
