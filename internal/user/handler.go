package user

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/validation"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// CreateUserHandler registers an identity record minted by the external
// auth service. Exposed behind the machine token only.
func CreateUserHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rq UserRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "unable to decode payload")
			return
		}
		if err := validateUserRq(rq); err != nil {
			svr.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		u, err := repo.SaveUser(rq.Name, rq.Email, rq.Type)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			svr.JSONError(w, http.StatusBadRequest, "a user with this email already exists")
			return
		}
		if err != nil {
			svr.Log(err, "unable to save user")
			svr.JSONError(w, http.StatusInternalServerError, "unable to save user")
			return
		}
		svr.JSON(w, http.StatusCreated, u)
	}
}

func validateUserRq(rq UserRq) error {
	if rq.Name == "" {
		return validation.Errorf("name", "cannot be empty")
	}
	if rq.Email == "" {
		return validation.Errorf("email", "cannot be empty")
	}
	if rq.Type != TypeWorker && rq.Type != TypeEmployer {
		return validation.Errorf("type", "must be %q or %q", TypeWorker, TypeEmployer)
	}
	return nil
}

// MeHandler returns the user record behind the caller's token.
func MeHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		u, err := repo.GetUser(caller.UserID)
		if err == sql.ErrNoRows {
			// token is valid but provisioning never happened, fall back
			// to the email claim before giving up
			u, err = repo.GetUserByEmail(caller.Email)
		}
		if err == sql.ErrNoRows {
			svr.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve user")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve user")
			return
		}
		svr.JSON(w, http.StatusOK, u)
	}
}
