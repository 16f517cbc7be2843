package application

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/skillconnect/marketplace/internal/config"
	"github.com/skillconnect/marketplace/internal/email"
	"github.com/skillconnect/marketplace/internal/job"
	"github.com/skillconnect/marketplace/internal/middleware"
	"github.com/skillconnect/marketplace/internal/notification"
	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/user"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func signToken(t *testing.T, userID, userType string) string {
	t.Helper()
	claims := &middleware.CallerIdentity{
		UserID:   userID,
		Email:    userID + "@example.com",
		UserType: userType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	require.NoError(t, err)
	return token
}

func newTestServer(t *testing.T) (server.Server, *Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svr := server.NewServer(
		config.Config{JwtSigningKey: testSigningKey, Env: "dev"},
		db,
		mux.NewRouter(),
	)
	dispatcher := notification.NewDispatcher(
		notification.NewRepository(db),
		user.NewRepository(db),
		email.Client{},
		"https://", "skillconnect.example",
		nil,
	)
	return svr, NewRepository(db, dispatcher), mock
}

func TestApplyToJobHandlerRejectsAnonymous(t *testing.T) {
	svr, repo, _ := newTestServer(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/jobs/{id}/apply", ApplyToJobHandler(svr, repo)).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplyToJobHandlerRejectsEmployers(t *testing.T) {
	svr, repo, _ := newTestServer(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/jobs/{id}/apply", ApplyToJobHandler(svr, repo)).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, "employer-1", middleware.UserTypeEmployer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplyToJobHandlerCreatesApplication(t *testing.T) {
	svr, repo, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT employer_id, title, status FROM job WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"employer_id", "title", "status"}).
			AddRow("employer-1", "Senior Electrician", job.StatusActive))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO application`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job SET applications_count = applications_count + 1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notification`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := mux.NewRouter()
	router.HandleFunc("/api/jobs/{id}/apply", ApplyToJobHandler(svr, repo)).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", strings.NewReader(`{"cover_letter":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, "worker-1", middleware.UserTypeWorker))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionApplicationHandlerRejectsEmptyStatus(t *testing.T) {
	svr, repo, _ := newTestServer(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/applications/{id}", TransitionApplicationHandler(svr, repo)).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/applications/42", strings.NewReader(`{"notes":"no status"}`))
	req.Header.Set("Authorization", "Bearer "+signToken(t, "employer-1", middleware.UserTypeEmployer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplicationByIDHandlerHidesOtherPeoplesApplications(t *testing.T) {
	svr, repo, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM application a JOIN job j ON j.id = a.job_id WHERE a.id = $1`)).
		WithArgs(42).
		WillReturnRows(applicationRows(StatusPending))

	router := mux.NewRouter()
	router.HandleFunc("/api/applications/{id}", ApplicationByIDHandler(svr, repo)).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/42", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-worker", middleware.UserTypeWorker))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
