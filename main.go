package main

import (
	"log"
	"net/http"

	"github.com/skillconnect/marketplace/internal/application"
	"github.com/skillconnect/marketplace/internal/config"
	"github.com/skillconnect/marketplace/internal/database"
	"github.com/skillconnect/marketplace/internal/email"
	"github.com/skillconnect/marketplace/internal/job"
	"github.com/skillconnect/marketplace/internal/middleware"
	"github.com/skillconnect/marketplace/internal/notification"
	"github.com/skillconnect/marketplace/internal/savedjob"
	"github.com/skillconnect/marketplace/internal/server"
	"github.com/skillconnect/marketplace/internal/stats"
	"github.com/skillconnect/marketplace/internal/user"
	"github.com/skillconnect/marketplace/internal/worker"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.SupportEmail, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to initialise email client: %v", err)
	}

	svr := server.NewServer(cfg, conn, mux.NewRouter())

	userRepo := user.NewRepository(conn)
	jobRepo := job.NewRepository(conn)
	workerRepo := worker.NewRepository(conn)
	notificationRepo := notification.NewRepository(conn)
	dispatcher := notification.NewDispatcher(
		notificationRepo,
		userRepo,
		emailClient,
		cfg.URLProtocol,
		cfg.SiteHost,
		svr.Log,
	)
	applicationRepo := application.NewRepository(conn, dispatcher)
	savedJobRepo := savedjob.NewRepository(conn)

	// job postings
	svr.RegisterRoute("/api/jobs", job.JobsHandler(svr, jobRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/jobs", job.PostJobHandler(svr, jobRepo), []string{http.MethodPost})
	svr.RegisterRoute("/api/jobs/{id:[0-9]+}", job.JobByIDHandler(svr, jobRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/jobs/{id:[0-9]+}", job.UpdateJobHandler(svr, jobRepo), []string{http.MethodPut})
	svr.RegisterRoute("/api/jobs/{id:[0-9]+}", job.CloseJobHandler(svr, jobRepo), []string{http.MethodDelete})
	svr.RegisterRoute("/api/stats/salaries/{category}", job.SalaryStatsHandler(svr, jobRepo), []string{http.MethodGet})

	// worker profiles
	svr.RegisterRoute("/api/workers", worker.WorkersHandler(svr, workerRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/workers/profile", worker.MyProfileHandler(svr, workerRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/workers/profile", worker.CreateProfileHandler(svr, workerRepo), []string{http.MethodPost})
	svr.RegisterRoute("/api/workers/profile", worker.UpdateProfileHandler(svr, workerRepo), []string{http.MethodPut})
	svr.RegisterRoute("/api/workers/{id}", worker.GetProfileHandler(svr, workerRepo), []string{http.MethodGet})

	// applications
	svr.RegisterRoute("/api/jobs/{id:[0-9]+}/apply", application.ApplyToJobHandler(svr, applicationRepo), []string{http.MethodPost})
	svr.RegisterRoute("/api/applications", application.ApplicationsHandler(svr, applicationRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/applications/{id:[0-9]+}", application.ApplicationByIDHandler(svr, applicationRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/applications/{id:[0-9]+}", application.TransitionApplicationHandler(svr, applicationRepo), []string{http.MethodPut})

	// saved jobs
	svr.RegisterRoute("/api/jobs/{id:[0-9]+}/save", savedjob.SaveJobHandler(svr, savedJobRepo), []string{http.MethodPost})
	svr.RegisterRoute("/api/jobs/{id:[0-9]+}/save", savedjob.UnsaveJobHandler(svr, savedJobRepo), []string{http.MethodDelete})
	svr.RegisterRoute("/api/saved-jobs", savedjob.SavedJobsHandler(svr, savedJobRepo, jobRepo), []string{http.MethodGet})

	// notifications
	svr.RegisterRoute("/api/notifications", notification.NotificationsHandler(svr, notificationRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/notifications/{id}/read", notification.MarkNotificationReadHandler(svr, notificationRepo), []string{http.MethodPut})

	// users
	svr.RegisterRoute("/api/me", user.MeHandler(svr, userRepo), []string{http.MethodGet})
	svr.RegisterRoute(
		"/x/users",
		middleware.MachineAuthenticatedMiddleware(cfg.MachineToken, user.CreateUserHandler(svr, userRepo)),
		[]string{http.MethodPost},
	)

	// marketplace
	svr.RegisterRoute("/api/stats", stats.MarketplaceStatsHandler(svr, jobRepo, workerRepo, userRepo, applicationRepo), []string{http.MethodGet})
	svr.RegisterRoute("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.Ping(); err != nil {
			svr.JSONError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}, []string{http.MethodGet})

	// scheduler-driven maintenance, protected by the machine token
	svr.RegisterRoute(
		"/x/trigger/expired-jobs",
		middleware.MachineAuthenticatedMiddleware(cfg.MachineToken, job.TriggerExpiredJobsHandler(svr, jobRepo)),
		[]string{http.MethodPost},
	)

	log.Fatal(svr.Run())
}
