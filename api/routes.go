package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/pkg/repository"
)

// Services are the domain components the HTTP layer fronts.
type Services struct {
	Accounts      repository.AccountRepo
	OTP           ChallengeService
	Jobs          ModerationService
	Notifications NotificationService
}

func SetupRoutes(cfg *config.Config, version, buildTime string, svc Services) (*mux.Router, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(svc.Accounts, validator, cfg.JWTSecret, cfg.TokenDuration)
	otpHandler := NewOTPHandler(svc.OTP, validator)
	jobsHandler := NewJobsHandler(svc.Jobs, validator)
	notificationsHandler := NewNotificationsHandler(svc.Notifications, validator)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/otp/request", otpHandler.Request).Methods("POST")
	r.HandleFunc("/v1/otp/verify", otpHandler.Verify).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// Job endpoints
	apiV1.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods("GET")
	apiV1.Handle("/jobs/{id}/status", AdminOnly(http.HandlerFunc(jobsHandler.UpdateStatus))).Methods("PATCH")

	// Notification endpoints
	apiV1.HandleFunc("/notifications", notificationsHandler.ListNotifications).Methods("GET")
	apiV1.HandleFunc("/notifications", notificationsHandler.CreateNotification).Methods("POST")
	apiV1.HandleFunc("/notifications", notificationsHandler.UpdateNotifications).Methods("PATCH")
	apiV1.HandleFunc("/notifications", notificationsHandler.DeleteNotification).Methods("DELETE")

	return r, nil
}
