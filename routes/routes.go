package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"colliss.co.uk/intake/handlers"
	"colliss.co.uk/intake/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handler) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/ping", h.PingHandler).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Function Endpoints (bearer token, anon key accepted)
	// =====================================================
	fns := r.PathPrefix("/functions/v1").Subrouter()
	fns.Use(middleware.JWTMiddleware)
	fns.HandleFunc("/send-submission-emails", h.SendSubmissionEmails).Methods("POST")
	fns.HandleFunc("/update-submission-status", h.UpdateSubmissionStatus).Methods("POST")

	// =====================================================
	// Intake API (bearer token, anon key accepted)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)
	api.HandleFunc("/submissions", h.CreateSubmission).Methods("POST")

	// =====================================================
	// Admin Routes (service role required)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireServiceRole)
	admin.HandleFunc("/submissions", h.ListSubmissions).Methods("GET")
	admin.HandleFunc("/submissions/export", h.ExportSubmissions).Methods("GET")
	admin.HandleFunc("/submissions/{id}", h.GetSubmission).Methods("GET")
	admin.HandleFunc("/submissions/{id}/status", h.PatchSubmissionStatus).Methods("PATCH")
	admin.HandleFunc("/email-logs", h.ListEmailLogs).Methods("GET")

	return r
}
