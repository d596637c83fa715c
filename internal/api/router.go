package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/buildbid/backend/internal/api/handlers"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// ServiceName is reported by /health
const ServiceName = "buildbid-api"

// Handlers groups the endpoint handlers the router mounts
type Handlers struct {
	Auth            *handlers.AuthHandler
	Projects        *handlers.ProjectHandler
	Bids            *handlers.BidHandler
	Recommendations *handlers.RecommendationHandler
	Contractors     *handlers.ContractorHandler
	Jobs            *handlers.JobHandler
	Admin           *handlers.AdminHandler
	Maintenance     *handlers.MaintenanceHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, maintenance MaintenanceChecker, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/auth/change-password", h.Auth.ChangePassword).Methods("POST")

	// Company
	api.HandleFunc("/company/projects", h.Projects.ListForCompany).Methods("GET")
	api.HandleFunc("/company/projects", h.Projects.Create).Methods("POST")
	api.HandleFunc("/company/projects/{id:[0-9]+}", h.Projects.Get).Methods("GET")
	api.HandleFunc("/company/projects/{id:[0-9]+}/recommendations", h.Recommendations.ForProject).Methods("GET")
	api.HandleFunc("/company/bids", h.Bids.ListForCompany).Methods("GET")
	api.HandleFunc("/company/bids", h.Bids.Decide).Methods("POST")
	api.HandleFunc("/company/contractors", h.Contractors.List).Methods("GET")

	// Contractor
	api.HandleFunc("/contractor/projects", h.Projects.ListOpen).Methods("GET")
	api.HandleFunc("/contractor/bids", h.Bids.ListForContractor).Methods("GET")
	api.HandleFunc("/contractor/bids", h.Bids.Submit).Methods("POST")
	api.HandleFunc("/contractor/profile", h.Contractors.GetProfile).Methods("GET")
	api.HandleFunc("/contractor/profile", h.Contractors.UpdateProfile).Methods("POST")

	// Directory + stateless scoring
	api.HandleFunc("/contractors/{id:[0-9]+}", h.Contractors.Signals).Methods("GET")
	api.HandleFunc("/rank", h.Recommendations.Rank).Methods("POST")

	// Jobs
	api.HandleFunc("/jobs", h.Jobs.List).Methods("GET")
	api.HandleFunc("/jobs/post", h.Jobs.Post).Methods("POST")
	api.HandleFunc("/jobs/match", h.Jobs.Match).Methods("POST")

	// Admin
	api.HandleFunc("/admin/users", h.Admin.ListUsers).Methods("GET")
	api.HandleFunc("/admin/users/delete", h.Admin.DeleteUser).Methods("DELETE")
	api.HandleFunc("/admin/dashboard", h.Admin.Dashboard).Methods("GET")
	api.HandleFunc("/admin/reports", h.Admin.Reports).Methods("GET")
	api.HandleFunc("/admin/reports/export", h.Admin.ExportReport).Methods("GET")
	api.HandleFunc("/admin/projects", h.Projects.ListAll).Methods("GET")
	api.HandleFunc("/admin/projects/{id:[0-9]+}", h.Projects.Delete).Methods("DELETE")
	api.HandleFunc("/admin/jobs", h.Jobs.ListAll).Methods("GET")
	api.HandleFunc("/admin/jobs/{id:[0-9]+}", h.Jobs.Delete).Methods("DELETE")

	// Maintenance
	api.HandleFunc("/maintenance", h.Maintenance.Get).Methods("GET")
	api.HandleFunc("/maintenance", h.Maintenance.Put).Methods("PUT")

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// mux runs Use middleware on matched routes only; request id, logging and
	// recovery wrap the whole router so 404/405 answers get them too
	r.Use(captureRouteMiddleware)
	api.Use(maintenanceMiddleware(maintenance))

	return requestIDMiddleware(loggingMiddleware(log)(recoveryMiddleware(log)(r)))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": ServiceName,
	})
}
