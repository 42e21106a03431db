package http

import (
	"net/http"

	"hospital-admin/internal/delivery/http/handler"
	"hospital-admin/internal/delivery/http/middleware"
	"hospital-admin/internal/engine"
	"hospital-admin/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	engine               *engine.Engine
	metrics              *metrics.Metrics
	metricsPath          string
	authHandler          *handler.AuthHandler
	patientRecordHandler *handler.PatientRecordHandler
	leaveRequestHandler  *handler.LeaveRequestHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

// NewRouter wires the handlers. A nil m disables the metrics endpoint and
// request instrumentation.
func NewRouter(
	eng *engine.Engine,
	m *metrics.Metrics,
	metricsPath string,
	authHandler *handler.AuthHandler,
	patientRecordHandler *handler.PatientRecordHandler,
	leaveRequestHandler *handler.LeaveRequestHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		engine:               eng,
		metrics:              m,
		metricsPath:          metricsPath,
		authHandler:          authHandler,
		patientRecordHandler: patientRecordHandler,
		leaveRequestHandler:  leaveRequestHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	if r.metrics != nil {
		r.router.Handle(r.metricsPath, r.metrics.Handler()).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Account management (user_account/manage)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAccess(r.engine, engine.ResourceUserAccount, engine.ActionManage, engine.Write))
	admin.HandleFunc("/users", r.authHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/deactivate", r.authHandler.DeactivateUser).Methods(http.MethodPost)

	// Patient records; per-group checks happen in the engine
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.HandleFunc("", r.patientRecordHandler.Admit).Methods(http.MethodPost)
	patients.HandleFunc("", r.patientRecordHandler.GetAll).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientRecordHandler.GetByID).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientRecordHandler.Update).Methods(http.MethodPatch)
	patients.HandleFunc("/{id}", r.patientRecordHandler.Delete).Methods(http.MethodDelete)
	patients.HandleFunc("/{id}/visible-groups", r.patientRecordHandler.VisibleGroups).Methods(http.MethodGet)

	// Leave workflow; the state check runs before the role check, so
	// approve and reject are not guarded at the route level
	leave := api.PathPrefix("/leave-requests").Subrouter()
	leave.Use(r.authMiddleware.Authenticate)
	leave.HandleFunc("", r.leaveRequestHandler.Submit).Methods(http.MethodPost)
	leave.HandleFunc("", r.leaveRequestHandler.GetAll).Methods(http.MethodGet)
	leave.HandleFunc("/{id}", r.leaveRequestHandler.GetByID).Methods(http.MethodGet)
	leave.HandleFunc("/{id}/approve", r.leaveRequestHandler.Approve).Methods(http.MethodPost)
	leave.HandleFunc("/{id}/reject", r.leaveRequestHandler.Reject).Methods(http.MethodPost)

	if r.metrics != nil {
		r.router.Use(r.metrics.HTTPMiddleware)
	}

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
