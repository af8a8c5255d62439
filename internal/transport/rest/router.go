package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"employercheck/internal/service"
	"employercheck/internal/transport/rest/handler"
	"employercheck/internal/transport/rest/middleware"
	"employercheck/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	RulesetService    *service.RulesetService
	InterviewService  *service.InterviewService
	EvaluationService *service.EvaluationService
	WSHub             *ws.Hub
	CORSOrigins       []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	sessionHandler := handler.NewSessionHandler(c.EvaluationService, c.AuthService)
	evaluationHandler := handler.NewEvaluationHandler(c.EvaluationService)
	rulesetHandler := handler.NewRulesetHandler(c.RulesetService, c.EvaluationService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.InterviewService, c.EvaluationService, c.CORSOrigins)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.CORSOrigins))
	r.Use(middleware.RequestLogger)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/jurisdictions/{code}/interview", interviewHandler.Definition).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/evaluations", evaluationHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/interview", wsHandler.InterviewWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Respondent routes (require session token)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/sessions/{id}/assessments", sessionHandler.Assessments).Methods("GET", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/rulesets", rulesetHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/rulesets/{code}", rulesetHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/rulesets/{code}", rulesetHandler.Put).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/rulesets/{code}", rulesetHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/admin/stats", rulesetHandler.Stats).Methods("GET", "OPTIONS")

	return r
}
