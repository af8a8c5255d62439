package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"employercheck/internal/model"
	"employercheck/internal/service"
	"employercheck/internal/transport/rest/middleware"
)

// IdempotencyHeader names the logical session a request belongs to
const IdempotencyHeader = "Idempotency-Key"

// SessionHandler opens respondent sessions and serves their history
type SessionHandler struct {
	evalSvc *service.EvaluationService
	authSvc *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(evalSvc *service.EvaluationService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{
		evalSvc: evalSvc,
		authSvc: authSvc,
	}
}

// CreateSessionRequest is the request body for opening a session
type CreateSessionRequest struct {
	ClientSessionID string `json:"client_session_id"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	key := r.Header.Get(IdempotencyHeader)
	if key == "" {
		key = req.ClientSessionID
	}

	sess, created, err := h.evalSvc.OpenSession(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	token, err := h.authSvc.IssueSessionToken(sess.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, model.SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		Resumed:   !created,
	})
}

// Assessments handles GET /v1/sessions/{id}/assessments
func (h *SessionHandler) Assessments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if middleware.GetSessionID(r.Context()) != id {
		writeError(w, http.StatusForbidden, "token does not grant this session")
		return
	}

	history, err := h.evalSvc.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if history == nil {
		history = []*model.Assessment{}
	}
	writeJSON(w, http.StatusOK, history)
}
