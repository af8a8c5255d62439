package handler

import (
	"net/http"

	"employercheck/internal/model"
	"employercheck/internal/service"
)

// EvaluationHandler accepts evaluation submissions
type EvaluationHandler struct {
	evalSvc *service.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evalSvc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalSvc: evalSvc}
}

// Submit handles POST /v1/evaluations
func (h *EvaluationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.EvaluationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Answers == nil {
		req.Answers = model.AnswerSet{}
	}

	a, err := h.evalSvc.Submit(r.Context(), &req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
