package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"employercheck/internal/service"
)

// InterviewHandler serves generated interviews
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// Definition handles GET /v1/jurisdictions/{code}/interview
func (h *InterviewHandler) Definition(w http.ResponseWriter, r *http.Request) {
	def, err := h.interviewSvc.Definition(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}
