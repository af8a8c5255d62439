package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"employercheck/internal/eligibility"
	"employercheck/internal/model"
	"employercheck/internal/service"
)

// RulesetHandler manages rulesets. It is the only surface that exposes
// thresholds.
type RulesetHandler struct {
	rulesetSvc *service.RulesetService
	evalSvc    *service.EvaluationService
}

// NewRulesetHandler creates a new ruleset handler
func NewRulesetHandler(rulesetSvc *service.RulesetService, evalSvc *service.EvaluationService) *RulesetHandler {
	return &RulesetHandler{
		rulesetSvc: rulesetSvc,
		evalSvc:    evalSvc,
	}
}

// List handles GET /v1/rulesets
func (h *RulesetHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.rulesetSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if sets == nil {
		sets = []*model.Ruleset{}
	}
	writeJSON(w, http.StatusOK, sets)
}

// Get handles GET /v1/rulesets/{code}
func (h *RulesetHandler) Get(w http.ResponseWriter, r *http.Request) {
	rs, err := h.rulesetSvc.Get(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// Put handles PUT /v1/rulesets/{code}
func (h *RulesetHandler) Put(w http.ResponseWriter, r *http.Request) {
	code := eligibility.NormalizeJurisdiction(mux.Vars(r)["code"])

	var rs model.Ruleset
	if !decodeBody(w, r, &rs) {
		return
	}
	if rs.Jurisdiction == "" {
		rs.Jurisdiction = code
	}
	if eligibility.NormalizeJurisdiction(rs.Jurisdiction) != code {
		writeError(w, http.StatusBadRequest, "jurisdiction does not match path")
		return
	}

	if err := h.rulesetSvc.Put(r.Context(), &rs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// Delete handles DELETE /v1/rulesets/{code}
func (h *RulesetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rulesetSvc.Delete(r.Context(), mux.Vars(r)["code"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /v1/admin/stats
func (h *RulesetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	stats, err := h.evalSvc.Stats(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
