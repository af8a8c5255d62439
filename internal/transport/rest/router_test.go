package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employercheck/internal/cache"
	"employercheck/internal/config"
	"employercheck/internal/eligibility"
	"employercheck/internal/model"
	"employercheck/internal/service"
	"employercheck/internal/transport/ws"
)

type memRulesets struct {
	mu   sync.Mutex
	data map[string]model.Ruleset
}

func (m *memRulesets) Get(ctx context.Context, code string) (*model.Ruleset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.data[code]
	if !ok {
		return nil, nil
	}
	return &rs, nil
}

func (m *memRulesets) List(ctx context.Context) ([]*model.Ruleset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Ruleset
	for _, rs := range m.data {
		rs := rs
		out = append(out, &rs)
	}
	return out, nil
}

func (m *memRulesets) Upsert(ctx context.Context, rs *model.Ruleset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rs.Jurisdiction] = *rs
	return nil
}

func (m *memRulesets) Delete(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[code]
	delete(m.data, code)
	return ok, nil
}

type memSessions struct {
	mu    sync.Mutex
	byID  map[string]*model.Session
	byKey map[string]string
	seq   int
}

func (m *memSessions) GetByID(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memSessions) FindOrCreate(ctx context.Context, key string) (*model.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byKey[key]; ok && key != "" {
		return m.byID[id], false, nil
	}
	m.seq++
	s := &model.Session{ID: "session-" + strconv.Itoa(m.seq), IdempotencyKey: key}
	m.byID[s.ID] = s
	if key != "" {
		m.byKey[key] = s.ID
	}
	return s, true, nil
}

func (m *memSessions) RecordEvaluation(ctx context.Context, id, jurisdiction string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byID[id]; ok {
		s.EvaluationCount++
	}
	return nil
}

type memAssessments struct {
	mu   sync.Mutex
	rows []*model.Assessment
}

func (m *memAssessments) Insert(ctx context.Context, a *model.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, a)
	return nil
}

func (m *memAssessments) ListBySession(ctx context.Context, id string, limit int) ([]*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Assessment
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].SessionID == id {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	auth, err := service.NewAuthService(&config.Config{
		JWTSecret:       "test",
		AdminUsername:   "admin",
		AdminPassword:   "pw",
		AdminTokenTTL:   time.Hour,
		SessionTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	rulesets := service.NewRulesetService(&memRulesets{data: map[string]model.Ruleset{
		"CA": {
			Jurisdiction: "CA",
			Completeness: model.CompletenessComplete,
			Branches: map[model.Category]model.LiabilityBranch{
				model.CategoryGeneral: {Wage: &model.WageThreshold{Amount: 1234.5, Period: model.PeriodQuarter}},
			},
		},
	}}, cache.NewRulesetCache(client, time.Minute))
	evals := service.NewEvaluationService(
		rulesets,
		&memSessions{byID: map[string]*model.Session{}, byKey: map[string]string{}},
		&memAssessments{},
		cache.NewSessionCache(client, time.Hour),
		cache.NewStatsCache(client),
		nil,
	)
	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	return NewRouter(&Container{
		AuthService:       auth,
		RulesetService:    rulesets,
		InterviewService:  service.NewInterviewService(rulesets, cache.NewDraftCache(client, time.Hour)),
		EvaluationService: evals,
		WSHub:             hub,
		CORSOrigins:       []string{"*"},
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestInterviewDefinition(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "GET", "/v1/jurisdictions/ca/interview", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	def := decode[model.InterviewDefinition](t, rec)
	assert.Equal(t, "CA", def.Hints.Jurisdiction)
	assert.Equal(t, model.CompletenessComplete, def.Hints.Completeness)
	assert.NotContains(t, rec.Body.String(), "1234.5", "thresholds never leave the admin surface")

	rec = do(t, h, "GET", "/v1/jurisdictions/WY/interview", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CompletenessMissing, decode[model.InterviewDefinition](t, rec).Hints.Completeness)

	rec = do(t, h, "GET", "/v1/jurisdictions/California/interview", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, "GET", "/v1/jurisdictions/ZZ/interview", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CompletenessMissing, decode[model.InterviewDefinition](t, rec).Hints.Completeness)
}

func TestEvaluationFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/v1/sessions", "", map[string]string{"client_session_id": "tab-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decode[model.SessionResponse](t, rec)
	assert.False(t, sess.Resumed)

	rec = do(t, h, "POST", "/v1/sessions", "", map[string]string{"client_session_id": "tab-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[model.SessionResponse](t, rec)
	assert.True(t, again.Resumed)
	assert.Equal(t, sess.SessionID, again.SessionID)

	rec = do(t, h, "POST", "/v1/evaluations", "", model.EvaluationRequest{
		SchemaVersion:   eligibility.SchemaVersion,
		ClientSessionID: "tab-1",
		Answers: model.AnswerSet{
			model.KeyJurisdiction:       "CA",
			model.KeyEmploymentCategory: "general",
			model.KeyPaidOutsidePayroll: model.ValueNo,
			model.KeyHiringIntent:       model.ValueNo,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decode[model.Assessment](t, rec)
	assert.Equal(t, sess.SessionID, a.SessionID)
	assert.Equal(t, model.RecommendTrackForLater, a.Recommendation)
	assert.NotContains(t, rec.Body.String(), "1234.5")

	rec = do(t, h, "GET", "/v1/sessions/"+sess.SessionID+"/assessments", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]model.Assessment](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, a.ID, history[0].ID)

	rec = do(t, h, "GET", "/v1/sessions/other/assessments", sess.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, h, "GET", "/v1/sessions/"+sess.SessionID+"/assessments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEvaluationUnlistedJurisdiction(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/v1/evaluations", "", model.EvaluationRequest{
		SchemaVersion: eligibility.SchemaVersion,
		Answers: model.AnswerSet{
			model.KeyJurisdiction:       "ZZ",
			model.KeyEmploymentCategory: "general",
			model.KeyPaidOutsidePayroll: model.ValueYes,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decode[model.Assessment](t, rec)
	assert.Equal(t, model.RecommendNotSupportedYet, a.Recommendation)
	assert.Equal(t, model.CompletenessMissing, a.DataCoverage.Completeness)
}

func TestEvaluationValidationError(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/v1/evaluations", "", model.EvaluationRequest{
		Answers: model.AnswerSet{model.KeyJurisdiction: "CA", model.KeyHiringIntent: "someday"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[struct {
		Error  string                   `json:"error"`
		Fields []eligibility.FieldError `json:"fields"`
	}](t, rec)
	assert.NotEmpty(t, body.Fields)

	rec = do(t, h, "POST", "/v1/evaluations", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRulesets(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "GET", "/v1/rulesets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, "POST", "/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h, "POST", "/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[model.LoginResponse](t, rec).Token

	rec = do(t, h, "PUT", "/v1/rulesets/ny", token, model.Ruleset{
		Completeness: model.CompletenessPartial,
		Branches: map[model.Category]model.LiabilityBranch{
			model.CategoryGeneral: {Wage: &model.WageThreshold{Amount: 300, Period: model.PeriodQuarter}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "NY", decode[model.Ruleset](t, rec).Jurisdiction)

	rec = do(t, h, "PUT", "/v1/rulesets/NY", token, model.Ruleset{Jurisdiction: "CA", Completeness: model.CompletenessPartial})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, "PUT", "/v1/rulesets/NY", token, model.Ruleset{Completeness: "mostly"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/v1/jurisdictions/NY/interview", "", nil)
	assert.Equal(t, model.CompletenessPartial, decode[model.InterviewDefinition](t, rec).Hints.Completeness)

	rec = do(t, h, "GET", "/v1/rulesets", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Ruleset](t, rec), 2)

	rec = do(t, h, "DELETE", "/v1/rulesets/NY", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, "GET", "/v1/rulesets/NY", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "GET", "/v1/admin/stats?limit=5", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, "GET", "/v1/admin/stats?limit=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest("OPTIONS", "/v1/evaluations", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}
