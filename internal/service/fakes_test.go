package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"employercheck/internal/model"
)

var errStoreDown = errors.New("store unavailable")

type memRulesets struct {
	mu    sync.Mutex
	data  map[string]*model.Ruleset
	gets  int
	fail  bool
	block chan struct{}
}

func newMemRulesets(sets ...*model.Ruleset) *memRulesets {
	m := &memRulesets{data: map[string]*model.Ruleset{}}
	for _, rs := range sets {
		m.data[rs.Jurisdiction] = rs
	}
	return m
}

func (m *memRulesets) Get(ctx context.Context, jurisdiction string) (*model.Ruleset, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.fail {
		return nil, errStoreDown
	}
	rs, ok := m.data[jurisdiction]
	if !ok {
		return nil, nil
	}
	cp := *rs
	return &cp, nil
}

func (m *memRulesets) List(ctx context.Context) ([]*model.Ruleset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Ruleset, 0, len(m.data))
	for _, rs := range m.data {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Jurisdiction < out[j].Jurisdiction })
	return out, nil
}

func (m *memRulesets) Upsert(ctx context.Context, rs *model.Ruleset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rs.Jurisdiction] = rs
	return nil
}

func (m *memRulesets) Delete(ctx context.Context, jurisdiction string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[jurisdiction]
	delete(m.data, jurisdiction)
	return ok, nil
}

func (m *memRulesets) getCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

type memSessions struct {
	mu    sync.Mutex
	byID  map[string]*model.Session
	byKey map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]*model.Session{}, byKey: map[string]string{}}
}

func (m *memSessions) GetByID(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) FindOrCreate(ctx context.Context, key string) (*model.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key != "" {
		if id, ok := m.byKey[key]; ok {
			cp := *m.byID[id]
			return &cp, false, nil
		}
	}
	s := &model.Session{ID: uuid.NewString(), IdempotencyKey: key, CreatedAt: time.Now().UTC()}
	m.byID[s.ID] = s
	if key != "" {
		m.byKey[key] = s.ID
	}
	cp := *s
	return &cp, true, nil
}

func (m *memSessions) RecordEvaluation(ctx context.Context, id, jurisdiction string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return errors.New("no such session")
	}
	s.Jurisdiction = jurisdiction
	s.EvaluationCount++
	s.LastEvaluatedAt = &at
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

func (m *memAssessments) ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Assessment
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].SessionID == sessionID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func californiaRuleset() *model.Ruleset {
	return &model.Ruleset{
		Jurisdiction: "CA",
		Name:         "California",
		Completeness: model.CompletenessComplete,
		Branches: map[model.Category]model.LiabilityBranch{
			model.CategoryGeneral: {
				Wage:  &model.WageThreshold{Amount: 100, Period: model.PeriodQuarter},
				Weeks: &model.WeeksThreshold{Count: 20},
			},
			model.CategoryDomestic: {
				Wage: &model.WageThreshold{Amount: 750, Period: model.PeriodQuarter},
			},
		},
	}
}

func quietAnswers(code string) model.AnswerSet {
	return model.AnswerSet{
		model.KeyJurisdiction:       code,
		model.KeyEmploymentCategory: "general",
		model.KeyPaidOutsidePayroll: model.ValueNo,
		model.KeyHiringIntent:       model.ValueNo,
	}
}
