package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employercheck/internal/cache"
	"employercheck/internal/eligibility"
	"employercheck/internal/model"
)

type evaluationFixture struct {
	svc         *EvaluationService
	rulesets    *memRulesets
	sessions    *memSessions
	assessments *memAssessments
}

func newEvaluationFixture(t *testing.T) *evaluationFixture {
	t.Helper()
	client := newTestRedis(t)
	f := &evaluationFixture{
		rulesets:    newMemRulesets(californiaRuleset()),
		sessions:    newMemSessions(),
		assessments: &memAssessments{},
	}
	f.svc = NewEvaluationService(
		NewRulesetService(f.rulesets, nil),
		f.sessions,
		f.assessments,
		cache.NewSessionCache(client, time.Hour),
		cache.NewStatsCache(client),
		eligibility.NewEvaluator(),
	)
	return f
}

func TestEvaluationService_SubmitAttachesToOneSession(t *testing.T) {
	ctx := context.Background()
	f := newEvaluationFixture(t)
	req := &model.EvaluationRequest{
		SchemaVersion:   eligibility.SchemaVersion,
		Answers:         quietAnswers("CA"),
		ClientSessionID: "browser-tab-1",
	}

	first, err := f.svc.Submit(ctx, req, "")
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, req, "")
	require.NoError(t, err)

	assert.Equal(t, model.RecommendTrackForLater, first.Recommendation)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.NotEqual(t, first.ID, second.ID)

	sess, err := f.svc.Session(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.EvaluationCount)
	assert.Equal(t, "CA", sess.Jurisdiction)

	history, err := f.svc.History(ctx, first.SessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID, "newest first")
}

func TestEvaluationService_HeaderKeyWins(t *testing.T) {
	ctx := context.Background()
	f := newEvaluationFixture(t)
	req := &model.EvaluationRequest{Answers: quietAnswers("CA"), ClientSessionID: "body-key"}

	a, err := f.svc.Submit(ctx, req, "header-key")
	require.NoError(t, err)
	b, err := f.svc.Submit(ctx, req, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestEvaluationService_NoKeyOpensNewSessions(t *testing.T) {
	ctx := context.Background()
	f := newEvaluationFixture(t)
	req := &model.EvaluationRequest{Answers: quietAnswers("CA")}

	a, err := f.svc.Submit(ctx, req, "")
	require.NoError(t, err)
	b, err := f.svc.Submit(ctx, req, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestEvaluationService_IgnoresHintsEcho(t *testing.T) {
	f := newEvaluationFixture(t)
	req := &model.EvaluationRequest{
		Answers: quietAnswers("CA"),
		Hints:   &model.ConfigHints{Jurisdiction: "CA", Completeness: model.CompletenessMissing},
	}

	a, err := f.svc.Submit(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, model.CompletenessComplete, a.DataCoverage.Completeness)
}

func TestEvaluationService_UnknownJurisdictionIsNotAnError(t *testing.T) {
	f := newEvaluationFixture(t)

	a, err := f.svc.Submit(context.Background(), &model.EvaluationRequest{Answers: quietAnswers("WY")}, "")
	require.NoError(t, err)
	assert.Equal(t, model.CompletenessMissing, a.DataCoverage.Completeness)
	assert.NotEqual(t, model.ConfidenceHigh, a.Confidence)
}

func TestEvaluationService_ValidationErrorStoresNothing(t *testing.T) {
	f := newEvaluationFixture(t)
	answers := quietAnswers("CA")
	answers[model.KeyHiringIntent] = "eventually"

	_, err := f.svc.Submit(context.Background(), &model.EvaluationRequest{Answers: answers}, "k")
	var verr *eligibility.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, f.assessments.rows)
}

func TestEvaluationService_StoreOutage(t *testing.T) {
	f := newEvaluationFixture(t)
	f.rulesets.fail = true

	_, err := f.svc.Submit(context.Background(), &model.EvaluationRequest{Answers: quietAnswers("CA")}, "")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestEvaluationService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newEvaluationFixture(t)
	for _, code := range []string{"CA", "CA", "WY"} {
		_, err := f.svc.Submit(ctx, &model.EvaluationRequest{Answers: quietAnswers(code)}, "")
		require.NoError(t, err)
	}

	stats, err := f.svc.Stats(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "CA", stats[0].Jurisdiction)
	assert.Equal(t, int64(2), stats[0].Total)
	assert.Equal(t, int64(2), stats[0].Recommendations[model.RecommendTrackForLater])
}

func TestEvaluationService_HistoryUnknownSession(t *testing.T) {
	f := newEvaluationFixture(t)
	_, err := f.svc.History(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
