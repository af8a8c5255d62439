package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"employercheck/internal/cache"
	"employercheck/internal/eligibility"
	"employercheck/internal/logging"
	"employercheck/internal/model"
	"employercheck/internal/repository"
	"employercheck/internal/telemetry"
)

var ErrSessionNotFound = errors.New("session not found")

// historyLimit caps how many assessments a history read returns
const historyLimit = 50

// EvaluationService runs submissions through the engine and records the
// result against a logical session
type EvaluationService struct {
	rulesets     *RulesetService
	sessions     repository.SessionRepo
	assessments  repository.AssessmentRepo
	sessionCache cache.SessionCache
	stats        cache.StatsCache
	evaluator    *eligibility.Evaluator
	tracer       trace.Tracer
	log          *slog.Logger
}

// NewEvaluationService creates an evaluation service. sessionCache and
// stats may be nil.
func NewEvaluationService(
	rulesets *RulesetService,
	sessions repository.SessionRepo,
	assessments repository.AssessmentRepo,
	sessionCache cache.SessionCache,
	stats cache.StatsCache,
	evaluator *eligibility.Evaluator,
) *EvaluationService {
	if evaluator == nil {
		evaluator = eligibility.NewEvaluator()
	}
	return &EvaluationService{
		rulesets:     rulesets,
		sessions:     sessions,
		assessments:  assessments,
		sessionCache: sessionCache,
		stats:        stats,
		evaluator:    evaluator,
		tracer:       telemetry.Tracer("evaluation"),
		log:          logging.New("evaluation"),
	}
}

// OpenSession returns the session for an idempotency key, creating it on
// first use. An empty key always opens a new session.
func (s *EvaluationService) OpenSession(ctx context.Context, key string) (*model.Session, bool, error) {
	if key != "" && s.sessionCache != nil {
		id, err := s.sessionCache.Lookup(ctx, key)
		if err != nil {
			s.log.Warn("idempotency cache read failed", "error", err)
		} else if id != "" {
			sess, err := s.sessions.GetByID(ctx, id)
			if err != nil {
				return nil, false, fmt.Errorf("get session: %w", err)
			}
			if sess != nil {
				return sess, false, nil
			}
		}
	}

	sess, created, err := s.sessions.FindOrCreate(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("open session: %w", err)
	}
	if key != "" && s.sessionCache != nil {
		if err := s.sessionCache.Remember(ctx, key, sess.ID); err != nil {
			s.log.Warn("idempotency cache write failed", "error", err)
		}
	}
	if created {
		s.log.Info("session opened", "session_id", sess.ID)
	}
	return sess, created, nil
}

// Session returns a session by ID
func (s *EvaluationService) Session(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Submit evaluates a request and attaches the assessment to the session
// named by idempotencyKey, falling back to the request's client session ID.
// Client-supplied hints are never used.
func (s *EvaluationService) Submit(ctx context.Context, req *model.EvaluationRequest, idempotencyKey string) (*model.Assessment, error) {
	if idempotencyKey == "" {
		idempotencyKey = req.ClientSessionID
	}
	if req.SchemaVersion != "" && req.SchemaVersion != eligibility.SchemaVersion {
		s.log.Debug("schema version differs", "got", req.SchemaVersion, "want", eligibility.SchemaVersion)
	}

	a, err := s.evaluate(ctx, req.Answers, req.Hints)
	if err != nil {
		return nil, err
	}

	sess, _, err := s.OpenSession(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, sess.ID, a)
}

// SubmitForSession evaluates answers for a session that is already open
func (s *EvaluationService) SubmitForSession(ctx context.Context, sessionID string, answers model.AnswerSet) (*model.Assessment, error) {
	a, err := s.evaluate(ctx, answers, nil)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, sessionID, a)
}

func (s *EvaluationService) evaluate(ctx context.Context, answers model.AnswerSet, echo *model.ConfigHints) (*model.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.evaluate")
	defer span.End()

	code, err := eligibility.ValidateJurisdiction(answers)
	if err != nil {
		span.SetStatus(codes.Error, "invalid answers")
		return nil, err
	}
	span.SetAttributes(attribute.String("jurisdiction", code))
	if echo != nil && echo.Jurisdiction != "" && echo.Jurisdiction != code {
		s.log.Debug("ignoring stale hints echo", "echo", echo.Jurisdiction, "jurisdiction", code)
	}

	rs, err := s.rulesets.Lookup(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ruleset lookup")
		return nil, err
	}

	res, err := s.evaluator.Evaluate(rs, answers)
	if err != nil {
		span.SetStatus(codes.Error, "invalid answers")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("recommendation", string(res.Assessment.Recommendation)),
		attribute.String("confidence", string(res.Assessment.Confidence)),
		attribute.String("amount_trigger", string(res.Triggers.Amount)),
		attribute.String("weeks_trigger", string(res.Triggers.Weeks)),
	)
	a := res.Assessment
	return &a, nil
}

func (s *EvaluationService) record(ctx context.Context, sessionID string, a *model.Assessment) (*model.Assessment, error) {
	a.SessionID = sessionID
	if err := s.assessments.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}
	if err := s.sessions.RecordEvaluation(ctx, sessionID, a.DataCoverage.Jurisdiction, a.CreatedAt); err != nil {
		s.log.Warn("session update failed", "session_id", sessionID, "error", err)
	}
	if s.stats != nil {
		if err := s.stats.Record(ctx, a.DataCoverage.Jurisdiction, a.Recommendation); err != nil {
			s.log.Warn("stats update failed", "error", err)
		}
	}
	s.log.Info("assessment recorded",
		"session_id", sessionID,
		"assessment_id", a.ID,
		"jurisdiction", a.DataCoverage.Jurisdiction,
		"recommendation", a.Recommendation,
		"confidence", a.Confidence,
	)
	return a, nil
}

// History returns a session's assessments, newest first
func (s *EvaluationService) History(ctx context.Context, sessionID string) ([]*model.Assessment, error) {
	if _, err := s.Session(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.assessments.ListBySession(ctx, sessionID, historyLimit)
}

// Stats returns evaluation counts for the busiest jurisdictions
func (s *EvaluationService) Stats(ctx context.Context, limit int) ([]cache.JurisdictionStats, error) {
	if s.stats == nil {
		return []cache.JurisdictionStats{}, nil
	}
	return s.stats.Top(ctx, limit)
}
