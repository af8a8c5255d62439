package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"employercheck/internal/cache"
	"employercheck/internal/eligibility"
	"employercheck/internal/logging"
	"employercheck/internal/model"
	"employercheck/internal/telemetry"
)

// InterviewService serves hints and generated questions per jurisdiction
// and keeps interview drafts
type InterviewService struct {
	rulesets *RulesetService
	drafts   cache.DraftCache
	tracer   trace.Tracer
	log      *slog.Logger
}

// NewInterviewService creates an interview service. drafts may be nil.
func NewInterviewService(rulesets *RulesetService, drafts cache.DraftCache) *InterviewService {
	return &InterviewService{
		rulesets: rulesets,
		drafts:   drafts,
		tracer:   telemetry.Tracer("interview"),
		log:      logging.New("interview"),
	}
}

// Definition returns hints and questions for a jurisdiction code. A code with
// no ruleset, or a store that cannot be read, yields missing coverage and
// the generic questions rather than an error.
func (s *InterviewService) Definition(ctx context.Context, code string) (*model.InterviewDefinition, error) {
	ctx, span := s.tracer.Start(ctx, "interview.definition")
	defer span.End()

	code, err := eligibility.ValidateJurisdiction(model.AnswerSet{model.KeyJurisdiction: code})
	if err != nil {
		span.SetStatus(codes.Error, "invalid jurisdiction")
		return nil, err
	}
	span.SetAttributes(attribute.String("jurisdiction", code))

	rs, err := s.rulesets.Lookup(ctx, code)
	if err != nil {
		span.RecordError(err)
		s.log.Warn("ruleset lookup failed, serving generic interview", "jurisdiction", code, "error", err)
		rs = nil
	}

	hints := eligibility.BuildHints(code, rs)
	span.SetAttributes(
		attribute.String("completeness", string(hints.Completeness)),
		attribute.String("timeframe_mode", string(hints.AmountTimeframeMode)),
	)
	return &model.InterviewDefinition{
		SchemaVersion: eligibility.SchemaVersion,
		Hints:         hints,
		Questions:     eligibility.Catalog(hints),
	}, nil
}

// SaveDraft stores the interview so a new connection can pick it up
func (s *InterviewService) SaveDraft(ctx context.Context, sessionID string, iv *eligibility.Interview) error {
	if s.drafts == nil {
		return nil
	}
	draft := &model.InterviewDraft{
		SessionID:    sessionID,
		Jurisdiction: iv.Jurisdiction(),
		Answers:      iv.Answers(),
		Cursor:       iv.Cursor(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("save draft %s: %w", sessionID, err)
	}
	return nil
}

// Resume rebuilds the interview for a session from its draft, or starts a
// new one. A non-nil request means hints must be fetched.
func (s *InterviewService) Resume(ctx context.Context, sessionID string) (*eligibility.Interview, *eligibility.HintsRequest, error) {
	if s.drafts == nil {
		return eligibility.NewInterview(), nil, nil
	}
	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load draft %s: %w", sessionID, err)
	}
	if draft == nil {
		return eligibility.NewInterview(), nil, nil
	}
	iv, req := eligibility.ResumeInterview(draft.Answers, draft.Cursor)
	return iv, req, nil
}

// DiscardDraft drops a session's draft once it has been submitted
func (s *InterviewService) DiscardDraft(ctx context.Context, sessionID string) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.Delete(ctx, sessionID); err != nil {
		s.log.Warn("draft delete failed", "session_id", sessionID, "error", err)
	}
}
