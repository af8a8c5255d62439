package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"employercheck/internal/cache"
	"employercheck/internal/eligibility"
	"employercheck/internal/logging"
	"employercheck/internal/model"
	"employercheck/internal/repository"
)

var (
	ErrRulesetNotFound = errors.New("ruleset not found")
	ErrInvalidRuleset  = errors.New("invalid ruleset")
)

// RulesetService reads rulesets for the engine and manages them for admins
type RulesetService struct {
	repo  repository.RulesetRepo
	cache cache.RulesetCache
	group singleflight.Group
	log   *slog.Logger
}

// NewRulesetService creates a ruleset service. rulesetCache may be nil.
func NewRulesetService(repo repository.RulesetRepo, rulesetCache cache.RulesetCache) *RulesetService {
	return &RulesetService{
		repo:  repo,
		cache: rulesetCache,
		log:   logging.New("rulesets"),
	}
}

// Lookup returns the ruleset for a jurisdiction, or nil when none is on
// file. Concurrent lookups for one jurisdiction share a single store read.
func (s *RulesetService) Lookup(ctx context.Context, jurisdiction string) (*model.Ruleset, error) {
	if s.cache != nil {
		rs, hit, err := s.cache.Get(ctx, jurisdiction)
		if err != nil {
			s.log.Warn("ruleset cache read failed", "jurisdiction", jurisdiction, "error", err)
		} else if hit {
			return rs, nil
		}
	}

	v, err, _ := s.group.Do(jurisdiction, func() (any, error) {
		rs, err := s.repo.Get(ctx, jurisdiction)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, jurisdiction, rs); err != nil {
				s.log.Warn("ruleset cache write failed", "jurisdiction", jurisdiction, "error", err)
			}
		}
		return rs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", jurisdiction, err)
	}
	rs, _ := v.(*model.Ruleset)
	return rs, nil
}

// Get returns a ruleset for administration, bypassing the cache
func (s *RulesetService) Get(ctx context.Context, jurisdiction string) (*model.Ruleset, error) {
	rs, err := s.repo.Get(ctx, eligibility.NormalizeJurisdiction(jurisdiction))
	if err != nil {
		return nil, err
	}
	if rs == nil {
		return nil, ErrRulesetNotFound
	}
	return rs, nil
}

// List returns every ruleset ordered by jurisdiction
func (s *RulesetService) List(ctx context.Context) ([]*model.Ruleset, error) {
	return s.repo.List(ctx)
}

// Put validates and stores a ruleset, then drops any cached copy
func (s *RulesetService) Put(ctx context.Context, rs *model.Ruleset) error {
	rs.Jurisdiction = eligibility.NormalizeJurisdiction(rs.Jurisdiction)
	if err := ValidateRuleset(rs); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, rs); err != nil {
		return fmt.Errorf("store ruleset %s: %w", rs.Jurisdiction, err)
	}
	s.invalidate(ctx, rs.Jurisdiction)
	s.log.Info("ruleset stored", "jurisdiction", rs.Jurisdiction, "completeness", rs.Completeness, "branches", len(rs.Branches))
	return nil
}

// Delete removes a ruleset; the jurisdiction then degrades to missing coverage
func (s *RulesetService) Delete(ctx context.Context, jurisdiction string) error {
	jurisdiction = eligibility.NormalizeJurisdiction(jurisdiction)
	deleted, err := s.repo.Delete(ctx, jurisdiction)
	if err != nil {
		return fmt.Errorf("delete ruleset %s: %w", jurisdiction, err)
	}
	if !deleted {
		return ErrRulesetNotFound
	}
	s.invalidate(ctx, jurisdiction)
	s.log.Info("ruleset deleted", "jurisdiction", jurisdiction)
	return nil
}

func (s *RulesetService) invalidate(ctx context.Context, jurisdiction string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, jurisdiction); err != nil {
		s.log.Warn("ruleset cache invalidate failed", "jurisdiction", jurisdiction, "error", err)
	}
}

// maxWeeks is the most weeks a calendar year can contain
const maxWeeks = 53

// ValidateRuleset checks a ruleset before it is stored. Errors wrap
// ErrInvalidRuleset.
func ValidateRuleset(rs *model.Ruleset) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidRuleset, fmt.Sprintf(format, args...))
	}

	if rs == nil {
		return invalid("empty")
	}
	if !eligibility.KnownJurisdiction(rs.Jurisdiction) {
		return invalid("unknown jurisdiction %q", rs.Jurisdiction)
	}
	if !rs.Completeness.Valid() {
		return invalid("completeness %q", rs.Completeness)
	}
	for category, b := range rs.Branches {
		if !category.Valid() {
			return invalid("unknown category %q", category)
		}
		if w := b.Wage; w != nil {
			if w.Amount <= 0 {
				return invalid("%s: wage threshold must be positive", category)
			}
			if w.Period != "" && !w.Period.Valid() {
				return invalid("%s: wage period %q", category, w.Period)
			}
		}
		if wk := b.Weeks; wk != nil && (wk.Count < 0 || wk.Count > maxWeeks) {
			return invalid("%s: weeks threshold %d out of range", category, wk.Count)
		}
	}
	return nil
}
