package eligibility

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"employercheck/internal/model"
)

const (
	// SchemaVersion is the interview/evaluation payload version
	SchemaVersion = "2024-09"
	// EvaluatorVersion is stamped on every assessment so drift can be audited
	EvaluatorVersion = "eligibility-3.2.0"
)

// Evaluator runs the decision pipeline. Its only side inputs are the clock
// and the ID source, so two runs over the same inputs differ only in those.
type Evaluator struct {
	Now   func() time.Time
	NewID func() string
}

// NewEvaluator returns an Evaluator stamping UTC wall time and random UUIDs
func NewEvaluator() *Evaluator {
	return &Evaluator{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Result is one evaluation with the intermediate values that produced it
type Result struct {
	Assessment model.Assessment
	Hints      model.ConfigHints
	Triggers   Triggers
	// Answers is the evaluated payload after normalization
	Answers model.AnswerSet
}

// Evaluate validates answers against the catalog derived from rs and
// composes an assessment. rs is the ruleset for the answered jurisdiction,
// nil when none is on file. A *ValidationError is returned for bad input;
// coverage gaps and uncertain answers are never errors.
func (e *Evaluator) Evaluate(rs *model.Ruleset, answers model.AnswerSet) (*Result, error) {
	answers = answers.Clone()

	code, err := ValidateJurisdiction(answers)
	if err != nil {
		return nil, err
	}
	answers[model.KeyJurisdiction] = code
	if rs != nil && rs.Jurisdiction != code {
		return nil, fmt.Errorf("ruleset %s does not match jurisdiction %s", rs.Jurisdiction, code)
	}

	hints := BuildHints(code, rs)
	catalog := Catalog(hints)

	ApplyZeroAmountRule(answers)
	if err := ValidateAnswers(catalog, answers); err != nil {
		return nil, err
	}

	sig := CollectSignals(hints, rs, catalog, answers)
	a := Compose(sig)
	a.ID = e.NewID()
	a.CreatedAt = e.Now()
	a.Answers = answers

	return &Result{
		Assessment: a,
		Hints:      hints,
		Triggers:   sig.Triggers,
		Answers:    answers,
	}, nil
}

// CollectSignals reduces validated answers to the composer's inputs
func CollectSignals(hints model.ConfigHints, rs *model.Ruleset, catalog []model.Question, answers model.AnswerSet) Signals {
	category := model.Category(stringAnswer(answers, model.KeyEmploymentCategory))
	visible := Visible(catalog, answers)

	s := Signals{
		Jurisdiction:       hints.Jurisdiction,
		Category:           category,
		Completeness:       hints.Completeness,
		RulesOnFile:        rs != nil && hints.Completeness != model.CompletenessMissing,
		PaidOutsidePayroll: stringAnswer(answers, model.KeyPaidOutsidePayroll),
		HiringIntent:       stringAnswer(answers, model.KeyHiringIntent),
	}
	if rs != nil {
		s.RulesetNotes = rs.Notes
	}

	s.Branch = ResolveBranch(rs, category)
	if s.Branch != nil {
		_, own := rs.Branch(category)
		s.BranchFallback = !own
	}

	s.Timeframe = amountTimeframe(visible, answers)
	amount := Normalize(stringAnswer(answers, model.KeyPaidAmountRange), model.AxisAmount)
	weeks := Normalize(stringAnswer(answers, model.KeyPaymentFrequency), model.AxisWeeks)
	s.Triggers = Classify(s.Branch, amount, s.Timeframe, weeks)
	s.AmountUnknown = amount.Unknown
	s.WeeksUnknown = weeks.Unknown

	if b := s.Branch; b != nil {
		if w := b.Wage; w != nil {
			s.TimeframeMismatch = w.Period != "" && s.Timeframe != "" && s.Timeframe != w.Period
			s.TimeframeUnknown = w.Period != "" && s.Timeframe == "" && !amount.Unknown && !amount.IsZero()
			s.AmountStraddles = !s.TimeframeMismatch && !s.TimeframeUnknown && !amount.Unknown &&
				s.Triggers.Amount == VerdictUnknown
		}
		if b.Weeks != nil {
			s.WeeksStraddles = !weeks.Unknown && s.Triggers.Weeks == VerdictUnknown
		}
	}

	if s.activity() {
		s.SameCourse = stringAnswer(answers, model.KeySameCourseOfBusiness)
		s.PaidContractor = answers.Contains(model.KeyWhoWasPaid, model.WhoPaidContractor)
		s.PaidFamilyOrFriend = answers.Contains(model.KeyWhoWasPaid, model.WhoPaidFamily) ||
			answers.Contains(model.KeyWhoWasPaid, model.WhoPaidFriend)
		s.PaidOwnerMember = answers.Contains(model.KeyWhoWasPaid, model.WhoPaidOwnerMember)
		s.PaidGigPlatform = answers.Contains(model.KeyWhoWasPaid, model.WhoPaidGigPlatform)
	}

	s.EntityElectionKey, s.EntityElectionOptions = unresolvedElection(visible, answers)
	return s
}

// amountTimeframe reconstructs the period an amount answer refers to: the
// visible amount question's fixed period first, then the timeframe answer.
func amountTimeframe(visible []model.Question, answers model.AnswerSet) model.Period {
	if q, ok := visibleByKey(visible, model.KeyPaidAmountRange); ok && q.FixedPaidAmountTimeframe != nil {
		return *q.FixedPaidAmountTimeframe
	}
	if tf := model.Period(stringAnswer(answers, model.KeyPaidAmountTimeframe)); tf.Valid() {
		return tf
	}
	return ""
}

// unresolvedElection finds a visible LLC election question left unanswered
// or answered not_sure, and returns its key with the concrete choices
func unresolvedElection(visible []model.Question, answers model.AnswerSet) (string, []model.Option) {
	for _, key := range []string{model.KeyLLCSingleTaxElection, model.KeyLLCMultiTaxElection} {
		q, ok := visibleByKey(visible, key)
		if !ok {
			continue
		}
		if v, answered := answers.String(key); answered && v != model.ValueNotSure {
			continue
		}
		var opts []model.Option
		for _, o := range q.Options {
			if o.Value != model.ValueNotSure {
				opts = append(opts, o)
			}
		}
		return key, opts
	}
	return "", nil
}

func stringAnswer(answers model.AnswerSet, key string) string {
	v, _ := answers.String(key)
	return v
}
