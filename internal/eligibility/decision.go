package eligibility

import "employercheck/internal/model"

// Verdict is the tri-state result of comparing an answer against a threshold
type Verdict string

const (
	VerdictMet     Verdict = "met"
	VerdictNotMet  Verdict = "not_met"
	VerdictUnknown Verdict = "unknown"
)

// Triggers holds one verdict per threshold type
type Triggers struct {
	Amount Verdict `json:"amount_trigger"`
	Weeks  Verdict `json:"weeks_trigger"`
}

// Any reports whether either trigger is met
func (t Triggers) Any() bool {
	return t.Amount == VerdictMet || t.Weeks == VerdictMet
}

// NoneMet reports whether both triggers are definitively not met
func (t Triggers) NoneMet() bool {
	return t.Amount == VerdictNotMet && t.Weeks == VerdictNotMet
}

// CompareInterval classifies iv against threshold t.
// min >= t is met, a bounded max < t is not met, anything else straddles t.
func CompareInterval(iv Interval, t float64) Verdict {
	if iv.Unknown || iv.Min == nil {
		return VerdictUnknown
	}
	if *iv.Min >= t {
		return VerdictMet
	}
	if iv.Max != nil && *iv.Max < t {
		return VerdictNotMet
	}
	return VerdictUnknown
}

// ResolveBranch picks the branch for category, falling back to general.
// It returns nil when neither exists.
func ResolveBranch(rs *model.Ruleset, category model.Category) *model.LiabilityBranch {
	if b, ok := rs.Branch(category); ok {
		return b
	}
	if b, ok := rs.Branch(model.CategoryGeneral); ok {
		return b
	}
	return nil
}

// Classify produces the amount and weeks verdicts for one branch.
// timeframe is the period the amount answer refers to, empty when unknown.
// A timeframe that disagrees with the threshold's period is never converted,
// and an unknown timeframe only classifies a zero amount.
func Classify(branch *model.LiabilityBranch, amount Interval, timeframe model.Period, weeks Interval) Triggers {
	out := Triggers{Amount: VerdictUnknown, Weeks: VerdictUnknown}
	if branch == nil {
		return out
	}

	if w := branch.Wage; w != nil {
		sameBasis := w.Period == "" || timeframe == w.Period || (timeframe == "" && amount.IsZero())
		if sameBasis {
			out.Amount = CompareInterval(amount, w.Amount)
		}
	}

	if wk := branch.Weeks; wk != nil {
		out.Weeks = CompareInterval(weeks, float64(wk.Count))
	}

	return out
}
