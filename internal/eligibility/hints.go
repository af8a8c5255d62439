package eligibility

import "employercheck/internal/model"

// BuildHints derives interview hints from a ruleset without exposing any
// threshold value. A nil ruleset yields the safe defaults for a jurisdiction
// we know nothing about.
func BuildHints(jurisdiction string, rs *model.Ruleset) model.ConfigHints {
	if rs == nil {
		return model.ConfigHints{
			Jurisdiction:        jurisdiction,
			Completeness:        model.CompletenessMissing,
			AmountTimeframeMode: model.TimeframeAsk,
			NeedsWeeksQuestion:  true,
		}
	}

	completeness := rs.Completeness
	if !completeness.Valid() {
		completeness = model.CompletenessPartial
	}

	periods := make(map[model.Period]struct{})
	needsWeeks := false
	for _, b := range rs.Branches {
		if b.Wage != nil && b.Wage.Period.Valid() {
			periods[b.Wage.Period] = struct{}{}
		}
		if b.Weeks != nil {
			needsWeeks = true
		}
	}

	hints := model.ConfigHints{
		Jurisdiction:        jurisdiction,
		Completeness:        completeness,
		AmountTimeframeMode: model.TimeframeAsk,
		NeedsWeeksQuestion:  needsWeeks,
	}
	if len(periods) == 1 {
		for p := range periods {
			period := p
			hints.AmountTimeframeMode = model.TimeframeFixed
			hints.FixedAmountTimeframe = &period
		}
	}
	return hints
}
