package eligibility

import "employercheck/internal/model"

// PredicateHolds evaluates a visibility predicate against the answers.
// A nil predicate always holds.
func PredicateHolds(p *model.VisibilityPredicate, answers model.AnswerSet) bool {
	if p == nil {
		return true
	}
	for _, c := range p.All {
		if !answers.Matches(c.Key, c.Equals) {
			return false
		}
	}
	if len(p.Any) == 0 {
		return true
	}
	for _, c := range p.Any {
		if answers.Matches(c.Key, c.Equals) {
			return true
		}
	}
	return false
}

// Visible returns the questions currently shown, in catalog order.
// It is recomputed on every mutation; answering one question can reveal
// and hide others in the same step.
func Visible(catalog []model.Question, answers model.AnswerSet) []model.Question {
	out := make([]model.Question, 0, len(catalog))
	for _, q := range catalog {
		if PredicateHolds(q.VisibleIf, answers) {
			out = append(out, q)
		}
	}
	return out
}

// ClampCursor bounds index to [0, n-1]; an empty list clamps to 0
func ClampCursor(index, n int) int {
	if n <= 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// ApplyZeroAmountRule clears the amount timeframe when the amount answer is
// the zero bucket, since "none" has no period. It reports whether it changed
// anything.
func ApplyZeroAmountRule(answers model.AnswerSet) bool {
	bucket, ok := answers.String(model.KeyPaidAmountRange)
	if !ok || !Normalize(bucket, model.AxisAmount).IsZero() {
		return false
	}
	if _, present := answers[model.KeyPaidAmountTimeframe]; !present {
		return false
	}
	delete(answers, model.KeyPaidAmountTimeframe)
	return true
}

// MissingRequired lists the answer keys of visible required questions that
// have no answer. Hidden questions never count, even when required.
func MissingRequired(visible []model.Question, answers model.AnswerSet) []string {
	var missing []string
	for _, q := range visible {
		if q.Required && !answers.Answered(q.AnswerKey) {
			missing = append(missing, q.AnswerKey)
		}
	}
	return missing
}

// visibleByKey finds the visible question that writes key, if any
func visibleByKey(visible []model.Question, key string) (model.Question, bool) {
	for _, q := range visible {
		if q.AnswerKey == key {
			return q, true
		}
	}
	return model.Question{}, false
}
