package eligibility

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"employercheck/internal/model"
)

// FieldError is a problem with one answer
type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidationError rejects a submission before it reaches the decision engine
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Key+": "+f.Message)
	}
	return "invalid answers: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(key, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Key: key, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Key < e.Fields[j].Key })
	return e
}

var jurisdictionPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// ValidateJurisdiction checks the one answer needed to look up a ruleset
func ValidateJurisdiction(answers model.AnswerSet) (string, error) {
	verr := &ValidationError{}
	raw, ok := answers.String(model.KeyJurisdiction)
	if !ok {
		verr.add(model.KeyJurisdiction, "is required")
		return "", verr.orNil()
	}
	code := NormalizeJurisdiction(raw)
	if !jurisdictionPattern.MatchString(code) {
		verr.add(model.KeyJurisdiction, "must be a two-letter code")
		return "", verr.orNil()
	}
	return code, nil
}

// ValidateAnswers checks value shapes for every answer, then option
// membership and required presence for the visible questions. Range answers
// are never rejected for their value: unrecognized buckets normalize to
// unknown.
func ValidateAnswers(catalog []model.Question, answers model.AnswerSet) error {
	verr := &ValidationError{}

	for key, v := range answers {
		switch val := v.(type) {
		case nil, string, bool, []string:
		case []any:
			for _, item := range val {
				if _, ok := item.(string); !ok {
					verr.add(key, "list values must be strings")
					break
				}
			}
		default:
			verr.add(key, "unsupported value type %T", v)
		}
	}
	if len(verr.Fields) > 0 {
		return verr.orNil()
	}

	visible := Visible(catalog, answers)
	for _, key := range MissingRequired(visible, answers) {
		verr.add(key, "is required")
	}

	for _, q := range visible {
		if !answers.Answered(q.AnswerKey) {
			continue
		}
		switch q.Kind {
		case model.KindSingleSelect:
			val, ok := answers.String(q.AnswerKey)
			if !ok {
				verr.add(q.AnswerKey, "must be a single choice")
				continue
			}
			if q.AnswerKey == model.KeyJurisdiction {
				// any well-formed code is accepted; unlisted ones have no coverage
				continue
			}
			if !hasOption(q.Options, val) {
				verr.add(q.AnswerKey, "%q is not one of the choices", val)
			}
		case model.KindMultiSelect:
			for _, val := range answers.Strings(q.AnswerKey) {
				if !hasOption(q.Options, val) {
					verr.add(q.AnswerKey, "%q is not one of the choices", val)
				}
			}
		case model.KindRange:
			if _, ok := answers.String(q.AnswerKey); !ok {
				verr.add(q.AnswerKey, "must be a single bucket")
			}
		}
	}

	return verr.orNil()
}

func hasOption(opts []model.Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
