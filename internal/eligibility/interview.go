package eligibility

import (
	"fmt"

	"employercheck/internal/model"
)

// HintsRequest asks the caller to fetch hints for a jurisdiction. The reply
// must be handed back to ApplyHints with the same request so a reply for a
// jurisdiction the respondent has since left can be recognized and dropped.
type HintsRequest struct {
	Jurisdiction string
	Generation   uint64
}

// State is a snapshot of the interview for display
type State struct {
	Jurisdiction    string             `json:"jurisdiction,omitempty"`
	Hints           *model.ConfigHints `json:"hints,omitempty"`
	Loading         bool               `json:"loading"`
	Questions       []model.Question   `json:"questions"`
	Cursor          int                `json:"cursor"`
	MissingRequired []string           `json:"missing_required"`
}

// Interview is one respondent's questionnaire. It is not safe for
// concurrent use; a single goroutine owns it for the life of the session.
type Interview struct {
	answers      model.AnswerSet
	jurisdiction string
	generation   uint64
	hints        *model.ConfigHints
	catalog      []model.Question
	index        int
}

// NewInterview starts an empty interview showing the base catalog
func NewInterview() *Interview {
	return &Interview{
		answers: model.AnswerSet{},
		catalog: BaseCatalog(),
	}
}

// ResumeInterview restores a saved draft. When the draft already names a
// jurisdiction the returned request must be fulfilled before the generated
// questions reappear.
func ResumeInterview(answers model.AnswerSet, cursor int) (*Interview, *HintsRequest) {
	iv := NewInterview()
	if answers != nil {
		iv.answers = answers.Clone()
	}
	iv.index = cursor
	var req *HintsRequest
	if raw, ok := iv.answers.String(model.KeyJurisdiction); ok {
		code := NormalizeJurisdiction(raw)
		iv.answers[model.KeyJurisdiction] = code
		req = iv.switchJurisdiction(code)
	}
	return iv, req
}

// SetAnswer stores one answer, or clears it when value is nil. Changing the
// jurisdiction invalidates the current hints and returns a new request;
// clearing it returns the interview to the base questions.
func (iv *Interview) SetAnswer(key string, value any) (*HintsRequest, error) {
	if key == "" {
		return nil, &ValidationError{Fields: []FieldError{{Key: key, Message: "answer key is required"}}}
	}
	switch v := value.(type) {
	case nil:
		delete(iv.answers, key)
		if key == model.KeyJurisdiction {
			iv.resetJurisdiction()
		}
		iv.clamp()
		return nil, nil
	case string, bool, []string:
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return nil, &ValidationError{Fields: []FieldError{{Key: key, Message: "list values must be strings"}}}
			}
		}
	default:
		return nil, &ValidationError{Fields: []FieldError{{Key: key, Message: fmt.Sprintf("unsupported value type %T", value)}}}
	}

	var req *HintsRequest
	if key == model.KeyJurisdiction {
		s, ok := value.(string)
		if !ok {
			return nil, &ValidationError{Fields: []FieldError{{Key: key, Message: "must be a single choice"}}}
		}
		code := NormalizeJurisdiction(s)
		value = code
		if code != iv.jurisdiction {
			req = iv.switchJurisdiction(code)
		}
	}

	iv.answers[key] = value
	iv.clamp()
	return req, nil
}

func (iv *Interview) switchJurisdiction(code string) *HintsRequest {
	iv.resetJurisdiction()
	iv.jurisdiction = code
	return &HintsRequest{Jurisdiction: code, Generation: iv.generation}
}

// resetJurisdiction drops the hints and generated questions. The generation
// bump makes any request still in flight stale.
func (iv *Interview) resetJurisdiction() {
	iv.jurisdiction = ""
	iv.generation++
	iv.hints = nil
	iv.catalog = BaseCatalog()
}

// ApplyHints installs the hints and questions fetched for req. It reports
// false and changes nothing when req is stale.
func (iv *Interview) ApplyHints(req HintsRequest, def model.InterviewDefinition) bool {
	if req.Jurisdiction != iv.jurisdiction || req.Generation != iv.generation {
		return false
	}
	if def.Hints.Jurisdiction != "" && def.Hints.Jurisdiction != req.Jurisdiction {
		return false
	}
	hints := def.Hints
	iv.hints = &hints
	iv.catalog = def.Questions
	iv.clamp()
	return true
}

// Visible returns the questions currently shown
func (iv *Interview) Visible() []model.Question {
	return Visible(iv.catalog, iv.answers)
}

// Cursor is the active position in Visible, always within bounds
func (iv *Interview) Cursor() int {
	return ClampCursor(iv.index, len(iv.Visible()))
}

// Move shifts the cursor by delta and clamps it
func (iv *Interview) Move(delta int) int {
	iv.index = ClampCursor(iv.Cursor()+delta, len(iv.Visible()))
	return iv.index
}

func (iv *Interview) clamp() {
	iv.index = ClampCursor(iv.index, len(iv.Visible()))
}

// Loading reports whether hints for the current jurisdiction are pending
func (iv *Interview) Loading() bool {
	return iv.jurisdiction != "" && iv.hints == nil
}

// Jurisdiction returns the normalized code the interview is scoped to
func (iv *Interview) Jurisdiction() string { return iv.jurisdiction }

// Hints returns the applied hints, nil while loading
func (iv *Interview) Hints() *model.ConfigHints { return iv.hints }

// Answers returns a copy of every stored answer, hidden ones included
func (iv *Interview) Answers() model.AnswerSet { return iv.answers.Clone() }

// MissingRequired lists visible required questions without an answer
func (iv *Interview) MissingRequired() []string {
	return MissingRequired(iv.Visible(), iv.answers)
}

// Ready reports whether the interview can be submitted
func (iv *Interview) Ready() bool {
	return !iv.Loading() && iv.hints != nil && len(iv.MissingRequired()) == 0
}

// Payload is the answer set to submit for evaluation, with the zero-amount
// rule applied
func (iv *Interview) Payload() model.AnswerSet {
	out := iv.answers.Clone()
	ApplyZeroAmountRule(out)
	return out
}

// State snapshots the interview
func (iv *Interview) State() State {
	missing := iv.MissingRequired()
	if missing == nil {
		missing = []string{}
	}
	return State{
		Jurisdiction:    iv.jurisdiction,
		Hints:           iv.hints,
		Loading:         iv.Loading(),
		Questions:       iv.Visible(),
		Cursor:          iv.Cursor(),
		MissingRequired: missing,
	}
}
