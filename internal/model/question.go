package model

// QuestionKind defines how a question is answered
type QuestionKind string

const (
	KindLeadCapture  QuestionKind = "lead_capture"  // Free-form contact field, never gates
	KindSingleSelect QuestionKind = "single_select" // One option
	KindMultiSelect  QuestionKind = "multi_select"  // Any subset of options
	KindRange        QuestionKind = "range"         // One bucket of a numeric axis
)

// Axis names the numeric dimension a range question measures
type Axis string

const (
	AxisAmount Axis = "amount"
	AxisWeeks  Axis = "weeks"
)

// Option is a selectable choice
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RangeBucket is a choice that stands for a numeric interval.
// A nil Max is open above; the not_sure bucket has no bounds at all.
type RangeBucket struct {
	Value string   `json:"value"`
	Label string   `json:"label"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// Condition is an equality check against a prior answer
type Condition struct {
	Key    string `json:"key"`
	Equals string `json:"equals"`
}

// VisibilityPredicate shows a question when every All condition holds
// and, if Any is non-empty, at least one Any condition holds
type VisibilityPredicate struct {
	All []Condition `json:"all,omitempty"`
	Any []Condition `json:"any,omitempty"`
}

// Question is one step of the interview
type Question struct {
	ID        string               `json:"id"`
	Kind      QuestionKind         `json:"kind"`
	AnswerKey string               `json:"answer_key"`
	Prompt    string               `json:"prompt"`
	Help      string               `json:"help,omitempty"`
	Required  bool                 `json:"required"`
	Options   []Option             `json:"options,omitempty"`
	Buckets   []RangeBucket        `json:"buckets,omitempty"`
	Axis      Axis                 `json:"axis,omitempty"`
	VisibleIf *VisibilityPredicate `json:"visible_when,omitempty"`

	// FixedPaidAmountTimeframe records which period an amount answer refers to
	// when the timeframe question itself is not asked
	FixedPaidAmountTimeframe *Period `json:"fixed_paid_amount_timeframe,omitempty"`
}
