package model

// TimeframeMode says whether the interview must ask for the amount period
type TimeframeMode string

const (
	TimeframeFixed TimeframeMode = "fixed"
	TimeframeAsk   TimeframeMode = "ask"
)

// ConfigHints is the structural metadata derived from a ruleset.
// It never carries threshold values.
type ConfigHints struct {
	Jurisdiction         string        `json:"jurisdiction"`
	Completeness         Completeness  `json:"completeness"`
	AmountTimeframeMode  TimeframeMode `json:"amount_timeframe_mode"`
	FixedAmountTimeframe *Period       `json:"fixed_amount_timeframe"`
	NeedsWeeksQuestion   bool          `json:"needs_weeks_question"`
}

// InterviewDefinition is the hints+questions payload for one jurisdiction
type InterviewDefinition struct {
	SchemaVersion string      `json:"evaluator_schema_version"`
	Hints         ConfigHints `json:"hints"`
	Questions     []Question  `json:"questions"`
}
