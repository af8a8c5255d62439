package model

import "time"

// Recommendation is the outcome narrative selected by the composer
type Recommendation string

const (
	RecommendRegisterNow     Recommendation = "register_now"
	RecommendTrackForLater   Recommendation = "track_for_later"
	RecommendNeedsOneDetail  Recommendation = "needs_one_detail"
	RecommendNotSupportedYet Recommendation = "not_supported_yet"
	RecommendHouseholdPath   Recommendation = "household_path"
)

// Confidence is a coarse reliability label bounded by ruleset completeness
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MissingInput is a follow-up prompt for a detail the engine could not resolve
type MissingInput struct {
	Key     string   `json:"key" bson:"key"`
	Prompt  string   `json:"prompt" bson:"prompt"`
	Options []Option `json:"options,omitempty" bson:"options,omitempty"`
}

// Callout is a secondary explanatory card that does not change the recommendation
type Callout struct {
	Kind  string `json:"kind" bson:"kind"`
	Title string `json:"title" bson:"title"`
	Body  string `json:"body" bson:"body"`
}

// CTA is a call to action shown with the assessment
type CTA struct {
	Label  string `json:"label" bson:"label"`
	Action string `json:"action" bson:"action"`
}

// DataCoverage discloses how complete the rules behind an assessment were
type DataCoverage struct {
	Jurisdiction string       `json:"jurisdiction" bson:"jurisdiction"`
	Completeness Completeness `json:"completeness" bson:"completeness"`
	Caveats      []string     `json:"caveats,omitempty" bson:"caveats,omitempty"`
}

// Assessment is the immutable output of one evaluation
type Assessment struct {
	ID               string         `json:"id" bson:"_id"`
	SessionID        string         `json:"session_id,omitempty" bson:"sessionId,omitempty"`
	Recommendation   Recommendation `json:"recommendation" bson:"recommendation"`
	Confidence       Confidence     `json:"confidence" bson:"confidence"`
	Headline         string         `json:"headline" bson:"headline"`
	Subhead          string         `json:"subhead" bson:"subhead"`
	Why              []string       `json:"why" bson:"why"`
	NextSteps        []string       `json:"next_steps" bson:"nextSteps"`
	MissingInputs    []MissingInput `json:"missing_inputs,omitempty" bson:"missingInputs,omitempty"`
	Callouts         []Callout      `json:"callouts,omitempty" bson:"callouts,omitempty"`
	CTAPrimary       CTA            `json:"cta_primary" bson:"ctaPrimary"`
	CTASecondary     *CTA           `json:"cta_secondary,omitempty" bson:"ctaSecondary,omitempty"`
	DataCoverage     DataCoverage   `json:"data_coverage" bson:"dataCoverage"`
	EvaluatorVersion string         `json:"evaluator_version" bson:"evaluatorVersion"`
	CreatedAt        time.Time      `json:"created_at" bson:"createdAt"`

	// Answers is the evaluated answer snapshot, kept for audit only
	Answers AnswerSet `json:"-" bson:"answers,omitempty"`
}

// EvaluationRequest is the evaluation submission body.
// Hints is an echo from the client and is never trusted.
type EvaluationRequest struct {
	SchemaVersion   string       `json:"schema_version"`
	Hints           *ConfigHints `json:"hints,omitempty"`
	Answers         AnswerSet    `json:"answers"`
	ClientSessionID string       `json:"client_session_id,omitempty"`
}
