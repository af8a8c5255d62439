package model

import "time"

// Session is the logical interview session that repeated submissions attach to
type Session struct {
	ID              string     `json:"id" bson:"_id"`
	IdempotencyKey  string     `json:"idempotencyKey" bson:"idempotencyKey"`
	Jurisdiction    string     `json:"jurisdiction,omitempty" bson:"jurisdiction,omitempty"`
	EvaluationCount int        `json:"evaluationCount" bson:"evaluationCount"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	LastEvaluatedAt *time.Time `json:"lastEvaluatedAt,omitempty" bson:"lastEvaluatedAt,omitempty"`
}

// InterviewDraft is the resumable state of a live interview
type InterviewDraft struct {
	SessionID    string    `json:"sessionId"`
	Jurisdiction string    `json:"jurisdiction"`
	Answers      AnswerSet `json:"answers"`
	Cursor       int       `json:"cursor"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SessionResponse is returned when a respondent session is opened
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Resumed   bool   `json:"resumed"`
}
