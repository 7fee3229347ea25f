package models

import "time"

// FeedbackStatus tracks triage of a feedback submission
type FeedbackStatus string

const (
	FeedbackStatusNew      FeedbackStatus = "new"
	FeedbackStatusReviewed FeedbackStatus = "reviewed"
)

// Feedback is a user-submitted message persisted for later review
type Feedback struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp" badgerhold:"index"`
	Message   string         `json:"message"`
	Status    FeedbackStatus `json:"status" badgerhold:"index"`
}
