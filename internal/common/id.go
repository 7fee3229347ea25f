package common

import (
	"github.com/google/uuid"
)

// NewFeedbackID generates a unique feedback ID with the "fb_" prefix
// Format: fb_<uuid>
func NewFeedbackID() string {
	return "fb_" + uuid.New().String()
}

// NewRequestID generates a request correlation ID
func NewRequestID() string {
	return uuid.New().String()
}
