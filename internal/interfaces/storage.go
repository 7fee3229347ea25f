package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/lukz/internal/models"
)

// ErrFeedbackNotFound is returned when a feedback record does not exist
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackStorage persists user feedback submissions
type FeedbackStorage interface {
	SaveFeedback(ctx context.Context, feedback *models.Feedback) error
	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)
	ListFeedback(ctx context.Context, limit int) ([]*models.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, id string, status models.FeedbackStatus) error
}

// StorageManager owns the database connection and the storages built on it
type StorageManager interface {
	FeedbackStorage() FeedbackStorage
	Close() error
}
