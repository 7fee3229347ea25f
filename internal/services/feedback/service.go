// Package feedback records user feedback submissions.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/common"
	"github.com/ternarybob/lukz/internal/interfaces"
	"github.com/ternarybob/lukz/internal/models"
)

// ErrEmptyMessage is returned when a message is blank after sanitising
var ErrEmptyMessage = errors.New("message is required")

// Service sanitises and persists feedback
type Service struct {
	storage interfaces.FeedbackStorage
	logger  arbor.ILogger
	now     func() time.Time
}

// NewService creates a feedback service backed by storage
func NewService(storage interfaces.FeedbackStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit stores message as a new feedback record and returns it
func (s *Service) Submit(ctx context.Context, message string) (*models.Feedback, error) {
	cleaned := common.SanitizeInput(message)
	if cleaned == "" {
		return nil, ErrEmptyMessage
	}

	record := &models.Feedback{
		ID:        common.NewFeedbackID(),
		Timestamp: s.now().UTC(),
		Message:   cleaned,
		Status:    models.FeedbackStatusNew,
	}
	if err := s.storage.SaveFeedback(ctx, record); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save feedback")
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	s.logger.Info().Str("id", record.ID).Int("length", len(cleaned)).Msg("Feedback received")
	return record, nil
}

// List returns the newest feedback records, up to limit
func (s *Service) List(ctx context.Context, limit int) ([]*models.Feedback, error) {
	return s.storage.ListFeedback(ctx, limit)
}

// MarkReviewed flags a record as triaged
func (s *Service) MarkReviewed(ctx context.Context, id string) error {
	return s.storage.UpdateFeedbackStatus(ctx, id, models.FeedbackStatusReviewed)
}
