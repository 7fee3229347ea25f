package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
	"github.com/ternarybob/lukz/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// FeedbackStorage implements the FeedbackStorage interface for Badger
type FeedbackStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFeedbackStorage creates a new FeedbackStorage instance
func NewFeedbackStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FeedbackStorage {
	return &FeedbackStorage{
		db:     db,
		logger: logger,
	}
}

func (s *FeedbackStorage) SaveFeedback(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		return fmt.Errorf("feedback ID is required")
	}
	if err := s.db.Store().Upsert(feedback.ID, feedback); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

func (s *FeedbackStorage) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.db.Store().Get(id, &feedback)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &feedback, nil
}

// ListFeedback returns the newest submissions first; limit <= 0 returns all.
func (s *FeedbackStorage) ListFeedback(ctx context.Context, limit int) ([]*models.Feedback, error) {
	var records []models.Feedback
	query := badgerhold.Where("ID").Ne("").SortBy("Timestamp").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	result := make([]*models.Feedback, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *FeedbackStorage) UpdateFeedbackStatus(ctx context.Context, id string, status models.FeedbackStatus) error {
	feedback, err := s.GetFeedback(ctx, id)
	if err != nil {
		return err
	}
	feedback.Status = status
	if err := s.db.Store().Update(id, feedback); err != nil {
		return fmt.Errorf("failed to update feedback status: %w", err)
	}
	s.logger.Debug().Str("id", id).Str("status", string(status)).Msg("Feedback status updated")
	return nil
}
