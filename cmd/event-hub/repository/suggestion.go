package repository

import (
	"context"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"gorm.io/gorm"
)

type SuggestionRepo struct {
	db *gorm.DB
}

func NewSuggestionRepo(db *gorm.DB) *SuggestionRepo {
	return &SuggestionRepo{
		db: db,
	}
}

func (r *SuggestionRepo) CreateSuggestion(ctx context.Context, s model.EventSuggestion) (model.EventSuggestion, error) {

	s.ID = 0
	s.Status = model.Pending
	s.ReviewedAt = nil
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}

	result := r.db.
		WithContext(ctx).
		Create(&s)

	if result.Error != nil {
		return model.EventSuggestion{}, result.Error
	}

	return s, nil
}

// ListSuggestions returns the review queue newest first, optionally limited
// to one status.
func (r *SuggestionRepo) ListSuggestions(ctx context.Context, status model.SuggestionStatus) ([]model.EventSuggestion, error) {

	suggestions := []model.EventSuggestion{}

	tx := r.db.
		WithContext(ctx).
		Model(&model.EventSuggestion{})

	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	result := tx.Order("submitted_at DESC, id DESC").Find(&suggestions)
	if result.Error != nil {
		return nil, result.Error
	}

	return suggestions, nil
}

func (r *SuggestionRepo) ListUserSuggestions(ctx context.Context, userID uint) ([]model.EventSuggestion, error) {

	suggestions := []model.EventSuggestion{}

	result := r.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC, id DESC").
		Find(&suggestions)

	if result.Error != nil {
		return nil, result.Error
	}

	return suggestions, nil
}

// ReviewSuggestion moves a pending suggestion to approved or rejected in a
// single conditional update, so only one of two racing reviews wins.
func (r *SuggestionRepo) ReviewSuggestion(ctx context.Context, id uint, to model.SuggestionStatus) (model.EventSuggestion, error) {

	if to != model.Approved && to != model.Rejected {
		return model.EventSuggestion{}, model.ErrInvalidStatus
	}

	var suggestion model.EventSuggestion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.EventSuggestion{}).
			Where("id = ? AND status = ?", id, model.Pending).
			Updates(map[string]any{
				"status":      to,
				"reviewed_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}

		if err := tx.First(&suggestion, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if result.RowsAffected == 0 {
			return model.ErrSuggestionNotPending
		}

		return nil
	})
	if err != nil {
		return model.EventSuggestion{}, err
	}

	return suggestion, nil
}
