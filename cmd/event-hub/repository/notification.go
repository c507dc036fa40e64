package repository

import (
	"context"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepo holds the broadcast log and the per-user inboxes built
// from it.
type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{
		db: db,
	}
}

// RecordUpdate snapshots the event's current RSVP count into a new
// broadcast. Nothing is written for an unknown event.
func (r *NotificationRepo) RecordUpdate(ctx context.Context, eventID uint, message string, at time.Time) (model.EventUpdate, error) {

	var update model.EventUpdate

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			return notFound(err)
		}

		var rsvps int64
		if err := tx.Model(&model.RSVP{}).Where("event_id = ?", eventID).Count(&rsvps).Error; err != nil {
			return err
		}

		update = model.EventUpdate{
			EventID:     event.ID,
			EventName:   event.Name,
			Message:     message,
			SentAt:      at,
			SentToCount: int(rsvps),
		}

		return tx.Create(&update).Error
	})
	if err != nil {
		return model.EventUpdate{}, err
	}

	return update, nil
}

func (r *NotificationRepo) ListUpdates(ctx context.Context) ([]model.EventUpdate, error) {

	updates := []model.EventUpdate{}

	result := r.db.
		WithContext(ctx).
		Order("sent_at DESC, id DESC").
		Find(&updates)

	if result.Error != nil {
		return nil, result.Error
	}

	return updates, nil
}

func (r *NotificationRepo) UpdatesForEvents(ctx context.Context, eventIDs []uint) ([]model.EventUpdate, error) {

	updates := []model.EventUpdate{}
	if len(eventIDs) == 0 {
		return updates, nil
	}

	result := r.db.
		WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Order("sent_at, id").
		Find(&updates)

	if result.Error != nil {
		return nil, result.Error
	}

	return updates, nil
}

// Deliver materializes the update for each user and returns only the
// notifications created by this call. A user who already holds it is
// skipped.
func (r *NotificationRepo) Deliver(ctx context.Context, update model.EventUpdate, userIDs []uint) ([]model.Notification, error) {

	created := []model.Notification{}
	if len(userIDs) == 0 {
		return created, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, userID := range userIDs {
			n := model.NotificationFromUpdate(update, userID)

			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&n)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				created = append(created, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {

	result := r.db.
		WithContext(ctx).
		Create(&n)

	if result.Error != nil {
		return model.Notification{}, result.Error
	}

	return n, nil
}

// ListNotifications returns the user's notifications about the given
// events, newest first.
func (r *NotificationRepo) ListNotifications(ctx context.Context, userID uint, eventIDs []uint) ([]model.Notification, error) {

	notifications := []model.Notification{}
	if len(eventIDs) == 0 {
		return notifications, nil
	}

	result := r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id IN ?", userID, eventIDs).
		Order("date DESC, id DESC").
		Find(&notifications)

	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uint) error {

	result := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint, eventIDs []uint) (int64, error) {

	var count int64
	if len(eventIDs) == 0 {
		return count, nil
	}

	result := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND event_id IN ? AND is_read = ?", userID, eventIDs, false).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// MarkAllRead marks the user's unread notifications for the given events
// as read and reports how many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint, eventIDs []uint) (int64, error) {

	if len(eventIDs) == 0 {
		return 0, nil
	}

	result := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND event_id IN ? AND is_read = ?", userID, eventIDs, false).
		Update("is_read", true)

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
