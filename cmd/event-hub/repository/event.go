package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"gorm.io/gorm"
)

type EventRepo struct {
	db *gorm.DB
	// serializes max(id)+1 assignment
	mu sync.Mutex
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{
		db: db,
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *EventRepo) ListEvents(ctx context.Context) ([]model.Event, error) {

	var events []model.Event

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Preload("RSVPs", orderByID).
		Preload("Feedbacks", orderByID).
		Order("id").
		Find(&events)

	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchEvents filters by a case-insensitive match on name or description
// and an exact category. Empty arguments do not filter.
func (r *EventRepo) SearchEvents(ctx context.Context, query, category string) ([]model.Event, error) {

	var events []model.Event

	tx := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Preload("RSVPs", orderByID)

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		tx = tx.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	result := tx.Order("id").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (r *EventRepo) GetEvent(ctx context.Context, id uint) (model.Event, error) {

	var event model.Event

	result := r.db.
		WithContext(ctx).
		Preload("RSVPs", orderByID).
		Preload("Feedbacks", orderByID).
		First(&event, "id = ?", id)

	if result.Error != nil {
		return model.Event{}, notFound(result.Error)
	}

	return event, nil
}

func (r *EventRepo) ListCategories(ctx context.Context) ([]string, error) {

	categories := []string{}

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("category <> ?", "").
		Distinct().
		Order("category").
		Pluck("category", &categories)

	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

// CreateEvent assigns the next id, one past the current maximum, and stores
// the event with no registrations or feedback.
func (r *EventRepo) CreateEvent(ctx context.Context, event model.Event) (model.Event, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	event.RSVPs = []model.RSVP{}
	event.Feedbacks = []model.Feedback{}
	event.CreateDate = now
	event.UpdateDate = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&model.Event{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}

		event.ID = uint(maxID) + 1

		return tx.Create(&event).Error
	})
	if err != nil {
		return model.Event{}, err
	}

	return event, nil
}

// UpdateEvent replaces the editable fields. Registrations and feedback are
// left as they are.
func (r *EventRepo) UpdateEvent(ctx context.Context, id uint, event model.Event) (model.Event, error) {

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":          event.Name,
			"date":          event.Date,
			"time":          event.Time,
			"location":      event.Location,
			"description":   event.Description,
			"speakers":      event.Speakers,
			"category":      event.Category,
			"max_attendees": event.MaxAttendees,
			"image_url":     event.ImageURL,
			"update_date":   time.Now().UTC(),
		})

	if result.Error != nil {
		return model.Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.Event{}, model.ErrNotFound
	}

	return r.GetEvent(ctx, id)
}

func (r *EventRepo) SetImage(ctx context.Context, id uint, imageURL string) error {

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"image_url":   imageURL,
			"update_date": time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}

// DeleteEvent removes the event with its registrations, feedback,
// enrollments, broadcasts and notifications. Deleting an unknown id does
// nothing. Ids are reused, so nothing may outlive the event.
func (r *EventRepo) DeleteEvent(ctx context.Context, id uint) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&model.Feedback{},
			&model.Notification{},
			&model.EventUpdate{},
			&model.Enrollment{},
			&model.RSVP{},
		} {
			if err := tx.Where("event_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(&model.Event{}).Error
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}
