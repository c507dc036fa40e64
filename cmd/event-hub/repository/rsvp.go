package repository

import (
	"context"

	"event-hub-backend/cmd/event-hub/model"

	"gorm.io/gorm"
)

type RSVPRepo struct {
	db *gorm.DB
}

func NewRSVPRepo(db *gorm.DB) *RSVPRepo {
	return &RSVPRepo{
		db: db,
	}
}

// ListRSVPs returns every event with its registrations, limited to one
// department when given. Events keep their place even when nothing matches.
func (r *RSVPRepo) ListRSVPs(ctx context.Context, department string) ([]model.Event, error) {

	var events []model.Event

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Preload("RSVPs", func(db *gorm.DB) *gorm.DB {
			if department != "" {
				db = db.Where("department = ?", department)
			}
			return db.Order("id")
		}).
		Order("id").
		Find(&events)

	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (r *RSVPRepo) ListDepartments(ctx context.Context) ([]string, error) {

	departments := []string{}

	result := r.db.
		WithContext(ctx).
		Model(&model.RSVP{}).
		Where("department <> ?", "").
		Distinct().
		Order("department").
		Pluck("department", &departments)

	if result.Error != nil {
		return nil, result.Error
	}

	return departments, nil
}

// AddRSVPs appends registrations to an event without a capacity check.
func (r *RSVPRepo) AddRSVPs(ctx context.Context, eventID uint, rsvps []model.RSVP) ([]model.RSVP, error) {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return model.ErrNotFound
		}
		if len(rsvps) == 0 {
			return nil
		}

		for i := range rsvps {
			rsvps[i].ID = 0
			rsvps[i].EventID = eventID
		}

		return tx.CreateInBatches(&rsvps, 100).Error
	})
	if err != nil {
		return nil, err
	}

	return rsvps, nil
}

// CancelRSVP removes the registration and the enrollment that created it,
// with that enrollment's feedback. Unknown ids are ignored.
func (r *RSVPRepo) CancelRSVP(ctx context.Context, eventID, rsvpID uint) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rsvp model.RSVP
		result := tx.Where("id = ? AND event_id = ?", rsvpID, eventID).Limit(1).Find(&rsvp)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var enrollmentIDs []string
		if err := tx.Model(&model.Enrollment{}).Where("rsvp_id = ?", rsvp.ID).Pluck("id", &enrollmentIDs).Error; err != nil {
			return err
		}

		if len(enrollmentIDs) > 0 {
			if err := tx.Where("enrollment_id IN ?", enrollmentIDs).Delete(&model.Feedback{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", enrollmentIDs).Delete(&model.Enrollment{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&rsvp).Error
	})
}
