package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepo struct {
	db *gorm.DB
	// serializes the capacity check with the insert that follows it
	mu    sync.Mutex
	newID func() (uuid.UUID, error)
	now   func() time.Time
}

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{
		db:    db,
		newID: uuid.NewV7,
		now:   time.Now,
	}
}

func (r *EnrollmentRepo) today() string {
	return r.now().UTC().Format("2006-01-02")
}

// Enroll joins user to an event and mirrors the enrollment as an RSVP built
// from the profile, both in one transaction.
func (r *EnrollmentRepo) Enroll(ctx context.Context, user model.User, eventID uint) (model.EnrolledEvent, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var enrollment model.Enrollment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			return notFound(err)
		}

		var existing int64
		if err := tx.Model(&model.Enrollment{}).
			Where("user_id = ? AND event_id = ?", user.ID, eventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return model.ErrAlreadyEnrolled
		}

		var attendees int64
		if err := tx.Model(&model.RSVP{}).Where("event_id = ?", eventID).Count(&attendees).Error; err != nil {
			return err
		}
		if event.MaxAttendees > 0 && attendees >= int64(event.MaxAttendees) {
			return model.ErrEventFull
		}

		userID := user.ID
		rsvp := model.RSVP{
			EventID:            eventID,
			UserID:             &userID,
			Name:               user.FullName,
			Email:              user.Email,
			Department:         user.Department,
			DietaryPreferences: user.DietaryPreferences,
			RegistrationDate:   r.today(),
		}
		if err := tx.Create(&rsvp).Error; err != nil {
			return err
		}

		id, err := r.newID()
		if err != nil {
			return err
		}

		enrollment = model.Enrollment{
			ID:             id.String(),
			UserID:         user.ID,
			EventID:        eventID,
			RSVPID:         &rsvp.ID,
			EnrollmentDate: r.today(),
			Status:         model.Upcoming,
			CreateDate:     r.now().UTC(),
		}
		if err := tx.Omit(clause.Associations).Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return model.ErrAlreadyEnrolled
			}
			return err
		}

		return tx.Preload("RSVPs", orderByID).First(&enrollment.Event, "id = ?", eventID).Error
	})
	if err != nil {
		return model.EnrolledEvent{}, err
	}

	return model.NewEnrolledEvent(enrollment, nil), nil
}

// Unenroll drops the enrollment with its RSVP and feedback. It is a no-op
// when the user holds no such enrollment.
func (r *EnrollmentRepo) Unenroll(ctx context.Context, userID uint, enrollmentID string) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		result := tx.Where("id = ? AND user_id = ?", enrollmentID, userID).Limit(1).Find(&enrollment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("enrollment_id = ?", enrollment.ID).Delete(&model.Feedback{}).Error; err != nil {
			return err
		}
		if enrollment.RSVPID != nil {
			if err := tx.Where("id = ?", *enrollment.RSVPID).Delete(&model.RSVP{}).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", enrollment.ID).Delete(&model.Enrollment{}).Error
	})
}

func (r *EnrollmentRepo) ListEnrollments(ctx context.Context, userID uint) ([]model.EnrolledEvent, error) {

	var enrollments []model.Enrollment

	result := r.db.
		WithContext(ctx).
		Preload("Event").
		Preload("Event.RSVPs", orderByID).
		Where("user_id = ?", userID).
		Order("create_date, id").
		Find(&enrollments)

	if result.Error != nil {
		return nil, result.Error
	}

	return r.withFeedback(ctx, enrollments)
}

func (r *EnrollmentRepo) GetEnrollment(ctx context.Context, userID uint, enrollmentID string) (model.EnrolledEvent, error) {

	var enrollment model.Enrollment

	result := r.db.
		WithContext(ctx).
		Preload("Event").
		Preload("Event.RSVPs", orderByID).
		Where("id = ? AND user_id = ?", enrollmentID, userID).
		First(&enrollment)

	if result.Error != nil {
		return model.EnrolledEvent{}, notFound(result.Error)
	}

	out, err := r.withFeedback(ctx, []model.Enrollment{enrollment})
	if err != nil {
		return model.EnrolledEvent{}, err
	}

	return out[0], nil
}

func (r *EnrollmentRepo) withFeedback(ctx context.Context, enrollments []model.Enrollment) ([]model.EnrolledEvent, error) {

	out := make([]model.EnrolledEvent, 0, len(enrollments))
	if len(enrollments) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.ID)
	}

	var feedbacks []model.Feedback
	if err := r.db.WithContext(ctx).Where("enrollment_id IN ?", ids).Find(&feedbacks).Error; err != nil {
		return nil, err
	}

	byEnrollment := make(map[string]*model.Feedback, len(feedbacks))
	for i := range feedbacks {
		if feedbacks[i].EnrollmentID != nil {
			byEnrollment[*feedbacks[i].EnrollmentID] = &feedbacks[i]
		}
	}

	for _, e := range enrollments {
		out = append(out, model.NewEnrolledEvent(e, byEnrollment[e.ID]))
	}

	return out, nil
}

// SubmitFeedback stores the one rating an attended enrollment may carry.
// Resubmitting replaces it. The row lives in the event's feedback so admin
// views see it.
func (r *EnrollmentRepo) SubmitFeedback(ctx context.Context, user model.User, enrollmentID string, req model.FeedbackRequest) (model.Feedback, error) {

	if err := req.Validate(); err != nil {
		return model.Feedback{}, err
	}

	var feedback model.Feedback

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		if err := tx.Where("id = ? AND user_id = ?", enrollmentID, user.ID).First(&enrollment).Error; err != nil {
			return notFound(err)
		}
		if enrollment.Status != model.Attended {
			return model.ErrNotAttended
		}

		result := tx.Where("enrollment_id = ?", enrollment.ID).Limit(1).Find(&feedback)
		if result.Error != nil {
			return result.Error
		}

		eid := enrollment.ID
		feedback.EventID = enrollment.EventID
		feedback.UserID = user.ID
		feedback.EnrollmentID = &eid
		feedback.Name = user.FullName
		feedback.Rating = req.Rating
		feedback.Comment = req.Comment
		feedback.SubmittedAt = r.now().UTC()

		return tx.Save(&feedback).Error
	})
	if err != nil {
		return model.Feedback{}, err
	}

	return feedback, nil
}

// MarkAttendance closes an upcoming enrollment as attended or missed.
// Attended enrollments get their certificate link.
func (r *EnrollmentRepo) MarkAttendance(ctx context.Context, enrollmentID string, status model.EnrollmentStatus) (model.Enrollment, error) {

	if err := (model.AttendanceRequest{Status: status}).Validate(); err != nil {
		return model.Enrollment{}, err
	}

	updates := map[string]any{"status": status}
	if status == model.Attended {
		updates["certificate_url"] = model.CertificatePath(enrollmentID)
	}

	var enrollment model.Enrollment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Enrollment{}).
			Where("id = ? AND status = ?", enrollmentID, model.Upcoming).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}

		if err := tx.First(&enrollment, "id = ?", enrollmentID).Error; err != nil {
			return notFound(err)
		}
		if result.RowsAffected == 0 {
			return model.ErrInvalidTransition
		}

		return nil
	})
	if err != nil {
		return model.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *EnrollmentRepo) ListEventEnrollments(ctx context.Context, eventID uint) ([]model.Enrollment, error) {

	enrollments := []model.Enrollment{}

	result := r.db.
		WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("create_date, id").
		Find(&enrollments)

	if result.Error != nil {
		return nil, result.Error
	}

	return enrollments, nil
}

func (r *EnrollmentRepo) EnrolledUserIDs(ctx context.Context, eventID uint) ([]uint, error) {

	ids := []uint{}

	result := r.db.
		WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("event_id = ?", eventID).
		Order("user_id").
		Pluck("user_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (r *EnrollmentRepo) EnrolledEventIDs(ctx context.Context, userID uint) ([]uint, error) {

	ids := []uint{}

	result := r.db.
		WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("user_id = ?", userID).
		Order("event_id").
		Pluck("event_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
