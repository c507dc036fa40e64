package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/goforj/godump"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Users         []UserFixture         `yaml:"users"`
	Events        []EventFixture        `yaml:"events"`
	Enrollments   []EnrollmentFixture   `yaml:"enrollments"`
	Suggestions   []SuggestionFixture   `yaml:"suggestions"`
	Notifications []NotificationFixture `yaml:"notifications"`
}

type UserFixture struct {
	Email              string `yaml:"email"`
	Password           string `yaml:"password"`
	Role               string `yaml:"role"`
	FullName           string `yaml:"full_name"`
	Phone              string `yaml:"phone"`
	Department         string `yaml:"department"`
	Designation        string `yaml:"designation"`
	DietaryPreferences string `yaml:"dietary_preferences"`
	Bio                string `yaml:"bio"`
}

type EventFixture struct {
	ID           uint              `yaml:"id"`
	Name         string            `yaml:"name"`
	Date         string            `yaml:"date"`
	Time         string            `yaml:"time"`
	Location     string            `yaml:"location"`
	Description  string            `yaml:"description"`
	Speakers     string            `yaml:"speakers"`
	Category     string            `yaml:"category"`
	MaxAttendees int               `yaml:"max_attendees"`
	ImageURL     string            `yaml:"image_url"`
	RSVPs        []RSVPFixture     `yaml:"rsvps"`
	Feedbacks    []FeedbackFixture `yaml:"feedbacks"`
}

type RSVPFixture struct {
	Name               string `yaml:"name"`
	Email              string `yaml:"email"`
	Department         string `yaml:"department"`
	DietaryPreferences string `yaml:"dietary_preferences"`
	RegistrationDate   string `yaml:"registration_date"`
}

type FeedbackFixture struct {
	UserID      uint   `yaml:"user_id"`
	Name        string `yaml:"name"`
	Rating      int    `yaml:"rating"`
	Comment     string `yaml:"comment"`
	SubmittedAt string `yaml:"submitted_at"`
}

// EnrollmentFixture refers to its user by email since user ids are only
// known after insert.
type EnrollmentFixture struct {
	Email          string           `yaml:"email"`
	EventID        uint             `yaml:"event_id"`
	EnrollmentDate string           `yaml:"enrollment_date"`
	Status         string           `yaml:"status"`
	Feedback       *FeedbackFixture `yaml:"feedback"`
}

type SuggestionFixture struct {
	UserID            uint   `yaml:"user_id"`
	UserName          string `yaml:"user_name"`
	Title             string `yaml:"title"`
	EventType         string `yaml:"event_type"`
	Description       string `yaml:"description"`
	SuggestedDate     string `yaml:"suggested_date"`
	SuggestedTime     string `yaml:"suggested_time"`
	SuggestedLocation string `yaml:"suggested_location"`
	ExpectedAttendees int    `yaml:"expected_attendees"`
	Status            string `yaml:"status"`
	SubmittedAt       string `yaml:"submitted_at"`
}

type NotificationFixture struct {
	Email   string `yaml:"email"`
	EventID uint   `yaml:"event_id"`
	Message string `yaml:"message"`
	Date    string `yaml:"date"`
	Type    string `yaml:"type"`
	IsRead  bool   `yaml:"is_read"`
}

// Default returns the fixtures bundled with the binary.
func Default() (Fixtures, error) {
	return Parse(defaultFixtures)
}

func Parse(data []byte) (Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	return fx, nil
}

// Apply loads the fixtures into an empty database. It reports false and
// writes nothing when any event already exists.
func Apply(ctx context.Context, db *gorm.DB, fx Fixtures, log *logger.Logger) (bool, error) {

	var count int64
	if err := db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		log.Info("Skipping seed, events already present", "events", count)
		return false, nil
	}

	if log.DebugEnabled() {
		godump.Dump(fx)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := map[string]model.User{}
		for _, f := range fx.Users {
			u, err := f.user()
			if err != nil {
				return err
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", f.Email, err)
			}
			users[u.Email] = u
		}

		events := map[uint]model.Event{}
		for _, f := range fx.Events {
			e, err := f.event()
			if err != nil {
				return err
			}
			if err := tx.Create(&e).Error; err != nil {
				return fmt.Errorf("seed event %d: %w", f.ID, err)
			}
			events[e.ID] = e
		}

		for _, f := range fx.Enrollments {
			if err := f.apply(tx, users, events); err != nil {
				return err
			}
		}

		for _, f := range fx.Suggestions {
			s, err := f.suggestion()
			if err != nil {
				return err
			}
			if err := tx.Create(&s).Error; err != nil {
				return fmt.Errorf("seed suggestion %q: %w", f.Title, err)
			}
		}

		for _, f := range fx.Notifications {
			n, err := f.notification(users, events)
			if err != nil {
				return err
			}
			if err := tx.Create(&n).Error; err != nil {
				return fmt.Errorf("seed notification: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info("Seeded database",
		"users", len(fx.Users),
		"events", len(fx.Events),
		"enrollments", len(fx.Enrollments),
		"suggestions", len(fx.Suggestions),
		"notifications", len(fx.Notifications),
	)

	return true, nil
}

func (f UserFixture) user() (model.User, error) {
	role := model.Role(f.Role)
	if !role.Valid() {
		return model.User{}, fmt.Errorf("seed user %s: %w: role %q", f.Email, model.ErrInvalidStatus, f.Role)
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	return model.User{
		Email:              auth.NormalizeEmail(f.Email),
		PasswordHash:       hash,
		Role:               role,
		FullName:           f.FullName,
		Phone:              f.Phone,
		Department:         f.Department,
		Designation:        f.Designation,
		DietaryPreferences: f.DietaryPreferences,
		Bio:                f.Bio,
		Preferences:        model.DefaultNotificationPreferences(),
		CreateDate:         now,
		UpdateDate:         now,
	}, nil
}

func (f EventFixture) event() (model.Event, error) {
	now := time.Now().UTC()
	e := model.Event{
		ID:           f.ID,
		Name:         f.Name,
		Date:         f.Date,
		Time:         f.Time,
		Location:     f.Location,
		Description:  f.Description,
		Speakers:     f.Speakers,
		Category:     f.Category,
		MaxAttendees: f.MaxAttendees,
		ImageURL:     f.ImageURL,
		CreateDate:   now,
		UpdateDate:   now,
	}

	for _, r := range f.RSVPs {
		e.RSVPs = append(e.RSVPs, model.RSVP{
			Name:               r.Name,
			Email:              r.Email,
			Department:         r.Department,
			DietaryPreferences: r.DietaryPreferences,
			RegistrationDate:   r.RegistrationDate,
		})
	}

	for _, fb := range f.Feedbacks {
		at, err := parseTime(fb.SubmittedAt)
		if err != nil {
			return model.Event{}, fmt.Errorf("seed event %d feedback: %w", f.ID, err)
		}
		e.Feedbacks = append(e.Feedbacks, model.Feedback{
			UserID:      fb.UserID,
			Name:        fb.Name,
			Rating:      fb.Rating,
			Comment:     fb.Comment,
			SubmittedAt: at,
		})
	}

	return e, nil
}

// apply mirrors an enrollment into the event's RSVPs, and its feedback into
// the event's feedback, the same way a live enrollment does.
func (f EnrollmentFixture) apply(tx *gorm.DB, users map[string]model.User, events map[uint]model.Event) error {

	user, ok := users[auth.NormalizeEmail(f.Email)]
	if !ok {
		return fmt.Errorf("seed enrollment: user %s: %w", f.Email, model.ErrNotFound)
	}
	event, ok := events[f.EventID]
	if !ok {
		return fmt.Errorf("seed enrollment: event %d: %w", f.EventID, model.ErrNotFound)
	}

	status := model.EnrollmentStatus(f.Status)
	if status != model.Upcoming && status != model.Attended && status != model.Missed {
		return fmt.Errorf("seed enrollment: %w: %q", model.ErrInvalidStatus, f.Status)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	userID := user.ID
	rsvp := model.RSVP{
		EventID:            event.ID,
		UserID:             &userID,
		Name:               user.FullName,
		Email:              user.Email,
		Department:         user.Department,
		DietaryPreferences: user.DietaryPreferences,
		RegistrationDate:   f.EnrollmentDate,
	}
	if err := tx.Create(&rsvp).Error; err != nil {
		return err
	}

	enrollment := model.Enrollment{
		ID:             id.String(),
		UserID:         user.ID,
		EventID:        event.ID,
		RSVPID:         &rsvp.ID,
		EnrollmentDate: f.EnrollmentDate,
		Status:         status,
		CreateDate:     time.Now().UTC(),
	}
	if status == model.Attended {
		enrollment.CertificateURL = model.CertificatePath(enrollment.ID)
	}
	if err := tx.Omit(clause.Associations).Create(&enrollment).Error; err != nil {
		return err
	}

	if f.Feedback == nil {
		return nil
	}
	if status != model.Attended {
		return fmt.Errorf("seed enrollment for event %d: %w", f.EventID, model.ErrNotAttended)
	}

	at, err := parseTime(f.Feedback.SubmittedAt)
	if err != nil {
		return err
	}

	enrollmentID := enrollment.ID
	return tx.Create(&model.Feedback{
		EventID:      event.ID,
		UserID:       user.ID,
		EnrollmentID: &enrollmentID,
		Name:         user.FullName,
		Rating:       f.Feedback.Rating,
		Comment:      f.Feedback.Comment,
		SubmittedAt:  at,
	}).Error
}

func (f SuggestionFixture) suggestion() (model.EventSuggestion, error) {
	at, err := parseTime(f.SubmittedAt)
	if err != nil {
		return model.EventSuggestion{}, fmt.Errorf("seed suggestion %q: %w", f.Title, err)
	}

	s := model.EventSuggestion{
		UserID:            f.UserID,
		UserName:          f.UserName,
		Title:             f.Title,
		EventType:         f.EventType,
		Description:       f.Description,
		SuggestedDate:     f.SuggestedDate,
		SuggestedTime:     f.SuggestedTime,
		SuggestedLocation: f.SuggestedLocation,
		ExpectedAttendees: f.ExpectedAttendees,
		Status:            model.SuggestionStatus(f.Status),
		SubmittedAt:       at,
	}

	switch s.Status {
	case model.Pending:
	case model.Approved, model.Rejected:
		reviewed := at
		s.ReviewedAt = &reviewed
	default:
		return model.EventSuggestion{}, fmt.Errorf("seed suggestion %q: %w: %q", f.Title, model.ErrInvalidStatus, f.Status)
	}

	return s, nil
}

func (f NotificationFixture) notification(users map[string]model.User, events map[uint]model.Event) (model.Notification, error) {

	user, ok := users[auth.NormalizeEmail(f.Email)]
	if !ok {
		return model.Notification{}, fmt.Errorf("seed notification: user %s: %w", f.Email, model.ErrNotFound)
	}
	event, ok := events[f.EventID]
	if !ok {
		return model.Notification{}, fmt.Errorf("seed notification: event %d: %w", f.EventID, model.ErrNotFound)
	}

	at, err := parseTime(f.Date)
	if err != nil {
		return model.Notification{}, err
	}

	return model.Notification{
		UserID:    user.ID,
		EventID:   event.ID,
		EventName: event.Name,
		Message:   f.Message,
		Date:      at,
		IsRead:    f.IsRead,
		Type:      model.NotificationType(f.Type),
	}, nil
}

// parseTime accepts a plain date or an RFC 3339 timestamp.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}

	return t, nil
}
