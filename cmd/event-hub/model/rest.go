package model

import (
	"fmt"
	"strings"
)

type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type EventCreateRequest struct {
	Name         string `json:"name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Speakers     string `json:"speakers"`
	Category     string `json:"category"`
	MaxAttendees int    `json:"max_attendees"`
	ImageURL     string `json:"image_url"`
}

// Validate reports every blank required field at once so a form can
// highlight all of them.
func (r EventCreateRequest) Validate() error {
	return requireFields(
		"name", r.Name,
		"date", r.Date,
		"time", r.Time,
		"location", r.Location,
		"description", r.Description,
		"speakers", r.Speakers,
	)
}

func (r EventCreateRequest) Event() Event {
	return Event{
		Name:         strings.TrimSpace(r.Name),
		Date:         r.Date,
		Time:         r.Time,
		Location:     r.Location,
		Description:  r.Description,
		Speakers:     r.Speakers,
		Category:     r.Category,
		MaxAttendees: r.MaxAttendees,
		ImageURL:     r.ImageURL,
	}
}

type EnrollRequest struct {
	EventID uint `json:"event_id"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r FeedbackRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}

	return nil
}

type AttendanceRequest struct {
	Status EnrollmentStatus `json:"status"`
}

func (r AttendanceRequest) Validate() error {
	if r.Status != Attended && r.Status != Missed {
		return fmt.Errorf("%w: %q, want attended or missed", ErrInvalidStatus, r.Status)
	}

	return nil
}

type SendUpdateRequest struct {
	EventID uint   `json:"event_id"`
	Message string `json:"message"`
}

type SuggestionRequest struct {
	Title             string `json:"title"`
	EventType         string `json:"event_type"`
	Description       string `json:"description"`
	SuggestedDate     string `json:"suggested_date"`
	SuggestedTime     string `json:"suggested_time"`
	SuggestedLocation string `json:"suggested_location"`
	ExpectedAttendees int    `json:"expected_attendees"`
	Goals             string `json:"goals"`
	Speakers          string `json:"speakers"`
}

func (r SuggestionRequest) Validate() error {
	return requireFields(
		"title", r.Title,
		"event_type", r.EventType,
		"description", r.Description,
	)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Role      Role   `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r RegisterRequest) Validate() error {
	if err := requireFields(
		"name", r.Name,
		"email", r.Email,
		"password", r.Password,
	); err != nil {
		return err
	}

	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}

	return nil
}

type ProfileUpdateRequest struct {
	FullName           string                  `json:"full_name"`
	Phone              string                  `json:"phone"`
	Department         string                  `json:"department"`
	Designation        string                  `json:"designation"`
	DietaryPreferences string                  `json:"dietary_preferences"`
	Bio                string                  `json:"bio"`
	ProfileImage       string                  `json:"profile_image"`
	Preferences        NotificationPreferences `json:"notification_preferences"`
}

func (r ProfileUpdateRequest) Validate() error {
	return requireFields("full_name", r.FullName)
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r PasswordChangeRequest) Validate() error {
	if err := requireFields(
		"current_password", r.CurrentPassword,
		"new_password", r.NewPassword,
	); err != nil {
		return err
	}

	if r.NewPassword != r.ConfirmPassword {
		return ErrPasswordMismatch
	}

	return nil
}

// requireFields takes name/value pairs.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	return nil
}
