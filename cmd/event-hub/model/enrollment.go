package model

import (
	"fmt"
	"time"
)

type EnrollmentStatus string

var (
	Upcoming EnrollmentStatus = "upcoming"
	Attended EnrollmentStatus = "attended"
	Missed   EnrollmentStatus = "missed"
)

type Enrollment struct {
	ID             string           `gorm:"column:id;primaryKey" json:"enrollment_id"`
	UserID         uint             `gorm:"column:user_id;uniqueIndex:idx_enrollment_user_event" json:"user_id"`
	EventID        uint             `gorm:"column:event_id;uniqueIndex:idx_enrollment_user_event" json:"event_id"`
	RSVPID         *uint            `gorm:"column:rsvp_id;index" json:"rsvp_id,omitempty"`
	EnrollmentDate string           `gorm:"column:enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `gorm:"column:status" json:"status"`
	CertificateURL string           `gorm:"column:certificate_url" json:"certificate_url,omitempty"`
	CreateDate     time.Time        `gorm:"column:create_date" json:"create_date"`
	Event          Event            `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Enrollment) TableName() string {
	return "enrollments"
}

// CertificatePath is where the certificate of an attended enrollment is
// served.
func CertificatePath(enrollmentID string) string {
	return fmt.Sprintf("/api/v1/user/enrollments/%s/certificate", enrollmentID)
}

type UserFeedback struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Submitted time.Time `json:"submitted"`
}

// EnrolledEvent is what a user sees in their participation tracker: the
// event as it is now plus the state of their enrollment in it.
type EnrolledEvent struct {
	CatalogEvent
	EnrollmentID   string           `json:"enrollment_id"`
	EnrollmentDate string           `json:"enrollment_date"`
	Status         EnrollmentStatus `json:"status"`
	UserFeedback   *UserFeedback    `json:"user_feedback,omitempty"`
	CertificateURL string           `json:"certificate_url,omitempty"`
}

func NewEnrolledEvent(e Enrollment, fb *Feedback) EnrolledEvent {
	ce := NewCatalogEvent(e.Event)
	ce.Enrolled = true

	out := EnrolledEvent{
		CatalogEvent:   ce,
		EnrollmentID:   e.ID,
		EnrollmentDate: e.EnrollmentDate,
		Status:         e.Status,
		CertificateURL: e.CertificateURL,
	}

	if fb != nil {
		out.UserFeedback = &UserFeedback{
			ID:        fb.ID,
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			Submitted: fb.SubmittedAt,
		}
	}

	return out
}
