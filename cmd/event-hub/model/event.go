package model

import "time"

type Event struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name         string     `gorm:"column:name" json:"name"`
	Date         string     `gorm:"column:date" json:"date"`
	Time         string     `gorm:"column:time" json:"time"`
	Location     string     `gorm:"column:location" json:"location"`
	Description  string     `gorm:"column:description" json:"description"`
	Speakers     string     `gorm:"column:speakers" json:"speakers"`
	Category     string     `gorm:"column:category" json:"category"`
	MaxAttendees int        `gorm:"column:max_attendees" json:"max_attendees"`
	ImageURL     string     `gorm:"column:image_url" json:"image_url,omitempty"`
	CreateDate   time.Time  `gorm:"column:create_date" json:"create_date"`
	UpdateDate   time.Time  `gorm:"column:update_date" json:"update_date"`
	RSVPs        []RSVP     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"rsvps"`
	Feedbacks    []Feedback `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"feedbacks"`
}

func (m *Event) TableName() string {
	return "events"
}

// RSVP is a registration against exactly one event. Enrollments create one
// with UserID set; imported or seeded rows have no user.
type RSVP struct {
	ID                 uint   `gorm:"column:id;primaryKey" json:"id"`
	EventID            uint   `gorm:"column:event_id;index" json:"event_id"`
	UserID             *uint  `gorm:"column:user_id" json:"user_id,omitempty"`
	Name               string `gorm:"column:name" json:"name"`
	Email              string `gorm:"column:email" json:"email"`
	Department         string `gorm:"column:department;index" json:"department"`
	DietaryPreferences string `gorm:"column:dietary_preferences" json:"dietary_preferences,omitempty"`
	RegistrationDate   string `gorm:"column:registration_date" json:"registration_date"`
}

func (m *RSVP) TableName() string {
	return "rsvps"
}

type Feedback struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID      uint      `gorm:"column:event_id;index" json:"event_id"`
	UserID       uint      `gorm:"column:user_id" json:"user_id"`
	EnrollmentID *string   `gorm:"column:enrollment_id;uniqueIndex" json:"enrollment_id,omitempty"`
	Name         string    `gorm:"column:name" json:"name"`
	Rating       int       `gorm:"column:rating" json:"rating"`
	Comment      string    `gorm:"column:comment" json:"comment"`
	SubmittedAt  time.Time `gorm:"column:submitted_at" json:"submitted_at"`
}

func (m *Feedback) TableName() string {
	return "feedbacks"
}

// CatalogEvent is the user-facing projection of an event: no nested
// registrations, just how full it is.
type CatalogEvent struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Speakers     string `json:"speakers"`
	Category     string `json:"category"`
	MaxAttendees int    `json:"max_attendees"`
	Attendees    int    `json:"attendees"`
	SpotsLeft    int    `json:"spots_left"`
	ImageURL     string `json:"image_url,omitempty"`
	Enrolled     bool   `json:"enrolled"`
}

func NewCatalogEvent(e Event) CatalogEvent {
	left := e.MaxAttendees - len(e.RSVPs)
	if left < 0 {
		left = 0
	}

	return CatalogEvent{
		ID:           e.ID,
		Name:         e.Name,
		Date:         e.Date,
		Time:         e.Time,
		Location:     e.Location,
		Description:  e.Description,
		Speakers:     e.Speakers,
		Category:     e.Category,
		MaxAttendees: e.MaxAttendees,
		Attendees:    len(e.RSVPs),
		SpotsLeft:    left,
		ImageURL:     e.ImageURL,
	}
}
