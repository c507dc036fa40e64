package model

import "time"

type SuggestionStatus string

var (
	Pending  SuggestionStatus = "pending"
	Approved SuggestionStatus = "approved"
	Rejected SuggestionStatus = "rejected"
)

type EventSuggestion struct {
	ID                uint             `gorm:"column:id;primaryKey" json:"id"`
	UserID            uint             `gorm:"column:user_id;index" json:"user_id"`
	UserName          string           `gorm:"column:user_name" json:"user_name"`
	Title             string           `gorm:"column:title" json:"title"`
	EventType         string           `gorm:"column:event_type" json:"event_type"`
	Description       string           `gorm:"column:description" json:"description"`
	SuggestedDate     string           `gorm:"column:suggested_date" json:"suggested_date"`
	SuggestedTime     string           `gorm:"column:suggested_time" json:"suggested_time"`
	SuggestedLocation string           `gorm:"column:suggested_location" json:"suggested_location"`
	ExpectedAttendees int              `gorm:"column:expected_attendees" json:"expected_attendees"`
	Goals             string           `gorm:"column:goals" json:"goals"`
	Speakers          string           `gorm:"column:speakers" json:"speakers"`
	Status            SuggestionStatus `gorm:"column:status;index" json:"status"`
	SubmittedAt       time.Time        `gorm:"column:submitted_at" json:"submitted_at"`
	ReviewedAt        *time.Time       `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
}

func (m *EventSuggestion) TableName() string {
	return "event_suggestions"
}
