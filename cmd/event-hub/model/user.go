package model

import "time"

type Role string

var (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type NotificationPreferences struct {
	Email            bool `gorm:"column:email" json:"email"`
	InApp            bool `gorm:"column:in_app" json:"in_app"`
	EventReminders   bool `gorm:"column:event_reminders" json:"event_reminders"`
	FeedbackRequests bool `gorm:"column:feedback_requests" json:"feedback_requests"`
	Newsletter       bool `gorm:"column:newsletter" json:"newsletter"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Email:            true,
		InApp:            true,
		EventReminders:   true,
		FeedbackRequests: true,
	}
}

type User struct {
	ID                 uint                    `gorm:"column:id;primaryKey" json:"id"`
	Email              string                  `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash       string                  `gorm:"column:password_hash" json:"-"`
	Role               Role                    `gorm:"column:role" json:"role"`
	FullName           string                  `gorm:"column:full_name" json:"full_name"`
	Phone              string                  `gorm:"column:phone" json:"phone"`
	Department         string                  `gorm:"column:department" json:"department"`
	Designation        string                  `gorm:"column:designation" json:"designation"`
	DietaryPreferences string                  `gorm:"column:dietary_preferences" json:"dietary_preferences"`
	Bio                string                  `gorm:"column:bio" json:"bio"`
	ProfileImage       string                  `gorm:"column:profile_image" json:"profile_image"`
	Preferences        NotificationPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"notification_preferences"`
	CreateDate         time.Time               `gorm:"column:create_date" json:"create_date"`
	UpdateDate         time.Time               `gorm:"column:update_date" json:"update_date"`
}

func (m *User) TableName() string {
	return "users"
}
