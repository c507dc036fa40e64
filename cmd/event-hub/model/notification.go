package model

import "time"

type NotificationType string

var (
	UpdateNotification   NotificationType = "update"
	ReminderNotification NotificationType = "reminder"
	ChangeNotification   NotificationType = "change"
)

// EventUpdate is an admin broadcast. SentToCount is the RSVP count at the
// moment it was sent and never changes afterwards.
type EventUpdate struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	EventID     uint      `gorm:"column:event_id;index" json:"event_id"`
	EventName   string    `gorm:"column:event_name" json:"event_name"`
	Message     string    `gorm:"column:message" json:"message"`
	SentAt      time.Time `gorm:"column:sent_at" json:"sent_at"`
	SentToCount int       `gorm:"column:sent_to_count" json:"sent_to_count"`
}

func (m *EventUpdate) TableName() string {
	return "event_updates"
}

type Notification struct {
	ID        uint             `gorm:"column:id;primaryKey" json:"id"`
	UserID    uint             `gorm:"column:user_id;uniqueIndex:idx_notification_user_update" json:"user_id"`
	UpdateID  *uint            `gorm:"column:update_id;uniqueIndex:idx_notification_user_update" json:"update_id,omitempty"`
	EventID   uint             `gorm:"column:event_id;index" json:"event_id"`
	EventName string           `gorm:"column:event_name" json:"event_name"`
	Message   string           `gorm:"column:message" json:"message"`
	Date      time.Time        `gorm:"column:date" json:"date"`
	IsRead    bool             `gorm:"column:is_read" json:"is_read"`
	Type      NotificationType `gorm:"column:type" json:"type,omitempty"`
}

func (m *Notification) TableName() string {
	return "notifications"
}

// NotificationFromUpdate materializes a broadcast for one recipient.
func NotificationFromUpdate(u EventUpdate, userID uint) Notification {
	id := u.ID
	return Notification{
		UserID:    userID,
		UpdateID:  &id,
		EventID:   u.EventID,
		EventName: u.EventName,
		Message:   u.Message,
		Date:      u.SentAt,
		Type:      UpdateNotification,
	}
}
