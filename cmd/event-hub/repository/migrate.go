package repository

import (
	"event-hub-backend/cmd/event-hub/model"

	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&model.User{},
		&model.Event{},
		&model.RSVP{},
		&model.Feedback{},
		&model.Enrollment{},
		&model.EventSuggestion{},
		&model.EventUpdate{},
		&model.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
