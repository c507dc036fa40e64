package repository

import (
	"context"
	"testing"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock database: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("Failed to create GORM instance: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return gormDB, mock
}

// setupSQLite opens a private in-memory database with the full schema. One
// connection keeps every statement on the same memory database.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(gormDB))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return gormDB
}

func seedEvent(t *testing.T, repo *EventRepo, name string, maxAttendees int) model.Event {
	t.Helper()

	event, err := repo.CreateEvent(context.Background(), model.Event{
		Name:         name,
		Date:         "2025-06-10",
		Time:         "09:00 AM",
		Location:     "Tech City Hall",
		Description:  name + " description",
		Speakers:     "Dr. John Doe",
		Category:     "Conference",
		MaxAttendees: maxAttendees,
	})
	require.NoError(t, err)

	return event
}

func seedUser(t *testing.T, db *gorm.DB, email, name, department string) model.User {
	t.Helper()

	user, err := NewUserRepo(db).CreateUser(context.Background(), model.User{
		Email:      email,
		Role:       model.RoleUser,
		FullName:   name,
		Department: department,
	})
	require.NoError(t, err)

	return user
}
