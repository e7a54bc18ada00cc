package repository_test

import (
	"path/filepath"
	"testing"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Meeting{},
		&entity.Attendee{},
		&entity.Note{},
		&entity.Timeline{},
		&entity.Token{},
		&entity.GoogleCalendarEvent{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *entity.User {
	t.Helper()
	now := utils.NowUTC()
	user := &entity.User{Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMeeting(t *testing.T, db *gorm.DB, userID int, title string) *entity.Meeting {
	t.Helper()
	now := utils.NowUTC()
	meeting := &entity.Meeting{
		Title:     title,
		Duration:  "30",
		EventType: "interview",
		UserID:    userID,
		Events:    entity.EventCatalog{"150126": {"9:30 PM", "10:00 PM"}},
		ExpDate:   "15-01-2026",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(meeting).Error)
	return meeting
}
