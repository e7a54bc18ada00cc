package sqlite

import (
	"os"
	"time"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init() (*gorm.DB, error) {
	path := os.Getenv("TIMEFORGE_DB")
	if path == "" {
		path = "./database.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Meeting{},
		&entity.Attendee{},
		&entity.Note{},
		&entity.Timeline{},
		&entity.Token{},
		&entity.GoogleCalendarEvent{},
	)
	if err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
