package repository

import (
	"errors"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultCalendarEventRepository struct {
	db *gorm.DB
}

func NewCalendarEventRepository(db *gorm.DB) *DefaultCalendarEventRepository {
	return &DefaultCalendarEventRepository{db: db}
}

func (c *DefaultCalendarEventRepository) FindByID(id int) (*entity.GoogleCalendarEvent, error) {
	var event entity.GoogleCalendarEvent
	err := c.db.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

func (c *DefaultCalendarEventRepository) FindByMeetingID(meetingID int) (*entity.GoogleCalendarEvent, error) {
	var event entity.GoogleCalendarEvent
	err := c.db.Where("meeting_id = ?", meetingID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &event, err
}

func (c *DefaultCalendarEventRepository) Save(event *entity.GoogleCalendarEvent) error {
	return c.db.Save(event).Error
}

func (c *DefaultCalendarEventRepository) Delete(event *entity.GoogleCalendarEvent) error {
	return c.db.Delete(event).Error
}

// DeleteByMeetingID removes the calendar mirror record. Safe to re-run
// mid-cascade.
func (c *DefaultCalendarEventRepository) DeleteByMeetingID(meetingID int) error {
	return c.db.Where("meeting_id = ?", meetingID).Delete(&entity.GoogleCalendarEvent{}).Error
}
