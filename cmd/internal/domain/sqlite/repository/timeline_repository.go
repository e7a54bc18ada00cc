package repository

import (
	"errors"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultTimelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) *DefaultTimelineRepository {
	return &DefaultTimelineRepository{db: db}
}

func (t *DefaultTimelineRepository) FindByID(id int) (*entity.Timeline, error) {
	var timeline entity.Timeline
	err := t.db.First(&timeline, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &timeline, err
}

func (t *DefaultTimelineRepository) FindByMeetingID(meetingID int) (*entity.Timeline, error) {
	var timeline entity.Timeline
	err := t.db.Where("meeting_id = ?", meetingID).First(&timeline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &timeline, err
}

func (t *DefaultTimelineRepository) FindByUserID(userID int) ([]*entity.Timeline, error) {
	var timelines []*entity.Timeline
	err := t.db.Where("user_id = ?", userID).Find(&timelines).Error
	return timelines, err
}

func (t *DefaultTimelineRepository) Save(timeline *entity.Timeline) error {
	return t.db.Save(timeline).Error
}

// DeleteByMeetingID removes the companion timeline. Safe to re-run
// mid-cascade.
func (t *DefaultTimelineRepository) DeleteByMeetingID(meetingID int) error {
	return t.db.Where("meeting_id = ?", meetingID).Delete(&entity.Timeline{}).Error
}

func (t *DefaultTimelineRepository) FindPage(page, limit int) ([]*entity.Timeline, int64, error) {
	var total int64
	if err := t.db.Model(&entity.Timeline{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var timelines []*entity.Timeline
	err := t.db.
		Order("id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&timelines).Error
	return timelines, total, err
}
