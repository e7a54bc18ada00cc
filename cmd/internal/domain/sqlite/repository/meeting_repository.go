package repository

import (
	"errors"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultMeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *DefaultMeetingRepository {
	return &DefaultMeetingRepository{db: db}
}

func (m *DefaultMeetingRepository) FindByID(id int) (*entity.Meeting, error) {
	var meeting entity.Meeting
	err := m.db.First(&meeting, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &meeting, err
}

func (m *DefaultMeetingRepository) FindByUserID(userID int) ([]*entity.Meeting, error) {
	var meetings []*entity.Meeting
	err := m.db.Where("user_id = ?", userID).Find(&meetings).Error
	return meetings, err
}

// CountByUserID is the authoritative source for a user's totalMeeting field.
func (m *DefaultMeetingRepository) CountByUserID(userID int) (int64, error) {
	var count int64
	err := m.db.Model(&entity.Meeting{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FindLatest returns the most recently created meetings for the home feed.
func (m *DefaultMeetingRepository) FindLatest(limit int) ([]*entity.Meeting, error) {
	var meetings []*entity.Meeting
	err := m.db.Order("created_at desc").Limit(limit).Find(&meetings).Error
	return meetings, err
}

// EventTypeCounts groups a user's meetings by event type.
func (m *DefaultMeetingRepository) EventTypeCounts(userID int) (map[string]int64, error) {
	type row struct {
		EventType string
		Count     int64
	}
	var rows []row
	err := m.db.Model(&entity.Meeting{}).
		Select("event_type, count(*) as count").
		Where("user_id = ?", userID).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.EventType] = r.Count
	}
	return counts, nil
}

func (m *DefaultMeetingRepository) FindPage(page, limit int) ([]*entity.Meeting, int64, error) {
	var total int64
	if err := m.db.Model(&entity.Meeting{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meetings []*entity.Meeting
	err := m.db.
		Preload("CreatedBy").
		Order("id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&meetings).Error
	return meetings, total, err
}

func (m *DefaultMeetingRepository) Save(meeting *entity.Meeting) error {
	return m.db.Save(meeting).Error
}

func (m *DefaultMeetingRepository) Delete(meeting *entity.Meeting) error {
	return m.db.Delete(meeting).Error
}
