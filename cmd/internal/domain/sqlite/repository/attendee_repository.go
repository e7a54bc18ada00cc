package repository

import (
	"errors"
	"strings"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAttendeeRepository struct {
	db *gorm.DB
}

func NewAttendeeRepository(db *gorm.DB) *DefaultAttendeeRepository {
	return &DefaultAttendeeRepository{db: db}
}

func (a *DefaultAttendeeRepository) FindByID(id int) (*entity.Attendee, error) {
	var attendee entity.Attendee
	err := a.db.First(&attendee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &attendee, err
}

func (a *DefaultAttendeeRepository) FindByMeetingID(meetingID int) ([]*entity.Attendee, error) {
	var attendees []*entity.Attendee
	err := a.db.Where("meeting_id = ?", meetingID).Find(&attendees).Error
	return attendees, err
}

// CountByMeetingID is the authoritative source for a meeting's attendee field.
func (a *DefaultAttendeeRepository) CountByMeetingID(meetingID int) (int64, error) {
	var count int64
	err := a.db.Model(&entity.Attendee{}).
		Where("meeting_id = ?", meetingID).
		Count(&count).Error
	return count, err
}

// Create inserts a reservation. The (email, meeting_id) unique index makes
// the duplicate check atomic under concurrent identical requests; a
// violation surfaces as entity.ErrDuplicateAttendee.
func (a *DefaultAttendeeRepository) Create(attendee *entity.Attendee) error {
	return mapDuplicate(a.db.Create(attendee).Error)
}

func (a *DefaultAttendeeRepository) Save(attendee *entity.Attendee) error {
	return mapDuplicate(a.db.Save(attendee).Error)
}

func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return entity.ErrDuplicateAttendee
	}
	return err
}

func (a *DefaultAttendeeRepository) Delete(attendee *entity.Attendee) error {
	return a.db.Delete(attendee).Error
}

// DeleteByMeetingID removes every reservation of a meeting. Safe to re-run
// mid-cascade.
func (a *DefaultAttendeeRepository) DeleteByMeetingID(meetingID int) error {
	return a.db.Where("meeting_id = ?", meetingID).Delete(&entity.Attendee{}).Error
}

func (a *DefaultAttendeeRepository) FindPage(page, limit int) ([]*entity.Attendee, int64, error) {
	var total int64
	if err := a.db.Model(&entity.Attendee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attendees []*entity.Attendee
	err := a.db.
		Preload("Event").
		Order("id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attendees).Error
	return attendees, total, err
}
