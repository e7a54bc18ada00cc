package repository

import (
	"errors"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (n *DefaultNoteRepository) FindByID(id int) (*entity.Note, error) {
	var note entity.Note
	err := n.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (n *DefaultNoteRepository) FindByMeetingID(meetingID int) (*entity.Note, error) {
	var note entity.Note
	err := n.db.Where("meeting_id = ?", meetingID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

func (n *DefaultNoteRepository) FindByUserID(userID int) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := n.db.Where("user_id = ?", userID).Find(&notes).Error
	return notes, err
}

func (n *DefaultNoteRepository) Save(note *entity.Note) error {
	return n.db.Save(note).Error
}

// DeleteByMeetingID removes the companion note. Safe to re-run mid-cascade.
func (n *DefaultNoteRepository) DeleteByMeetingID(meetingID int) error {
	return n.db.Where("meeting_id = ?", meetingID).Delete(&entity.Note{}).Error
}
