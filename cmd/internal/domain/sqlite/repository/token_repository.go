package repository

import (
	"errors"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultTokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *DefaultTokenRepository {
	return &DefaultTokenRepository{db: db}
}

func (t *DefaultTokenRepository) FindByUserID(userID int) (*entity.Token, error) {
	var token entity.Token
	err := t.db.Where("user_id = ?", userID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &token, err
}

func (t *DefaultTokenRepository) Save(token *entity.Token) error {
	return t.db.Save(token).Error
}

// DeleteByUserID removes the user's calendar credential. Safe to re-run
// mid-cascade.
func (t *DefaultTokenRepository) DeleteByUserID(userID int) error {
	return t.db.Where("user_id = ?", userID).Delete(&entity.Token{}).Error
}
