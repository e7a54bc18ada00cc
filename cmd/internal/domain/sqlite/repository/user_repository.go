package repository

import (
	"errors"

	"timeforge/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id int) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// Search matches users by name or email fragment, case-insensitive. Used by
// the timeline guest picker.
func (u *DefaultUserRepository) Search(text string) ([]*entity.User, error) {
	var users []*entity.User
	pattern := "%" + text + "%"
	err := u.db.
		Where("name LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE", pattern, pattern).
		Find(&users).Error
	return users, err
}

func (u *DefaultUserRepository) FindPage(page, limit int) ([]*entity.User, int64, error) {
	var total int64
	if err := u.db.Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*entity.User
	err := u.db.
		Order("id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}

func (u *DefaultUserRepository) Delete(user *entity.User) error {
	return u.db.Delete(user).Error
}
