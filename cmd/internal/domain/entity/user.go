package entity

type User struct {
	ID         int    `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Email      string `gorm:"uniqueIndex;not null"`
	ImgProfile *string
	ImgCover   *string
	Location   *string
	TimeZone   *string
	Desc       *string
	Phone      *string `gorm:"size:20"`

	// TotalMeeting is derived: recomputed as count(meetings where user_id)
	// after every meeting create/delete.
	TotalMeeting int `gorm:"not null;default:0"`

	// IsRefreshToken is set once a calendar refresh credential is stored.
	IsRefreshToken bool `gorm:"not null;default:false"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`
}
