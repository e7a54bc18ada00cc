package entity

// Token holds a user's external-calendar refresh credential. Its presence
// means the user has authorized calendar access.
type Token struct {
	ID              int    `gorm:"primaryKey"`
	UserID          int    `gorm:"not null;uniqueIndex"` // References: users(id)
	RefreshToken    string `gorm:"not null"`
	RegisteredEmail string `gorm:"not null;default:''"`
	CreatedAt       int64  `gorm:"not null"`
}
