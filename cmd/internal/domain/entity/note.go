package entity

// Note is the single companion note of a meeting, created empty together
// with the meeting and owned by the meeting's creator.
type Note struct {
	ID        int    `gorm:"primaryKey"`
	MeetingID int    `gorm:"not null;uniqueIndex"` // References: meetings(id)
	UserID    int    `gorm:"not null;index"`       // References: users(id)
	Content   string `gorm:"not null;default:''"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}
