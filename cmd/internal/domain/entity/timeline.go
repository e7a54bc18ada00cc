package entity

// TimelineItem is one addressable entry of a meeting's timeline.
type TimelineItem struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Content   string `json:"content"`
}

// Timeline is the single companion timeline of a meeting: an ordered item
// list plus the set of invited guest user ids.
type Timeline struct {
	ID        int           `gorm:"primaryKey"`
	MeetingID int           `gorm:"not null;uniqueIndex"` // References: meetings(id)
	UserID    int           `gorm:"not null;index"`       // References: users(id)
	Guests    IntList       `gorm:"type:text;not null"`
	Items     TimelineItems `gorm:"type:text;not null"`
	CreatedAt int64         `gorm:"not null"`
	UpdatedAt int64         `gorm:"not null"`
}
