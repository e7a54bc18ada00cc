package entity

type Meeting struct {
	ID        int    `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Duration  string `gorm:"not null"` // minutes, numeric string
	EventType string `gorm:"not null"`
	Desc      *string
	UserID    int          `gorm:"not null;index"` // References: users(id)
	Events    EventCatalog `gorm:"type:text;not null"`
	Camera    bool         `gorm:"not null"`
	Mic       bool         `gorm:"not null"`
	Offline   bool         `gorm:"not null"`

	// Attendee is derived: recomputed as count(attendees where meeting_id)
	// after every booking or cancellation.
	Attendee int `gorm:"not null;default:0"`

	// IsNote is derived: true while the companion note has content.
	IsNote bool `gorm:"not null;default:false"`

	// ExpDate holds the chronologically latest date key of Events,
	// formatted DD-MM-YYYY. Computed at creation.
	ExpDate string `gorm:"not null"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`

	// Relations
	CreatedBy User `gorm:"foreignKey:UserID;references:ID"`
}
