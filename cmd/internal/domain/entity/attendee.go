package entity

import "errors"

// ErrDuplicateAttendee signals a store-level violation of the
// (email, meeting) unique index. Double-booking prevention relies on this
// constraint being atomic, never on a read-then-write check.
var ErrDuplicateAttendee = errors.New("attendee already booked this meeting")

type Attendee struct {
	ID        int        `gorm:"primaryKey"`
	Name      string     `gorm:"not null"`
	Email     string     `gorm:"not null;uniqueIndex:idx_attendee_email_meeting"`
	MeetingID int        `gorm:"not null;uniqueIndex:idx_attendee_email_meeting;index"` // References: meetings(id)
	Slot      SlotChoice `gorm:"type:text;not null"`
	CreatedAt int64      `gorm:"not null"`

	// Relations
	Event Meeting `gorm:"foreignKey:MeetingID;references:ID"`
}
