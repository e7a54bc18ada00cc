package entity

// GoogleEventRef maps one internal slot (by schedule key) to the external
// calendar event mirroring it.
type GoogleEventRef struct {
	ID       string `json:"id"`
	HTMLLink string `json:"html_link"`
	Schedule string `json:"schedule"` // "<dateKey>-<timeLabel>"
}

// GoogleCalendarEvent is the zero-or-one calendar mirror of a meeting.
type GoogleCalendarEvent struct {
	ID        int             `gorm:"primaryKey"`
	MeetingID int             `gorm:"not null;uniqueIndex"` // References: meetings(id)
	Events    GoogleEventRefs `gorm:"type:text;not null"`
	CreatedAt int64           `gorm:"not null"`
}

// Find returns the ref whose schedule key matches, or nil.
func (g *GoogleCalendarEvent) Find(schedule string) *GoogleEventRef {
	for i := range g.Events {
		if g.Events[i].Schedule == schedule {
			return &g.Events[i]
		}
	}
	return nil
}
