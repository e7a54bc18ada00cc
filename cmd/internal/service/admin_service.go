package service

import (
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

const (
	defaultPage  = 1
	defaultLimit = 15
)

// Page wraps one slice of an admin listing together with the paging
// metadata the dashboard needs to render its controls.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](items []T, page, limit int, total int64) *Page[T] {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &Page[T]{Items: items, Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// DefaultAdminService serves the dashboard's paginated listings. It reads
// through the same repositories as the public surface and never mutates.
type DefaultAdminService struct {
	UserRepo     UserRepository
	MeetingRepo  MeetingRepository
	AttendeeRepo AttendeeRepository
	TimelineRepo TimelineRepository
}

func NewAdminService(
	userRepo UserRepository,
	meetingRepo MeetingRepository,
	attendeeRepo AttendeeRepository,
	timelineRepo TimelineRepository,
) *DefaultAdminService {
	return &DefaultAdminService{
		UserRepo:     userRepo,
		MeetingRepo:  meetingRepo,
		AttendeeRepo: attendeeRepo,
		TimelineRepo: timelineRepo,
	}
}

func (a *DefaultAdminService) Users(page, limit int) (*Page[*UserResponse], apierror.ErrorResponse) {
	page, limit = clampPaging(page, limit)
	users, total, err := a.UserRepo.FindPage(page, limit)
	if err != nil {
		log.Errorf("failed to page users: %v", err)
		return nil, apierror.InternalServerError
	}

	items := make([]*UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	return newPage(items, page, limit, total), nil
}

func (a *DefaultAdminService) Meetings(page, limit int) (*Page[*MeetingResponse], apierror.ErrorResponse) {
	page, limit = clampPaging(page, limit)
	meetings, total, err := a.MeetingRepo.FindPage(page, limit)
	if err != nil {
		log.Errorf("failed to page meetings: %v", err)
		return nil, apierror.InternalServerError
	}

	items := make([]*MeetingResponse, len(meetings))
	for i, meeting := range meetings {
		items[i] = toMeetingResponse(meeting)
	}
	return newPage(items, page, limit, total), nil
}

func (a *DefaultAdminService) Attendees(page, limit int) (*Page[*AttendeeResponse], apierror.ErrorResponse) {
	page, limit = clampPaging(page, limit)
	attendees, total, err := a.AttendeeRepo.FindPage(page, limit)
	if err != nil {
		log.Errorf("failed to page attendees: %v", err)
		return nil, apierror.InternalServerError
	}

	items := make([]*AttendeeResponse, len(attendees))
	for i, attendee := range attendees {
		items[i] = toAttendeeResponse(attendee)
	}
	return newPage(items, page, limit, total), nil
}

func (a *DefaultAdminService) Timelines(page, limit int) (*Page[*TimelineResponse], apierror.ErrorResponse) {
	page, limit = clampPaging(page, limit)
	timelines, total, err := a.TimelineRepo.FindPage(page, limit)
	if err != nil {
		log.Errorf("failed to page timelines: %v", err)
		return nil, apierror.InternalServerError
	}

	items := make([]*TimelineResponse, len(timelines))
	for i, timeline := range timelines {
		items[i] = toTimelineResponse(timeline)
	}
	return newPage(items, page, limit, total), nil
}
