package service

import (
	"context"
	"errors"
	"strings"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AttendeeRepository interface {
	FindByID(id int) (*entity.Attendee, error)
	FindByMeetingID(meetingID int) ([]*entity.Attendee, error)
	CountByMeetingID(meetingID int) (int64, error)
	Create(attendee *entity.Attendee) error
	Save(attendee *entity.Attendee) error
	Delete(attendee *entity.Attendee) error
	DeleteByMeetingID(meetingID int) error
	FindPage(page, limit int) ([]*entity.Attendee, int64, error)
}

type BookingRequest struct {
	Name      string `json:"name" validate:"required,max=80"`
	Email     string `json:"email" validate:"required,email"`
	EventID   int    `json:"event" validate:"required"`
	DateKey   string `json:"date_key" validate:"required,datekey"`
	TimeLabel string `json:"time_label" validate:"required,timelabel"`
}

type UpdateAttendeeRequest struct {
	Name  string `json:"name" validate:"omitempty,max=80"`
	Email string `json:"email" validate:"omitempty,email"`
}

type AttendeeResponse struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	EventID   int               `json:"event"`
	Slot      entity.SlotChoice `json:"slot"`
	CreatedAt string            `json:"created_at"`
}

// BookingResponse reports the committed reservation. CalendarWarning holds
// a best-effort mirroring failure; it never signals booking failure.
type BookingResponse struct {
	Attendee        *AttendeeResponse `json:"attendee"`
	HTMLLink        string            `json:"html_link,omitempty"`
	CalendarWarning string            `json:"calendar_warning,omitempty"`
}

type DefaultBookingService struct {
	MeetingRepo       MeetingRepository
	AttendeeRepo      AttendeeRepository
	CalendarEventRepo CalendarEventRepository
	Propagator        *DefaultPropagationService
	Calendar          CalendarGateway
	Validate          *validator.Validate
}

func NewBookingService(
	meetingRepo MeetingRepository,
	attendeeRepo AttendeeRepository,
	calendarEventRepo CalendarEventRepository,
	propagator *DefaultPropagationService,
	calendar CalendarGateway,
	validate *validator.Validate,
) *DefaultBookingService {
	return &DefaultBookingService{
		MeetingRepo:       meetingRepo,
		AttendeeRepo:      attendeeRepo,
		CalendarEventRepo: calendarEventRepo,
		Propagator:        propagator,
		Calendar:          calendar,
		Validate:          validate,
	}
}

// BookSlot reserves one offered slot for an attendee. Duplicate rejection
// rides on the store's (email, meeting) unique index, so two concurrent
// identical requests cannot both commit. Calendar mirroring runs after the
// commit and can only degrade the response to a partial success.
func (b *DefaultBookingService) BookSlot(ctx context.Context, req *BookingRequest) (*BookingResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := b.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	req.Email = strings.ToLower(req.Email)

	meeting, err := b.MeetingRepo.FindByID(req.EventID)
	if err != nil {
		log.Errorf("failed to fetch meeting %d: %v", req.EventID, err)
		return nil, apierror.InternalServerError
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}

	if !meeting.Events.Offers(req.DateKey, req.TimeLabel) {
		return nil, apierror.NewSlotNotOfferedError(req.DateKey, req.TimeLabel)
	}

	attendee := &entity.Attendee{
		Name:      req.Name,
		Email:     req.Email,
		MeetingID: meeting.ID,
		Slot:      entity.SlotFor(req.DateKey, req.TimeLabel),
		CreatedAt: utils.NowUTC(),
	}

	err = b.AttendeeRepo.Create(attendee)
	if errors.Is(err, entity.ErrDuplicateAttendee) {
		return nil, apierror.NewConflictError(req.Email)
	}
	if err != nil {
		log.Errorf("failed to save attendee for meeting %d: %v", meeting.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := &BookingResponse{Attendee: toAttendeeResponse(attendee)}

	if err := b.Propagator.RecomputeAttendeeCount(meeting.ID); err != nil {
		// The reservation is committed; the counter self-heals on the next
		// recompute trigger.
		log.Errorf("attendee recount for meeting %d failed: %v", meeting.ID, err)
	}

	link, warn := b.mirrorAdd(ctx, meeting, attendee)
	resp.HTMLLink = link
	resp.CalendarWarning = warn
	return resp, nil
}

// mirrorAdd appends the attendee to the matching external event, if the
// meeting is mirrored and the owner authorized calendar access. Any failure
// is returned as a warning string.
func (b *DefaultBookingService) mirrorAdd(ctx context.Context, meeting *entity.Meeting, attendee *entity.Attendee) (link, warn string) {
	schedule, ok := attendee.Slot.ScheduleKey()
	if !ok {
		return "", ""
	}

	mirror, err := b.CalendarEventRepo.FindByMeetingID(meeting.ID)
	if err != nil {
		log.Warnf("calendar mirror lookup for meeting %d failed: %v", meeting.ID, err)
		return "", "calendar mirror lookup failed"
	}
	if mirror == nil {
		return "", ""
	}
	ref := mirror.Find(schedule)
	if ref == nil {
		return "", ""
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	hasCred, err := b.Calendar.HasCredential(gctx, meeting.UserID)
	if err != nil || !hasCred {
		if err != nil {
			log.Warnf("credential check for user %d failed: %v", meeting.UserID, err)
		}
		return "", ""
	}

	calendarID, err := b.Calendar.ResolveCalendarID(gctx, meeting.UserID)
	if err != nil {
		log.Warnf("resolve calendar for user %d failed: %v", meeting.UserID, err)
		return "", "attendee booked, calendar not updated"
	}

	link, err = b.Calendar.MirrorAttendeeAdd(gctx, meeting.UserID, calendarID, ref.ID, attendee.Name, attendee.Email)
	if err != nil {
		log.Warnf("mirror attendee add on event %s failed: %v", ref.ID, err)
		return "", "attendee booked, calendar not updated"
	}
	return link, ""
}

// CancelBooking deletes a reservation, refreshes the meeting counter and
// best-effort removes the attendee from the mirrored external event.
func (b *DefaultBookingService) CancelBooking(ctx context.Context, attendeeID int) apierror.ErrorResponse {
	attendee, err := b.AttendeeRepo.FindByID(attendeeID)
	if err != nil {
		log.Errorf("failed to fetch attendee %d: %v", attendeeID, err)
		return apierror.InternalServerError
	}
	if attendee == nil {
		return apierror.AttendeeNotFoundError
	}

	meeting, err := b.MeetingRepo.FindByID(attendee.MeetingID)
	if err != nil {
		log.Errorf("failed to fetch meeting %d: %v", attendee.MeetingID, err)
		return apierror.InternalServerError
	}

	if err := b.AttendeeRepo.Delete(attendee); err != nil {
		log.Errorf("failed to delete attendee %d: %v", attendeeID, err)
		return apierror.InternalServerError
	}

	if err := b.Propagator.RecomputeAttendeeCount(attendee.MeetingID); err != nil {
		log.Errorf("attendee recount for meeting %d failed: %v", attendee.MeetingID, err)
	}

	if meeting != nil {
		b.mirrorRemove(ctx, meeting, attendee)
	}
	return nil
}

func (b *DefaultBookingService) mirrorRemove(ctx context.Context, meeting *entity.Meeting, attendee *entity.Attendee) {
	schedule, ok := attendee.Slot.ScheduleKey()
	if !ok {
		return
	}

	mirror, err := b.CalendarEventRepo.FindByMeetingID(meeting.ID)
	if err != nil || mirror == nil {
		return
	}
	ref := mirror.Find(schedule)
	if ref == nil {
		return
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	hasCred, err := b.Calendar.HasCredential(gctx, meeting.UserID)
	if err != nil || !hasCred {
		return
	}

	calendarID, err := b.Calendar.ResolveCalendarID(gctx, meeting.UserID)
	if err != nil {
		log.Warnf("resolve calendar for user %d failed: %v", meeting.UserID, err)
		return
	}

	if err := b.Calendar.MirrorAttendeeRemove(gctx, meeting.UserID, calendarID, ref.ID, attendee.Email); err != nil {
		log.Warnf("mirror attendee remove on event %s failed: %v", ref.ID, err)
	}
}

func (b *DefaultBookingService) GetAttendees(meetingID int) ([]*AttendeeResponse, apierror.ErrorResponse) {
	attendees, err := b.AttendeeRepo.FindByMeetingID(meetingID)
	if err != nil {
		log.Errorf("failed to fetch attendees for meeting %d: %v", meetingID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*AttendeeResponse, len(attendees))
	for i, attendee := range attendees {
		resp[i] = toAttendeeResponse(attendee)
	}
	return resp, nil
}

func (b *DefaultBookingService) UpdateAttendee(attendeeID int, req *UpdateAttendeeRequest) (*AttendeeResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := b.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	attendee, err := b.AttendeeRepo.FindByID(attendeeID)
	if err != nil {
		log.Errorf("failed to fetch attendee %d: %v", attendeeID, err)
		return nil, apierror.InternalServerError
	}
	if attendee == nil {
		return nil, apierror.AttendeeNotFoundError
	}

	if req.Name != "" {
		attendee.Name = req.Name
	}
	if req.Email != "" {
		attendee.Email = strings.ToLower(req.Email)
	}

	err = b.AttendeeRepo.Save(attendee)
	if errors.Is(err, entity.ErrDuplicateAttendee) {
		return nil, apierror.NewConflictError(attendee.Email)
	}
	if err != nil {
		log.Errorf("failed to update attendee %d: %v", attendeeID, err)
		return nil, apierror.InternalServerError
	}
	return toAttendeeResponse(attendee), nil
}

func toAttendeeResponse(attendee *entity.Attendee) *AttendeeResponse {
	return &AttendeeResponse{
		ID:        attendee.ID,
		Name:      attendee.Name,
		Email:     attendee.Email,
		EventID:   attendee.MeetingID,
		Slot:      attendee.Slot,
		CreatedAt: utils.FormatEpoch(attendee.CreatedAt),
	}
}
