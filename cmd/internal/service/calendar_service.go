package service

import (
	"context"
	"encoding/json"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type TokenRepository interface {
	FindByUserID(userID int) (*entity.Token, error)
	Save(token *entity.Token) error
	DeleteByUserID(userID int) error
}

type CalendarEventRepository interface {
	FindByID(id int) (*entity.GoogleCalendarEvent, error)
	FindByMeetingID(meetingID int) (*entity.GoogleCalendarEvent, error)
	Save(event *entity.GoogleCalendarEvent) error
	Delete(event *entity.GoogleCalendarEvent) error
	DeleteByMeetingID(meetingID int) error
}

type InsertTokenRequest struct {
	Code string `json:"code" validate:"required"`
	ID   int    `json:"id" validate:"required"`
}

type InsertCalendarRequest struct {
	UserID  int `json:"userId" validate:"required"`
	EventID int `json:"eventId" validate:"required"`
}

type CalendarEventsResponse struct {
	MeetingID int                    `json:"event"`
	Events    entity.GoogleEventRefs `json:"googleEvents"`
}

type authState struct {
	ID         int    `json:"id,omitempty"`
	Route      string `json:"route"`
	AccessType string `json:"access_type"`
}

// DefaultCalendarService owns the calendar-authorization flow and the
// provisioning of one external event per offered slot.
type DefaultCalendarService struct {
	TokenRepo         TokenRepository
	UserRepo          UserRepository
	MeetingRepo       MeetingRepository
	AttendeeRepo      AttendeeRepository
	CalendarEventRepo CalendarEventRepository
	Calendar          CalendarGateway
	Validate          *validator.Validate
}

func NewCalendarService(
	tokenRepo TokenRepository,
	userRepo UserRepository,
	meetingRepo MeetingRepository,
	attendeeRepo AttendeeRepository,
	calendarEventRepo CalendarEventRepository,
	calendar CalendarGateway,
	validate *validator.Validate,
) *DefaultCalendarService {
	return &DefaultCalendarService{
		TokenRepo:         tokenRepo,
		UserRepo:          userRepo,
		MeetingRepo:       meetingRepo,
		AttendeeRepo:      attendeeRepo,
		CalendarEventRepo: calendarEventRepo,
		Calendar:          calendar,
		Validate:          validate,
	}
}

// AuthorizationURL builds the consent URL. For offline access the user may
// hold at most one refresh credential, so an existing token short-circuits.
func (c *DefaultCalendarService) AuthorizationURL(userID int, accessType, route string) (string, apierror.ErrorResponse) {
	state := authState{Route: route, AccessType: accessType}
	if accessType != "online" {
		token, err := c.TokenRepo.FindByUserID(userID)
		if err != nil {
			log.Errorf("failed to fetch token for user %d: %v", userID, err)
			return "", apierror.InternalServerError
		}
		if token != nil {
			return "", apierror.TokenExistsError
		}
		state.ID = userID
	}

	raw, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal auth state: %v", err)
		return "", apierror.InternalServerError
	}
	return c.Calendar.AuthURL(string(raw), accessType), nil
}

// InsertToken exchanges an authorization code and stores the refresh
// credential, marking the user as calendar-linked.
func (c *DefaultCalendarService) InsertToken(ctx context.Context, req *InsertTokenRequest) apierror.ErrorResponse {
	if err := c.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	existing, err := c.TokenRepo.FindByUserID(req.ID)
	if err != nil {
		log.Errorf("failed to fetch token for user %d: %v", req.ID, err)
		return apierror.InternalServerError
	}
	if existing != nil {
		return apierror.TokenExistsError
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	result, err := c.Calendar.ExchangeCode(gctx, req.Code)
	if err != nil {
		log.Errorf("code exchange for user %d failed: %v", req.ID, err)
		return apierror.NewSimple(400, "Token Failed to get")
	}

	token := &entity.Token{
		UserID:          req.ID,
		RefreshToken:    result.RefreshToken,
		RegisteredEmail: result.Email,
		CreatedAt:       utils.NowUTC(),
	}
	if err := c.TokenRepo.Save(token); err != nil {
		log.Errorf("failed to save token for user %d: %v", req.ID, err)
		return apierror.InternalServerError
	}

	user, err := c.UserRepo.FindByID(req.ID)
	if err != nil || user == nil {
		log.Errorf("failed to flag user %d as calendar-linked: %v", req.ID, err)
		return nil
	}
	user.IsRefreshToken = true
	user.UpdatedAt = utils.NowUTC()
	if err := c.UserRepo.Save(user); err != nil {
		log.Errorf("failed to flag user %d as calendar-linked: %v", req.ID, err)
	}
	return nil
}

// InsertCalendar mirrors a meeting onto the owner's external calendar: one
// event per offered slot, keyed by schedule so later attendee changes can
// be correlated back.
func (c *DefaultCalendarService) InsertCalendar(ctx context.Context, req *InsertCalendarRequest) (bool, apierror.ErrorResponse) {
	if err := c.Validate.Struct(req); err != nil {
		return false, apierror.FromValidationError(err)
	}

	token, err := c.TokenRepo.FindByUserID(req.UserID)
	if err != nil {
		log.Errorf("failed to fetch token for user %d: %v", req.UserID, err)
		return false, apierror.InternalServerError
	}
	if token == nil {
		return false, apierror.NotAuthorizedError
	}

	existing, err := c.CalendarEventRepo.FindByMeetingID(req.EventID)
	if err != nil {
		log.Errorf("failed to fetch calendar mirror for meeting %d: %v", req.EventID, err)
		return false, apierror.InternalServerError
	}
	if existing != nil {
		return false, nil
	}

	meeting, err := c.MeetingRepo.FindByID(req.EventID)
	if err != nil {
		log.Errorf("failed to fetch meeting %d: %v", req.EventID, err)
		return false, apierror.InternalServerError
	}
	if meeting == nil {
		return false, apierror.MeetingNotFoundError
	}

	attendees, err := c.AttendeeRepo.FindByMeetingID(meeting.ID)
	if err != nil {
		log.Errorf("failed to fetch attendees for meeting %d: %v", meeting.ID, err)
		return false, apierror.InternalServerError
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	refs, err := c.Calendar.InsertMeetingEvents(gctx, req.UserID, meeting, attendees)
	if err != nil {
		log.Errorf("external event creation for meeting %d failed: %v", meeting.ID, err)
		return false, apierror.NewSimple(400, err.Error())
	}

	mirror := &entity.GoogleCalendarEvent{
		MeetingID: meeting.ID,
		Events:    refs,
		CreatedAt: utils.NowUTC(),
	}
	if err := c.CalendarEventRepo.Save(mirror); err != nil {
		log.Errorf("failed to save calendar mirror for meeting %d: %v", meeting.ID, err)
		return false, apierror.InternalServerError
	}
	return true, nil
}

func (c *DefaultCalendarService) GetCalendarEvents(meetingID int) (*CalendarEventsResponse, apierror.ErrorResponse) {
	mirror, err := c.CalendarEventRepo.FindByMeetingID(meetingID)
	if err != nil {
		log.Errorf("failed to fetch calendar mirror for meeting %d: %v", meetingID, err)
		return nil, apierror.InternalServerError
	}
	if mirror == nil {
		return nil, apierror.NewSimple(404, "GoogleCalendar not found")
	}
	return &CalendarEventsResponse{MeetingID: mirror.MeetingID, Events: mirror.Events}, nil
}

// DeleteMirror removes the whole mirror record without touching the
// external calendar.
func (c *DefaultCalendarService) DeleteMirror(mirrorID int) apierror.ErrorResponse {
	mirror, err := c.CalendarEventRepo.FindByID(mirrorID)
	if err != nil {
		log.Errorf("failed to fetch calendar mirror %d: %v", mirrorID, err)
		return apierror.InternalServerError
	}
	if mirror == nil {
		return apierror.NewSimple(404, "GoogleCalendar not found")
	}
	if err := c.CalendarEventRepo.Delete(mirror); err != nil {
		log.Errorf("failed to delete calendar mirror %d: %v", mirrorID, err)
		return apierror.InternalServerError
	}
	return nil
}

// DeleteMirrorEvent removes a single mirrored event. The last remaining
// event takes the whole record with it; otherwise the external event is
// best-effort deleted and the ref dropped.
func (c *DefaultCalendarService) DeleteMirrorEvent(ctx context.Context, userID, meetingID int, externalEventID string) apierror.ErrorResponse {
	mirror, err := c.CalendarEventRepo.FindByMeetingID(meetingID)
	if err != nil {
		log.Errorf("failed to fetch calendar mirror for meeting %d: %v", meetingID, err)
		return apierror.InternalServerError
	}
	if mirror == nil {
		return apierror.NewSimple(404, "GoogleCalendar not found")
	}

	if len(mirror.Events) <= 1 {
		if err := c.CalendarEventRepo.Delete(mirror); err != nil {
			log.Errorf("failed to delete calendar mirror %d: %v", mirror.ID, err)
			return apierror.InternalServerError
		}
		return nil
	}

	kept := mirror.Events[:0]
	for _, ref := range mirror.Events {
		if ref.ID != externalEventID {
			kept = append(kept, ref)
		}
	}
	mirror.Events = kept
	if err := c.CalendarEventRepo.Save(mirror); err != nil {
		log.Errorf("failed to save calendar mirror %d: %v", mirror.ID, err)
		return apierror.InternalServerError
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	calendarID, err := c.Calendar.ResolveCalendarID(gctx, userID)
	if err != nil {
		log.Warnf("resolve calendar for user %d failed: %v", userID, err)
		return nil
	}
	if err := c.Calendar.DeleteExternalEvent(gctx, userID, calendarID, externalEventID); err != nil {
		log.Warnf("delete external event %s failed: %v", externalEventID, err)
	}
	return nil
}
