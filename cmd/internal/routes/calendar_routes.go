package routes

import (
	"context"
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CalendarService interface {
	AuthorizationURL(userID int, accessType, route string) (string, apierror.ErrorResponse)
	InsertToken(ctx context.Context, req *service.InsertTokenRequest) apierror.ErrorResponse
	InsertCalendar(ctx context.Context, req *service.InsertCalendarRequest) (bool, apierror.ErrorResponse)
	GetCalendarEvents(meetingID int) (*service.CalendarEventsResponse, apierror.ErrorResponse)
	DeleteMirror(mirrorID int) apierror.ErrorResponse
	DeleteMirrorEvent(ctx context.Context, userID, meetingID int, externalEventID string) apierror.ErrorResponse
}

type DefaultCalendarRoute struct {
	CalendarService CalendarService
}

func NewCalendarDefault(calendarService CalendarService) *DefaultCalendarRoute {
	return &DefaultCalendarRoute{CalendarService: calendarService}
}

// Authorization hands back the provider consent URL. Offline access needs
// the user id so the callback can bind the credential.
func (r *DefaultCalendarRoute) Authorization(c echo.Context) error {
	accessType := c.QueryParam("access_type")
	if accessType == "" {
		accessType = "offline"
	}
	route := c.QueryParam("route")

	var userID int
	if accessType != "online" {
		id, apierr := queryID(c, "id")
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		userID = id
	}

	url, apierr := r.CalendarService.AuthorizationURL(userID, accessType, route)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"url": url}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCalendarRoute) InsertToken(c echo.Context) error {
	var req service.InsertTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := r.CalendarService.InsertToken(c.Request().Context(), &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusCreated)
}

// InsertCalendar provisions one external event per offered slot. Answers
// 200 when the meeting was already mirrored, 201 when events were created.
func (r *DefaultCalendarRoute) InsertCalendar(c echo.Context) error {
	var req service.InsertCalendarRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	created, apierr := r.CalendarService.InsertCalendar(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	if !created {
		return c.NoContent(http.StatusOK)
	}
	return c.NoContent(http.StatusCreated)
}

func (r *DefaultCalendarRoute) GetCalendarEvents(c echo.Context) error {
	meetingID, apierr := pathID(c, "meetingId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	events, apierr := r.CalendarService.GetCalendarEvents(meetingID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, events)
}

func (r *DefaultCalendarRoute) DeleteMirror(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := r.CalendarService.DeleteMirror(id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (r *DefaultCalendarRoute) DeleteMirrorEvent(c echo.Context) error {
	meetingID, apierr := pathID(c, "meetingId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	userID, apierr := queryID(c, "userId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	eventID := c.QueryParam("eventId")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("eventId"))
	}

	if apierr := r.CalendarService.DeleteMirrorEvent(c.Request().Context(), userID, meetingID, eventID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
