package routes

import (
	"context"
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type MeetingService interface {
	CreateMeeting(req *service.CreateMeetingRequest) (*service.MeetingResponse, apierror.ErrorResponse)
	GetMeeting(id int) (*service.MeetingResponse, apierror.ErrorResponse)
	GetMeetingsByUser(userID int) ([]*service.MeetingSummary, apierror.ErrorResponse)
	UpdateMeeting(id int, req *service.UpdateMeetingRequest) (*service.MeetingResponse, apierror.ErrorResponse)
	DeleteMeeting(ctx context.Context, id int) (*service.CascadeReport, apierror.ErrorResponse)
	Home() ([]*service.MeetingSummary, apierror.ErrorResponse)
	UserCharts(userID int) (*service.UserChartsResponse, apierror.ErrorResponse)
}

type DefaultMeetingRoute struct {
	MeetingService MeetingService
}

func NewMeetingDefault(meetingService MeetingService) *DefaultMeetingRoute {
	return &DefaultMeetingRoute{MeetingService: meetingService}
}

func (m *DefaultMeetingRoute) CreateMeeting(c echo.Context) error {
	var req service.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	meeting, apierr := m.MeetingService.CreateMeeting(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, meeting)
}

func (m *DefaultMeetingRoute) GetMeeting(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	meeting, apierr := m.MeetingService.GetMeeting(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, meeting)
}

func (m *DefaultMeetingRoute) GetMeetingsByUser(c echo.Context) error {
	userID, apierr := pathID(c, "userId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	meetings, apierr := m.MeetingService.GetMeetingsByUser(userID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"meetings": meetings}
	return c.JSON(http.StatusOK, &resp)
}

func (m *DefaultMeetingRoute) UpdateMeeting(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.UpdateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	meeting, apierr := m.MeetingService.UpdateMeeting(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, meeting)
}

// DeleteMeeting answers with the cascade report; 207 flags a partial
// cascade so the client knows a retry is safe and useful.
func (m *DefaultMeetingRoute) DeleteMeeting(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	report, apierr := m.MeetingService.DeleteMeeting(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	if report.Failed() {
		return c.JSON(http.StatusMultiStatus, report)
	}
	return c.JSON(http.StatusOK, report)
}

func (m *DefaultMeetingRoute) Home(c echo.Context) error {
	meetings, apierr := m.MeetingService.Home()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"meetings": meetings}
	return c.JSON(http.StatusOK, &resp)
}

func (m *DefaultMeetingRoute) UserCharts(c echo.Context) error {
	userID, apierr := pathID(c, "userId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	charts, apierr := m.MeetingService.UserCharts(userID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, charts)
}
