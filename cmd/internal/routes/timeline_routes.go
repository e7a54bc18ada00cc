package routes

import (
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type TimelineService interface {
	GetTimeline(id int) (*service.TimelineResponse, apierror.ErrorResponse)
	GetTimelineByMeeting(meetingID int) (*service.TimelineResponse, apierror.ErrorResponse)
	GetTimelinesByUser(userID int) ([]*service.TimelineResponse, apierror.ErrorResponse)
	AddItem(timelineID int, req *service.AddTimelineItemRequest) (*service.TimelineResponse, apierror.ErrorResponse)
	UpdateItemContent(timelineID int, req *service.UpdateTimelineItemRequest) (*service.TimelineResponse, apierror.ErrorResponse)
	Reset(timelineID int) (*service.TimelineResponse, apierror.ErrorResponse)
	AddGuest(timelineID int, req *service.AddGuestRequest) (*service.TimelineResponse, apierror.ErrorResponse)
	RemoveGuest(timelineID, index int) (*service.TimelineResponse, apierror.ErrorResponse)
}

type DefaultTimelineRoute struct {
	TimelineService TimelineService
}

func NewTimelineDefault(timelineService TimelineService) *DefaultTimelineRoute {
	return &DefaultTimelineRoute{TimelineService: timelineService}
}

func (t *DefaultTimelineRoute) GetTimeline(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	timeline, apierr := t.TimelineService.GetTimeline(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}

func (t *DefaultTimelineRoute) GetTimelineByMeeting(c echo.Context) error {
	meetingID, apierr := pathID(c, "meetingId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	timeline, apierr := t.TimelineService.GetTimelineByMeeting(meetingID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}

func (t *DefaultTimelineRoute) GetTimelinesByUser(c echo.Context) error {
	userID, apierr := pathID(c, "userId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	timelines, apierr := t.TimelineService.GetTimelinesByUser(userID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"timelines": timelines}
	return c.JSON(http.StatusOK, &resp)
}

func (t *DefaultTimelineRoute) AddItem(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AddTimelineItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	timeline, apierr := t.TimelineService.AddItem(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}

func (t *DefaultTimelineRoute) UpdateItemContent(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.UpdateTimelineItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	timeline, apierr := t.TimelineService.UpdateItemContent(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}

func (t *DefaultTimelineRoute) Reset(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	timeline, apierr := t.TimelineService.Reset(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}

func (t *DefaultTimelineRoute) AddGuest(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AddGuestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	timeline, apierr := t.TimelineService.AddGuest(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}

// RemoveGuest drops the guest at a position in the guest list.
func (t *DefaultTimelineRoute) RemoveGuest(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	index, apierr := pathID(c, "index")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	timeline, apierr := t.TimelineService.RemoveGuest(id, index)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timeline)
}
