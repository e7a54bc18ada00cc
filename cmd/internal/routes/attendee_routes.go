package routes

import (
	"context"
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type BookingService interface {
	BookSlot(ctx context.Context, req *service.BookingRequest) (*service.BookingResponse, apierror.ErrorResponse)
	CancelBooking(ctx context.Context, attendeeID int) apierror.ErrorResponse
	GetAttendees(meetingID int) ([]*service.AttendeeResponse, apierror.ErrorResponse)
	UpdateAttendee(attendeeID int, req *service.UpdateAttendeeRequest) (*service.AttendeeResponse, apierror.ErrorResponse)
}

type DefaultAttendeeRoute struct {
	BookingService BookingService
}

func NewAttendeeDefault(bookingService BookingService) *DefaultAttendeeRoute {
	return &DefaultAttendeeRoute{BookingService: bookingService}
}

// BookSlot reserves a slot. A duplicate (email, meeting) pair answers 409;
// a calendar mirroring problem still answers 201, with a warning attached.
func (a *DefaultAttendeeRoute) BookSlot(c echo.Context) error {
	var req service.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	booking, apierr := a.BookingService.BookSlot(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (a *DefaultAttendeeRoute) GetAttendees(c echo.Context) error {
	meetingID, apierr := pathID(c, "meetingId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	attendees, apierr := a.BookingService.GetAttendees(meetingID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"attendees": attendees}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAttendeeRoute) UpdateAttendee(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.UpdateAttendeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	attendee, apierr := a.BookingService.UpdateAttendee(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, attendee)
}

func (a *DefaultAttendeeRoute) CancelBooking(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := a.BookingService.CancelBooking(c.Request().Context(), id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
