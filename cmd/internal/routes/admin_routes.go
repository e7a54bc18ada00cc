package routes

import (
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AdminService interface {
	Users(page, limit int) (*service.Page[*service.UserResponse], apierror.ErrorResponse)
	Meetings(page, limit int) (*service.Page[*service.MeetingResponse], apierror.ErrorResponse)
	Attendees(page, limit int) (*service.Page[*service.AttendeeResponse], apierror.ErrorResponse)
	Timelines(page, limit int) (*service.Page[*service.TimelineResponse], apierror.ErrorResponse)
}

type DefaultAdminRoute struct {
	AdminService AdminService
}

func NewAdminDefault(adminService AdminService) *DefaultAdminRoute {
	return &DefaultAdminRoute{AdminService: adminService}
}

func (a *DefaultAdminRoute) Users(c echo.Context) error {
	page, limit := paging(c)
	users, apierr := a.AdminService.Users(page, limit)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, users)
}

func (a *DefaultAdminRoute) Meetings(c echo.Context) error {
	page, limit := paging(c)
	meetings, apierr := a.AdminService.Meetings(page, limit)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, meetings)
}

func (a *DefaultAdminRoute) Attendees(c echo.Context) error {
	page, limit := paging(c)
	attendees, apierr := a.AdminService.Attendees(page, limit)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, attendees)
}

func (a *DefaultAdminRoute) Timelines(c echo.Context) error {
	page, limit := paging(c)
	timelines, apierr := a.AdminService.Timelines(page, limit)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, timelines)
}
