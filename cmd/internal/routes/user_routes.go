package routes

import (
	"context"
	"net/http"
	"strings"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	CreateUser(req *service.CreateUserRequest) (*service.UserResponse, bool, apierror.ErrorResponse)
	GetUserByID(id int) (*service.UserResponse, apierror.ErrorResponse)
	GetUserByEmail(email string) (*service.UserResponse, apierror.ErrorResponse)
	UpdateUser(id int, req *service.UpdateUserRequest) (*service.UserResponse, apierror.ErrorResponse)
	SearchUsers(text string) ([]*service.UserResponse, apierror.ErrorResponse)
	DeleteUser(ctx context.Context, email string) (*service.CascadeReport, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

// CreateUser registers a profile. Re-posting a known email answers 200
// with the existing profile instead of 201.
func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req service.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, created, apierr := u.UserService.CreateUser(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	if !created {
		return c.JSON(http.StatusOK, user)
	}
	return c.JSON(http.StatusCreated, user)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	user, apierr := u.UserService.GetUserByID(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (u *DefaultUserRoute) GetUserByEmail(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("email"))
	}

	user, apierr := u.UserService.GetUserByEmail(email)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (u *DefaultUserRoute) UpdateUser(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.UpdateUser(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (u *DefaultUserRoute) SearchUsers(c echo.Context) error {
	text := strings.TrimSpace(c.QueryParam("text"))
	if text == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("text"))
	}

	users, apierr := u.UserService.SearchUsers(text)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

// DeleteUser removes the account and everything it owns, answering with
// the per-step cascade report.
func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("email"))
	}

	report, apierr := u.UserService.DeleteUser(c.Request().Context(), email)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	if report.Failed() {
		return c.JSON(http.StatusMultiStatus, report)
	}
	return c.JSON(http.StatusOK, report)
}
