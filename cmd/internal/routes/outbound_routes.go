package routes

import (
	"context"
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type OutboundService interface {
	SendMail(ctx context.Context, req *service.SendMailRequest) apierror.ErrorResponse
	CreateCheckout(ctx context.Context, req *service.CreateCheckoutRequest) (*service.CheckoutSession, apierror.ErrorResponse)
}

type DefaultOutboundRoute struct {
	OutboundService OutboundService
}

func NewOutboundDefault(outboundService OutboundService) *DefaultOutboundRoute {
	return &DefaultOutboundRoute{OutboundService: outboundService}
}

func (o *DefaultOutboundRoute) SendMail(c echo.Context) error {
	var req service.SendMailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := o.OutboundService.SendMail(c.Request().Context(), &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (o *DefaultOutboundRoute) CreateCheckout(c echo.Context) error {
	var req service.CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	session, apierr := o.OutboundService.CreateCheckout(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, session)
}
