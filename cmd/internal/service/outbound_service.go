package service

import (
	"context"

	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type SendMailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=256"`
	HTML    string `json:"html" validate:"required"`
}

type CreateCheckoutRequest struct {
	MeetingTitle string `json:"title" validate:"required,max=128"`
	AmountCents  int64  `json:"amount" validate:"required,min=1"`
	Currency     string `json:"currency" validate:"omitempty,len=3"`
	CustomerMail string `json:"email" validate:"required,email"`
	SuccessURL   string `json:"success_url" validate:"required,url"`
	CancelURL    string `json:"cancel_url" validate:"required,url"`
}

// DefaultOutboundService fronts the mail and payment providers. Unlike the
// calendar mirror these calls are the whole operation, so failures surface
// to the caller instead of degrading to warnings.
type DefaultOutboundService struct {
	Mail     Mailer
	Payments PaymentGateway
	Validate *validator.Validate
}

func NewOutboundService(mail Mailer, payments PaymentGateway, validate *validator.Validate) *DefaultOutboundService {
	return &DefaultOutboundService{Mail: mail, Payments: payments, Validate: validate}
}

func (o *DefaultOutboundService) SendMail(ctx context.Context, req *SendMailRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := o.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	if err := o.Mail.Send(gctx, req.To, req.Subject, req.HTML); err != nil {
		log.Errorf("mail to %s failed: %v", req.To, err)
		return apierror.NewSimple(502, "Mail could not be delivered")
	}
	return nil
}

func (o *DefaultOutboundService) CreateCheckout(ctx context.Context, req *CreateCheckoutRequest) (*CheckoutSession, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := o.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	gctx, cancel := gatewayContext(ctx)
	defer cancel()

	session, err := o.Payments.CreateCheckoutSession(gctx, &CheckoutRequest{
		MeetingTitle: req.MeetingTitle,
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		CustomerMail: req.CustomerMail,
		SuccessURL:   req.SuccessURL,
		CancelURL:    req.CancelURL,
	})
	if err != nil {
		log.Errorf("checkout session for %s failed: %v", req.CustomerMail, err)
		return nil, apierror.NewSimple(502, "Checkout session could not be created")
	}
	return session, nil
}
