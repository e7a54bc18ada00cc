// Package stripepay creates Stripe-hosted checkout sessions for paid
// meeting types.
package stripepay

import (
	"context"
	"fmt"
	"os"

	"timeforge/cmd/internal/service"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

type Client struct{}

var _ service.PaymentGateway = (*Client)(nil)

// New configures the package-level Stripe client from STRIPE_SECRET_KEY.
func New() *Client {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &Client{}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req *service.CheckoutRequest) (*service.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(req.CustomerMail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.MeetingTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &service.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
