package service

import (
	"context"
	"time"

	"timeforge/cmd/internal/domain/entity"
)

// Every external call is best-effort from the core's point of view: a
// gateway failure is logged or attached as a warning, never escalated to
// roll back an already-committed write. Calls are time-bounded so a hung
// integration cannot stall a booking or a cascade.
const gatewayTimeout = 10 * time.Second

func gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, gatewayTimeout)
}

// OAuthResult is the outcome of exchanging an authorization code.
type OAuthResult struct {
	RefreshToken string
	Email        string
}

// CalendarGateway abstracts the external calendar provider.
type CalendarGateway interface {
	// HasCredential reports whether the owner has a stored refresh
	// credential.
	HasCredential(ctx context.Context, ownerID int) (bool, error)
	// ResolveCalendarID finds (or provisions) the product calendar in the
	// owner's account.
	ResolveCalendarID(ctx context.Context, ownerID int) (string, error)
	// MirrorAttendeeAdd appends an attendee to an external event's guest
	// list and returns the event link.
	MirrorAttendeeAdd(ctx context.Context, ownerID int, calendarID, eventID, name, email string) (string, error)
	// MirrorAttendeeRemove drops an attendee from an external event's
	// guest list.
	MirrorAttendeeRemove(ctx context.Context, ownerID int, calendarID, eventID, email string) error
	// DeleteExternalEvent removes one mirrored event.
	DeleteExternalEvent(ctx context.Context, ownerID int, calendarID, eventID string) error
	// InsertMeetingEvents creates one external event per offered slot and
	// returns the schedule-keyed references.
	InsertMeetingEvents(ctx context.Context, ownerID int, meeting *entity.Meeting, attendees []*entity.Attendee) ([]entity.GoogleEventRef, error)
	// AuthURL builds the user-facing authorization URL.
	AuthURL(state, accessType string) string
	// ExchangeCode trades an authorization code for a refresh credential.
	ExchangeCode(ctx context.Context, code string) (*OAuthResult, error)
}

// CheckoutRequest describes a checkout session for a paid meeting type.
type CheckoutRequest struct {
	MeetingTitle string
	AmountCents  int64
	Currency     string
	CustomerMail string
	SuccessURL   string
	CancelURL    string
}

// CheckoutSession is the provider-hosted payment page.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway abstracts checkout-session creation.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
}

// Mailer abstracts outbound email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
