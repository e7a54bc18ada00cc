// Package calendarclient mirrors meetings onto Google Calendar. Every call
// acts on behalf of a meeting owner, authenticated through the refresh
// token stored when the owner completed the consent flow.
package calendarclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	// calendarSummary names the dedicated calendar provisioned in the
	// owner's account; all mirrored events live there.
	calendarSummary = "TimeForge"

	eventTimeLayout = "2006-01-02T15:04:05"
)

var ErrNoCredential = errors.New("owner has no calendar credential")

// TokenStore looks up the stored refresh credential of a meeting owner.
type TokenStore interface {
	FindByUserID(userID int) (*entity.Token, error)
}

type Client struct {
	cfg      *oauth2.Config
	tokens   TokenStore
	timeZone string
}

var _ service.CalendarGateway = (*Client)(nil)

// New reads the OAuth client settings from GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL. Event times are labeled
// with TIMEFORGE_TZ (default Asia/Dhaka).
func New(tokens TokenStore) *Client {
	tz := os.Getenv("TIMEFORGE_TZ")
	if tz == "" {
		tz = "Asia/Dhaka"
	}
	return &Client{
		cfg: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				calendar.CalendarScope,
				goauth2.UserinfoEmailScope,
			},
			Endpoint: google.Endpoint,
		},
		tokens:   tokens,
		timeZone: tz,
	}
}

func (c *Client) AuthURL(state, accessType string) string {
	if accessType == "online" {
		return c.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
	}
	return c.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades the consent code for a token and resolves the email
// of the granting Google account.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*service.OAuthResult, error) {
	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := goauth2.NewService(ctx, option.WithTokenSource(c.cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	return &service.OAuthResult{RefreshToken: token.RefreshToken, Email: info.Email}, nil
}

func (c *Client) HasCredential(ctx context.Context, ownerID int) (bool, error) {
	token, err := c.tokens.FindByUserID(ownerID)
	if err != nil {
		return false, err
	}
	return token != nil, nil
}

// service builds a Calendar API client acting as the owner, refreshing the
// access token from the stored refresh credential as needed.
func (c *Client) service(ctx context.Context, ownerID int) (*calendar.Service, error) {
	stored, err := c.tokens.FindByUserID(ownerID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrNoCredential
	}

	ts := c.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: stored.RefreshToken})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return svc, nil
}

// ResolveCalendarID finds the product calendar in the owner's account,
// provisioning it on first use.
func (c *Client) ResolveCalendarID(ctx context.Context, ownerID int) (string, error) {
	svc, err := c.service(ctx, ownerID)
	if err != nil {
		return "", err
	}

	list, err := svc.CalendarList.List().Do()
	if err != nil {
		return "", fmt.Errorf("list calendars: %w", err)
	}
	for _, item := range list.Items {
		if item.Summary == calendarSummary {
			return item.Id, nil
		}
	}

	created, err := svc.Calendars.Insert(&calendar.Calendar{
		Summary:  calendarSummary,
		TimeZone: c.timeZone,
	}).Do()
	if err != nil {
		return "", fmt.Errorf("create calendar: %w", err)
	}
	return created.Id, nil
}

// InsertMeetingEvents creates one event per offered slot and returns the
// schedule-keyed references used to correlate bookings later.
func (c *Client) InsertMeetingEvents(ctx context.Context, ownerID int, meeting *entity.Meeting, attendees []*entity.Attendee) ([]entity.GoogleEventRef, error) {
	svc, err := c.service(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	calendarID, err := c.ResolveCalendarID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	minutes, err := entity.DurationMinutes(meeting.Duration)
	if err != nil {
		return nil, err
	}

	var refs []entity.GoogleEventRef
	for dateKey, labels := range meeting.Events {
		for _, label := range labels {
			start, err := entity.SlotStart(dateKey, label)
			if err != nil {
				return nil, err
			}
			end := start.Add(time.Duration(minutes) * time.Minute)
			schedule := entity.ScheduleKey(dateKey, label)

			event := &calendar.Event{
				Summary: meeting.Title,
				Start: &calendar.EventDateTime{
					DateTime: start.Format(eventTimeLayout),
					TimeZone: c.timeZone,
				},
				End: &calendar.EventDateTime{
					DateTime: end.Format(eventTimeLayout),
					TimeZone: c.timeZone,
				},
				Attendees: slotGuests(attendees, schedule),
			}
			if meeting.Desc != nil {
				event.Description = *meeting.Desc
			}

			created, err := svc.Events.Insert(calendarID, event).Do()
			if err != nil {
				return nil, fmt.Errorf("insert event for slot %s: %w", schedule, err)
			}
			refs = append(refs, entity.GoogleEventRef{
				ID:       created.Id,
				HTMLLink: created.HtmlLink,
				Schedule: schedule,
			})
		}
	}
	return refs, nil
}

func slotGuests(attendees []*entity.Attendee, schedule string) []*calendar.EventAttendee {
	var guests []*calendar.EventAttendee
	for _, a := range attendees {
		key, ok := a.Slot.ScheduleKey()
		if !ok || key != schedule {
			continue
		}
		guests = append(guests, &calendar.EventAttendee{DisplayName: a.Name, Email: a.Email})
	}
	return guests
}

// MirrorAttendeeAdd appends one guest to a mirrored event and returns the
// event link for the booking response.
func (c *Client) MirrorAttendeeAdd(ctx context.Context, ownerID int, calendarID, eventID, name, email string) (string, error) {
	svc, err := c.service(ctx, ownerID)
	if err != nil {
		return "", err
	}

	event, err := svc.Events.Get(calendarID, eventID).Do()
	if err != nil {
		return "", fmt.Errorf("fetch event %s: %w", eventID, err)
	}

	for _, guest := range event.Attendees {
		if guest.Email == email {
			return event.HtmlLink, nil
		}
	}
	event.Attendees = append(event.Attendees, &calendar.EventAttendee{DisplayName: name, Email: email})

	patched, err := svc.Events.Patch(calendarID, eventID, &calendar.Event{Attendees: event.Attendees}).Do()
	if err != nil {
		return "", fmt.Errorf("patch event %s: %w", eventID, err)
	}
	return patched.HtmlLink, nil
}

func (c *Client) MirrorAttendeeRemove(ctx context.Context, ownerID int, calendarID, eventID, email string) error {
	svc, err := c.service(ctx, ownerID)
	if err != nil {
		return err
	}

	event, err := svc.Events.Get(calendarID, eventID).Do()
	if err != nil {
		return fmt.Errorf("fetch event %s: %w", eventID, err)
	}

	kept := event.Attendees[:0]
	for _, guest := range event.Attendees {
		if guest.Email != email {
			kept = append(kept, guest)
		}
	}
	if len(kept) == len(event.Attendees) {
		return nil
	}

	_, err = svc.Events.Patch(calendarID, eventID, &calendar.Event{Attendees: kept}).Do()
	if err != nil {
		return fmt.Errorf("patch event %s: %w", eventID, err)
	}
	return nil
}

func (c *Client) DeleteExternalEvent(ctx context.Context, ownerID int, calendarID, eventID string) error {
	svc, err := c.service(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(calendarID, eventID).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}
