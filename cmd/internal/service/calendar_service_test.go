package service_test

import (
	"context"
	"net/http"
	"testing"

	"timeforge/cmd/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertToken(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	s.calendar.exchange = &service.OAuthResult{RefreshToken: "refresh", Email: "owner@gmail.com"}
	ctx := context.Background()

	apierr := s.calendars.InsertToken(ctx, &service.InsertTokenRequest{Code: "code", ID: owner.ID})
	require.Nil(t, apierr)

	token, err := s.tokenRepo.FindByUserID(owner.ID)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.Equal(t, "owner@gmail.com", token.RegisteredEmail)

	user, _ := s.users.GetUserByID(owner.ID)
	assert.True(t, user.IsRefreshToken)

	// A second credential for the same user is rejected.
	apierr = s.calendars.InsertToken(ctx, &service.InsertTokenRequest{Code: "code", ID: owner.ID})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestAuthorizationURL(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")

	url, apierr := s.calendars.AuthorizationURL(owner.ID, "offline", "/dashboard")
	require.Nil(t, apierr)
	assert.Contains(t, url, "state=")

	s.calendar.exchange = &service.OAuthResult{RefreshToken: "refresh", Email: "owner@gmail.com"}
	require.Nil(t, s.calendars.InsertToken(context.Background(),
		&service.InsertTokenRequest{Code: "code", ID: owner.ID}))

	// Once a credential exists, offline authorization short-circuits;
	// online access stays available.
	_, apierr = s.calendars.AuthorizationURL(owner.ID, "offline", "/dashboard")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = s.calendars.AuthorizationURL(0, "online", "/dashboard")
	assert.Nil(t, apierr)
}

func TestInsertCalendar(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	ctx := context.Background()

	// Without a credential the mirror cannot be provisioned.
	_, apierr := s.calendars.InsertCalendar(ctx, &service.InsertCalendarRequest{
		UserID: owner.ID, EventID: meeting.ID,
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	s.calendar.exchange = &service.OAuthResult{RefreshToken: "refresh", Email: "owner@gmail.com"}
	require.Nil(t, s.calendars.InsertToken(ctx, &service.InsertTokenRequest{Code: "code", ID: owner.ID}))

	created, apierr := s.calendars.InsertCalendar(ctx, &service.InsertCalendarRequest{
		UserID: owner.ID, EventID: meeting.ID,
	})
	require.Nil(t, apierr)
	assert.True(t, created)

	events, apierr := s.calendars.GetCalendarEvents(meeting.ID)
	require.Nil(t, apierr)
	assert.Len(t, events.Events, 3, "one external event per offered slot")
	for _, ref := range events.Events {
		assert.NotEmpty(t, ref.Schedule)
	}

	// Mirroring is one-shot per meeting.
	created, apierr = s.calendars.InsertCalendar(ctx, &service.InsertCalendarRequest{
		UserID: owner.ID, EventID: meeting.ID,
	})
	require.Nil(t, apierr)
	assert.False(t, created)
}

func TestDeleteMirrorEvent(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	ctx := context.Background()

	s.calendar.exchange = &service.OAuthResult{RefreshToken: "refresh", Email: "owner@gmail.com"}
	require.Nil(t, s.calendars.InsertToken(ctx, &service.InsertTokenRequest{Code: "code", ID: owner.ID}))
	_, apierr := s.calendars.InsertCalendar(ctx, &service.InsertCalendarRequest{
		UserID: owner.ID, EventID: meeting.ID,
	})
	require.Nil(t, apierr)

	events, _ := s.calendars.GetCalendarEvents(meeting.ID)
	require.Len(t, events.Events, 3)

	first := events.Events[0].ID
	require.Nil(t, s.calendars.DeleteMirrorEvent(ctx, owner.ID, meeting.ID, first))

	events, _ = s.calendars.GetCalendarEvents(meeting.ID)
	assert.Len(t, events.Events, 2)
	assert.Contains(t, s.calendar.deleted, first)

	// Dropping the remaining refs removes the record itself.
	require.Nil(t, s.calendars.DeleteMirrorEvent(ctx, owner.ID, meeting.ID, events.Events[0].ID))
	require.Nil(t, s.calendars.DeleteMirrorEvent(ctx, owner.ID, meeting.ID, events.Events[1].ID))

	_, apierr = s.calendars.GetCalendarEvents(meeting.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestAdminPages(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	for i := 0; i < 3; i++ {
		s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	}

	users, apierr := s.admin.Users(0, 0)
	require.Nil(t, apierr)
	assert.Equal(t, 1, users.Page, "defaults apply when paging params are absent")
	assert.Equal(t, 15, users.Limit)
	assert.EqualValues(t, 1, users.Total)

	meetings, apierr := s.admin.Meetings(1, 2)
	require.Nil(t, apierr)
	assert.Len(t, meetings.Items, 2)
	assert.EqualValues(t, 3, meetings.Total)
	assert.Equal(t, 2, meetings.TotalPages)

	timelines, apierr := s.admin.Timelines(2, 2)
	require.Nil(t, apierr)
	assert.Len(t, timelines.Items, 1, "companion timelines page alongside meetings")
}
