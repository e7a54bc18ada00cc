package service_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest(meetingID int, email string) *service.BookingRequest {
	return &service.BookingRequest{
		Name:      "Guest",
		Email:     email,
		EventID:   meetingID,
		DateKey:   "150126",
		TimeLabel: "9:30 PM",
	}
}

func TestBookSlot(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	ctx := context.Background()

	resp, apierr := s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "Guest@Example.com"))
	require.Nil(t, apierr)
	assert.Equal(t, "guest@example.com", resp.Attendee.Email, "emails are stored lowercase")
	assert.Empty(t, resp.CalendarWarning)

	key, ok := resp.Attendee.Slot.ScheduleKey()
	require.True(t, ok)
	assert.Equal(t, "150126-9:30 PM", key)

	updated, apierr := s.meetings.GetMeeting(meeting.ID)
	require.Nil(t, apierr)
	assert.Equal(t, 1, updated.Attendee)
}

func TestBookSlot_MeetingNotFound(t *testing.T) {
	s := newStack(t)

	_, apierr := s.bookings.BookSlot(context.Background(), bookingRequest(99, "guest@example.com"))
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestBookSlot_SlotNotOffered(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	req := bookingRequest(meeting.ID, "guest@example.com")
	req.TimeLabel = "11:30 PM" // well formed, just not in the catalog
	_, apierr := s.bookings.BookSlot(context.Background(), req)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	req = bookingRequest(meeting.ID, "guest@example.com")
	req.DateKey = "160126"
	req.TimeLabel = "9:30 PM" // offered on 150126 only
	_, apierr = s.bookings.BookSlot(context.Background(), req)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestBookSlot_MalformedSlot(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	req := bookingRequest(meeting.ID, "guest@example.com")
	req.DateKey = "15-01-26"
	_, apierr := s.bookings.BookSlot(context.Background(), req)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestBookSlot_DuplicateConflict(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	ctx := context.Background()

	_, apierr := s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "guest@example.com"))
	require.Nil(t, apierr)

	// Same attendee, different slot of the same meeting: still a duplicate.
	req := bookingRequest(meeting.ID, "guest@example.com")
	req.TimeLabel = "10:00 PM"
	_, apierr = s.bookings.BookSlot(ctx, req)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusConflict, apierr.Code())

	updated, _ := s.meetings.GetMeeting(meeting.ID)
	assert.Equal(t, 1, updated.Attendee)
}

func TestBookSlot_ConcurrentDuplicates(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	const n = 8
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, apierr := s.bookings.BookSlot(context.Background(), bookingRequest(meeting.ID, "guest@example.com"))
			if apierr == nil {
				codes <- http.StatusCreated
			} else {
				codes <- apierr.Code()
			}
		}()
	}
	wg.Wait()
	close(codes)

	success, conflict := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			success++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, success, "exactly one identical request may win")
	assert.Equal(t, n-1, conflict)

	count, err := s.attendeeRepo.CountByMeetingID(meeting.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestBookSlot_CalendarMirroring(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	s.calendar.hasCred = true

	mirror := &entity.GoogleCalendarEvent{
		MeetingID: meeting.ID,
		Events: entity.GoogleEventRefs{
			{ID: "ev-1", HTMLLink: "https://calendar.example/ev-1", Schedule: "150126-9:30 PM"},
		},
		CreatedAt: utils.NowUTC(),
	}
	require.NoError(t, s.calendarEventRepo.Save(mirror))

	resp, apierr := s.bookings.BookSlot(context.Background(), bookingRequest(meeting.ID, "guest@example.com"))
	require.Nil(t, apierr)
	assert.Equal(t, "https://calendar.example/ev-1", resp.HTMLLink)
	assert.Empty(t, resp.CalendarWarning)
	assert.Equal(t, []string{"ev-1:guest@example.com"}, s.calendar.added)
}

func TestBookSlot_CalendarFailureIsWarning(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	s.calendar.hasCred = true
	s.calendar.addErr = assert.AnError

	mirror := &entity.GoogleCalendarEvent{
		MeetingID: meeting.ID,
		Events:    entity.GoogleEventRefs{{ID: "ev-1", Schedule: "150126-9:30 PM"}},
		CreatedAt: utils.NowUTC(),
	}
	require.NoError(t, s.calendarEventRepo.Save(mirror))

	resp, apierr := s.bookings.BookSlot(context.Background(), bookingRequest(meeting.ID, "guest@example.com"))
	require.Nil(t, apierr, "a gateway failure must not fail the booking")
	assert.NotEmpty(t, resp.CalendarWarning)

	count, err := s.attendeeRepo.CountByMeetingID(meeting.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCancelBooking(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	ctx := context.Background()

	resp, apierr := s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "guest@example.com"))
	require.Nil(t, apierr)

	require.Nil(t, s.bookings.CancelBooking(ctx, resp.Attendee.ID))

	updated, _ := s.meetings.GetMeeting(meeting.ID)
	assert.Equal(t, 0, updated.Attendee)

	apierr = s.bookings.CancelBooking(ctx, resp.Attendee.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestUpdateAttendee_DuplicateEmail(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	ctx := context.Background()

	_, apierr := s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "a@example.com"))
	require.Nil(t, apierr)

	second, apierr := s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "b@example.com"))
	require.Nil(t, apierr)

	_, apierr = s.bookings.UpdateAttendee(second.Attendee.ID, &service.UpdateAttendeeRequest{Email: "a@example.com"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusConflict, apierr.Code())
}
