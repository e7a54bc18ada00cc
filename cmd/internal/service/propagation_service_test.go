package service_test

import (
	"context"
	"net/http"
	"testing"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteMeeting_Cascade(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	keep := s.createMeeting(t, owner.ID, "Retro", defaultCatalog())
	ctx := context.Background()

	_, apierr := s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "a@example.com"))
	require.Nil(t, apierr)
	_, apierr = s.bookings.BookSlot(ctx, bookingRequest(meeting.ID, "b@example.com"))
	require.Nil(t, apierr)

	report, apierr := s.meetings.DeleteMeeting(ctx, meeting.ID)
	require.Nil(t, apierr)
	assert.False(t, report.Failed())

	_, apierr = s.meetings.GetMeeting(meeting.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())

	_, apierr = s.notes.GetNoteByMeeting(meeting.ID)
	assert.NotNil(t, apierr)
	_, apierr = s.timelines.GetTimelineByMeeting(meeting.ID)
	assert.NotNil(t, apierr)

	count, err := s.attendeeRepo.CountByMeetingID(meeting.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	user, _ := s.users.GetUserByID(owner.ID)
	assert.Equal(t, 1, user.TotalMeeting, "counter reflects the surviving meeting")

	// The untouched meeting keeps its companions.
	_, apierr = s.notes.GetNoteByMeeting(keep.ID)
	assert.Nil(t, apierr)
}

func TestDeleteMeeting_CleansCalendarMirror(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	s.calendar.hasCred = true

	mirror := &entity.GoogleCalendarEvent{
		MeetingID: meeting.ID,
		Events: entity.GoogleEventRefs{
			{ID: "ev-1", Schedule: "150126-9:30 PM"},
			{ID: "ev-2", Schedule: "150126-10:00 PM"},
		},
		CreatedAt: utils.NowUTC(),
	}
	require.NoError(t, s.calendarEventRepo.Save(mirror))

	report, apierr := s.meetings.DeleteMeeting(context.Background(), meeting.ID)
	require.Nil(t, apierr)
	assert.False(t, report.Failed())
	assert.ElementsMatch(t, []string{"ev-1", "ev-2"}, s.calendar.deleted)

	stored, err := s.calendarEventRepo.FindByMeetingID(meeting.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteUser_Cascade(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	bystander := s.createUser(t, "Bystander", "bystander@example.com")
	ctx := context.Background()

	first := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())
	second := s.createMeeting(t, owner.ID, "Retro", defaultCatalog())
	s.createMeeting(t, bystander.ID, "1:1", defaultCatalog())

	_, apierr := s.bookings.BookSlot(ctx, bookingRequest(first.ID, "guest@example.com"))
	require.Nil(t, apierr)

	require.NoError(t, s.tokenRepo.Save(&entity.Token{
		UserID:          owner.ID,
		RefreshToken:    "refresh",
		RegisteredEmail: "owner@example.com",
		CreatedAt:       utils.NowUTC(),
	}))

	report, apierr := s.users.DeleteUser(ctx, "owner@example.com")
	require.Nil(t, apierr)
	assert.False(t, report.Failed())

	_, apierr = s.users.GetUserByEmail("owner@example.com")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())

	for _, id := range []int{first.ID, second.ID} {
		_, apierr = s.meetings.GetMeeting(id)
		assert.NotNil(t, apierr)
	}

	token, err := s.tokenRepo.FindByUserID(owner.ID)
	require.NoError(t, err)
	assert.Nil(t, token)

	// The bystander and their meeting are untouched.
	survivor, apierr := s.users.GetUserByEmail("bystander@example.com")
	require.Nil(t, apierr)
	assert.Equal(t, 1, survivor.TotalMeeting)
}

func TestRecomputeIsNote(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	note, apierr := s.notes.GetNoteByMeeting(meeting.ID)
	require.Nil(t, apierr)

	_, apierr = s.notes.UpdateNote(note.ID, &service.UpdateNoteRequest{Content: "agenda"})
	require.Nil(t, apierr)
	updated, _ := s.meetings.GetMeeting(meeting.ID)
	assert.True(t, updated.IsNote)

	// Clearing the content clears the flag; the flag is derived, not latched.
	_, apierr = s.notes.UpdateNote(note.ID, &service.UpdateNoteRequest{Content: ""})
	require.Nil(t, apierr)
	updated, _ = s.meetings.GetMeeting(meeting.ID)
	assert.False(t, updated.IsNote)
}

func TestRecomputeSelfHeals(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	// Corrupt the stored counter, then trigger any recompute.
	stored, err := s.meetingRepo.FindByID(meeting.ID)
	require.NoError(t, err)
	stored.Attendee = 41
	require.NoError(t, s.meetingRepo.Save(stored))

	require.NoError(t, s.propagator.RecomputeAttendeeCount(meeting.ID))

	fixed, _ := s.meetings.GetMeeting(meeting.ID)
	assert.Zero(t, fixed.Attendee)
}
