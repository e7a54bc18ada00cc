package service_test

import (
	"net/http"
	"testing"

	"timeforge/cmd/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline_Items(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	timeline, apierr := s.timelines.GetTimelineByMeeting(meeting.ID)
	require.Nil(t, apierr)

	updated, apierr := s.timelines.AddItem(timeline.ID, &service.AddTimelineItemRequest{
		StartTime: "9:30 PM",
		EndTime:   "9:45 PM",
		Content:   "intros",
	})
	require.Nil(t, apierr)
	require.Len(t, updated.Items, 1)
	assert.NotEmpty(t, updated.Items[0].ID, "items are independently addressable")

	updated, apierr = s.timelines.UpdateItemContent(timeline.ID, &service.UpdateTimelineItemRequest{
		ID:      updated.Items[0].ID,
		Content: "introductions and agenda",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "introductions and agenda", updated.Items[0].Content)

	_, apierr = s.timelines.UpdateItemContent(timeline.ID, &service.UpdateTimelineItemRequest{
		ID:      "missing",
		Content: "nope",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestTimeline_Guests(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	guest := s.createUser(t, "Guest", "guest@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	timeline, apierr := s.timelines.GetTimelineByMeeting(meeting.ID)
	require.Nil(t, apierr)

	updated, apierr := s.timelines.AddGuest(timeline.ID, &service.AddGuestRequest{ID: guest.ID})
	require.Nil(t, apierr)
	require.Len(t, updated.Guests, 1)

	// Re-adding is a no-op, not a duplicate.
	updated, apierr = s.timelines.AddGuest(timeline.ID, &service.AddGuestRequest{ID: guest.ID})
	require.Nil(t, apierr)
	assert.Len(t, updated.Guests, 1)

	_, apierr = s.timelines.AddGuest(timeline.ID, &service.AddGuestRequest{ID: 99})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())

	updated, apierr = s.timelines.RemoveGuest(timeline.ID, 0)
	require.Nil(t, apierr)
	assert.Empty(t, updated.Guests)

	_, apierr = s.timelines.RemoveGuest(timeline.ID, 0)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestTimeline_Reset(t *testing.T) {
	s := newStack(t)
	owner := s.createUser(t, "Owner", "owner@example.com")
	guest := s.createUser(t, "Guest", "guest@example.com")
	meeting := s.createMeeting(t, owner.ID, "Standup", defaultCatalog())

	timeline, apierr := s.timelines.GetTimelineByMeeting(meeting.ID)
	require.Nil(t, apierr)

	_, apierr = s.timelines.AddGuest(timeline.ID, &service.AddGuestRequest{ID: guest.ID})
	require.Nil(t, apierr)
	_, apierr = s.timelines.AddItem(timeline.ID, &service.AddTimelineItemRequest{
		StartTime: "9:30 PM", EndTime: "9:45 PM", Content: "intros",
	})
	require.Nil(t, apierr)

	reset, apierr := s.timelines.Reset(timeline.ID)
	require.Nil(t, apierr)
	assert.Empty(t, reset.Guests)
	assert.Empty(t, reset.Items)

	// The row itself survives the reset.
	again, apierr := s.timelines.GetTimeline(timeline.ID)
	require.Nil(t, apierr)
	assert.Equal(t, timeline.ID, again.ID)
}
