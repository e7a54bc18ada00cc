package repository_test

import (
	"testing"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/domain/sqlite/repository"
	"timeforge/cmd/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttendee(meetingID int, name, email string) *entity.Attendee {
	return &entity.Attendee{
		Name:      name,
		Email:     email,
		MeetingID: meetingID,
		Slot:      entity.SlotFor("150126", "9:30 PM"),
		CreatedAt: utils.NowUTC(),
	}
}

func TestAttendeeRepository_DuplicateRejection(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "Owner", "owner@example.com")
	meeting := seedMeeting(t, db, owner.ID, "Standup")
	repo := repository.NewAttendeeRepository(db)

	require.NoError(t, repo.Create(newAttendee(meeting.ID, "Guest", "guest@example.com")))

	err := repo.Create(newAttendee(meeting.ID, "Guest Again", "guest@example.com"))
	assert.ErrorIs(t, err, entity.ErrDuplicateAttendee)

	// Same email on a different meeting is a distinct reservation.
	other := seedMeeting(t, db, owner.ID, "Retro")
	assert.NoError(t, repo.Create(newAttendee(other.ID, "Guest", "guest@example.com")))

	count, err := repo.CountByMeetingID(meeting.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAttendeeRepository_SaveMapsDuplicate(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "Owner", "owner@example.com")
	meeting := seedMeeting(t, db, owner.ID, "Standup")
	repo := repository.NewAttendeeRepository(db)

	require.NoError(t, repo.Create(newAttendee(meeting.ID, "A", "a@example.com")))
	second := newAttendee(meeting.ID, "B", "b@example.com")
	require.NoError(t, repo.Create(second))

	// Renaming B to A's email must hit the unique index through Save too.
	second.Email = "a@example.com"
	assert.ErrorIs(t, repo.Save(second), entity.ErrDuplicateAttendee)
}

func TestAttendeeRepository_FindByID_NotFound(t *testing.T) {
	db := testDB(t)
	repo := repository.NewAttendeeRepository(db)

	attendee, err := repo.FindByID(42)
	require.NoError(t, err)
	assert.Nil(t, attendee)
}

func TestAttendeeRepository_DeleteByMeetingID_Idempotent(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "Owner", "owner@example.com")
	meeting := seedMeeting(t, db, owner.ID, "Standup")
	repo := repository.NewAttendeeRepository(db)

	require.NoError(t, repo.Create(newAttendee(meeting.ID, "A", "a@example.com")))
	require.NoError(t, repo.Create(newAttendee(meeting.ID, "B", "b@example.com")))

	require.NoError(t, repo.DeleteByMeetingID(meeting.ID))
	require.NoError(t, repo.DeleteByMeetingID(meeting.ID), "re-running the delete must not fail")

	count, err := repo.CountByMeetingID(meeting.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAttendeeRepository_SlotRoundTrip(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "Owner", "owner@example.com")
	meeting := seedMeeting(t, db, owner.ID, "Standup")
	repo := repository.NewAttendeeRepository(db)

	created := newAttendee(meeting.ID, "Guest", "guest@example.com")
	require.NoError(t, repo.Create(created))

	found, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	key, ok := found.Slot.ScheduleKey()
	require.True(t, ok)
	assert.Equal(t, "150126-9:30 PM", key)
}

func TestAttendeeRepository_FindPage(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "Owner", "owner@example.com")
	meeting := seedMeeting(t, db, owner.ID, "Standup")
	repo := repository.NewAttendeeRepository(db)

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		require.NoError(t, repo.Create(newAttendee(meeting.ID, email, email)))
	}

	page, total, err := repo.FindPage(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Standup", page[0].Event.Title, "page rows carry the owning meeting")

	page, _, err = repo.FindPage(2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
