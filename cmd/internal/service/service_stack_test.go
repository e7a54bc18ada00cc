package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/domain/sqlite/repository"
	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeCalendar stands in for the Google gateway. It records every call and
// can be told to fail or to pretend the owner never authorized.
type fakeCalendar struct {
	mu       sync.Mutex
	hasCred  bool
	addErr   error
	added    []string
	removed  []string
	deleted  []string
	exchange *service.OAuthResult
}

func (f *fakeCalendar) HasCredential(ctx context.Context, ownerID int) (bool, error) {
	return f.hasCred, nil
}

func (f *fakeCalendar) ResolveCalendarID(ctx context.Context, ownerID int) (string, error) {
	return "cal-1", nil
}

func (f *fakeCalendar) MirrorAttendeeAdd(ctx context.Context, ownerID int, calendarID, eventID, name, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	f.added = append(f.added, eventID+":"+email)
	return "https://calendar.example/" + eventID, nil
}

func (f *fakeCalendar) MirrorAttendeeRemove(ctx context.Context, ownerID int, calendarID, eventID, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, eventID+":"+email)
	return nil
}

func (f *fakeCalendar) DeleteExternalEvent(ctx context.Context, ownerID int, calendarID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendar) InsertMeetingEvents(ctx context.Context, ownerID int, meeting *entity.Meeting, attendees []*entity.Attendee) ([]entity.GoogleEventRef, error) {
	var refs []entity.GoogleEventRef
	i := 0
	for dateKey, labels := range meeting.Events {
		for _, label := range labels {
			i++
			refs = append(refs, entity.GoogleEventRef{
				ID:       fmt.Sprintf("ev-%d", i),
				HTMLLink: fmt.Sprintf("https://calendar.example/ev-%d", i),
				Schedule: entity.ScheduleKey(dateKey, label),
			})
		}
	}
	return refs, nil
}

func (f *fakeCalendar) AuthURL(state, accessType string) string {
	return "https://accounts.example/auth?state=" + state
}

func (f *fakeCalendar) ExchangeCode(ctx context.Context, code string) (*service.OAuthResult, error) {
	if f.exchange == nil {
		return nil, fmt.Errorf("bad code %q", code)
	}
	return f.exchange, nil
}

var _ service.CalendarGateway = (*fakeCalendar)(nil)

// stack wires the full service layer over a throwaway database, the same
// way main does, with the gateway swapped for the fake.
type stack struct {
	db       *gorm.DB
	calendar *fakeCalendar

	userRepo          *repository.DefaultUserRepository
	meetingRepo       *repository.DefaultMeetingRepository
	attendeeRepo      *repository.DefaultAttendeeRepository
	noteRepo          *repository.DefaultNoteRepository
	timelineRepo      *repository.DefaultTimelineRepository
	tokenRepo         *repository.DefaultTokenRepository
	calendarEventRepo *repository.DefaultCalendarEventRepository

	propagator *service.DefaultPropagationService
	users      *service.DefaultUserService
	meetings   *service.DefaultMeetingService
	bookings   *service.DefaultBookingService
	notes      *service.DefaultNoteService
	timelines  *service.DefaultTimelineService
	calendars  *service.DefaultCalendarService
	admin      *service.DefaultAdminService
}

func newStack(t *testing.T) *stack {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Meeting{},
		&entity.Attendee{},
		&entity.Note{},
		&entity.Timeline{},
		&entity.Token{},
		&entity.GoogleCalendarEvent{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("datekey", validators.IsDateKey))
	require.NoError(t, validate.RegisterValidation("timelabel", validators.IsTimeLabel))
	require.NoError(t, validate.RegisterValidation("duration", validators.IsDuration))

	s := &stack{
		db:                db,
		calendar:          &fakeCalendar{},
		userRepo:          repository.NewUserRepository(db),
		meetingRepo:       repository.NewMeetingRepository(db),
		attendeeRepo:      repository.NewAttendeeRepository(db),
		noteRepo:          repository.NewNoteRepository(db),
		timelineRepo:      repository.NewTimelineRepository(db),
		tokenRepo:         repository.NewTokenRepository(db),
		calendarEventRepo: repository.NewCalendarEventRepository(db),
	}
	s.propagator = service.NewPropagationService(
		s.userRepo, s.meetingRepo, s.attendeeRepo, s.noteRepo,
		s.timelineRepo, s.tokenRepo, s.calendarEventRepo, s.calendar)
	s.users = service.NewUserService(s.userRepo, s.propagator, validate)
	s.meetings = service.NewMeetingService(s.meetingRepo, s.userRepo, s.propagator, validate)
	s.bookings = service.NewBookingService(
		s.meetingRepo, s.attendeeRepo, s.calendarEventRepo, s.propagator, s.calendar, validate)
	s.notes = service.NewNoteService(s.noteRepo, s.propagator, validate)
	s.timelines = service.NewTimelineService(s.timelineRepo, s.userRepo, validate)
	s.calendars = service.NewCalendarService(
		s.tokenRepo, s.userRepo, s.meetingRepo, s.attendeeRepo,
		s.calendarEventRepo, s.calendar, validate)
	s.admin = service.NewAdminService(s.userRepo, s.meetingRepo, s.attendeeRepo, s.timelineRepo)
	return s
}

func (s *stack) createUser(t *testing.T, name, email string) *service.UserResponse {
	t.Helper()
	user, created, apierr := s.users.CreateUser(&service.CreateUserRequest{Name: name, Email: email})
	require.Nil(t, apierr)
	require.True(t, created)
	return user
}

func (s *stack) createMeeting(t *testing.T, ownerID int, title string, catalog entity.EventCatalog) *service.MeetingResponse {
	t.Helper()
	meeting, apierr := s.meetings.CreateMeeting(&service.CreateMeetingRequest{
		Title:     title,
		Duration:  "30",
		CreatedBy: ownerID,
		Events:    catalog,
		EventType: "interview",
	})
	require.Nil(t, apierr)
	return meeting
}

func defaultCatalog() entity.EventCatalog {
	return entity.EventCatalog{
		"150126": {"9:30 PM", "10:00 PM"},
		"160126": {"8:00 AM"},
	}
}
