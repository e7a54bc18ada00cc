package service

import (
	"context"
	"fmt"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"

	"github.com/labstack/gommon/log"
)

// CascadeStep is one dependent-record deletion (or counter recompute)
// inside a cascade.
type CascadeStep struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CascadeReport lists every step of a cascade. There is no multi-record
// transaction underneath: a failed step leaves the earlier ones committed,
// and every step is delete-by-owner so the whole cascade can be re-driven.
type CascadeReport struct {
	Steps    []CascadeStep `json:"steps"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (r *CascadeReport) step(name string, err error) {
	s := CascadeStep{Name: name, OK: err == nil}
	if err != nil {
		s.Error = err.Error()
	}
	r.Steps = append(r.Steps, s)
}

func (r *CascadeReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Failed reports whether any cascade step failed.
func (r *CascadeReport) Failed() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return true
		}
	}
	return false
}

// DefaultPropagationService keeps derived counters and dependent records in
// lockstep with primary writes. Counters are always recomputed from the
// authoritative count, never incremented, so a missed or duplicated trigger
// self-heals on the next write.
type DefaultPropagationService struct {
	UserRepo          UserRepository
	MeetingRepo       MeetingRepository
	AttendeeRepo      AttendeeRepository
	NoteRepo          NoteRepository
	TimelineRepo      TimelineRepository
	TokenRepo         TokenRepository
	CalendarEventRepo CalendarEventRepository
	Calendar          CalendarGateway
}

func NewPropagationService(
	userRepo UserRepository,
	meetingRepo MeetingRepository,
	attendeeRepo AttendeeRepository,
	noteRepo NoteRepository,
	timelineRepo TimelineRepository,
	tokenRepo TokenRepository,
	calendarEventRepo CalendarEventRepository,
	calendar CalendarGateway,
) *DefaultPropagationService {
	return &DefaultPropagationService{
		UserRepo:          userRepo,
		MeetingRepo:       meetingRepo,
		AttendeeRepo:      attendeeRepo,
		NoteRepo:          noteRepo,
		TimelineRepo:      timelineRepo,
		TokenRepo:         tokenRepo,
		CalendarEventRepo: calendarEventRepo,
		Calendar:          calendar,
	}
}

// MeetingCreated creates the meeting's companion note and timeline and
// refreshes the owner's meeting count.
func (p *DefaultPropagationService) MeetingCreated(meeting *entity.Meeting) error {
	now := utils.NowUTC()

	note := &entity.Note{
		MeetingID: meeting.ID,
		UserID:    meeting.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.NoteRepo.Save(note); err != nil {
		return fmt.Errorf("create companion note: %w", err)
	}

	timeline := &entity.Timeline{
		MeetingID: meeting.ID,
		UserID:    meeting.UserID,
		Guests:    entity.IntList{},
		Items:     entity.TimelineItems{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.TimelineRepo.Save(timeline); err != nil {
		return fmt.Errorf("create companion timeline: %w", err)
	}

	return p.RecomputeTotalMeeting(meeting.UserID)
}

// RecomputeTotalMeeting rewrites the user's totalMeeting from the live
// meeting count.
func (p *DefaultPropagationService) RecomputeTotalMeeting(userID int) error {
	user, err := p.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	count, err := p.MeetingRepo.CountByUserID(userID)
	if err != nil {
		return err
	}

	user.TotalMeeting = int(count)
	user.UpdatedAt = utils.NowUTC()
	return p.UserRepo.Save(user)
}

// RecomputeAttendeeCount rewrites the meeting's attendee counter from the
// live reservation count.
func (p *DefaultPropagationService) RecomputeAttendeeCount(meetingID int) error {
	meeting, err := p.MeetingRepo.FindByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}

	count, err := p.AttendeeRepo.CountByMeetingID(meetingID)
	if err != nil {
		return err
	}

	meeting.Attendee = int(count)
	meeting.UpdatedAt = utils.NowUTC()
	return p.MeetingRepo.Save(meeting)
}

// RecomputeIsNote rewrites the meeting's isNote flag: true while the
// companion note exists and has content.
func (p *DefaultPropagationService) RecomputeIsNote(meetingID int) error {
	meeting, err := p.MeetingRepo.FindByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}

	note, err := p.NoteRepo.FindByMeetingID(meetingID)
	if err != nil {
		return err
	}

	meeting.IsNote = note != nil && note.Content != ""
	meeting.UpdatedAt = utils.NowUTC()
	return p.MeetingRepo.Save(meeting)
}

// DeleteMeeting cascades through the meeting's dependents, then the meeting
// row, then the owner's counter. The counter recompute runs last so it
// never reads counts the cascade is about to change.
func (p *DefaultPropagationService) DeleteMeeting(ctx context.Context, meeting *entity.Meeting) *CascadeReport {
	report := &CascadeReport{}

	p.cleanupCalendarMirror(ctx, meeting, report)

	report.step("attendees", p.AttendeeRepo.DeleteByMeetingID(meeting.ID))
	report.step("note", p.NoteRepo.DeleteByMeetingID(meeting.ID))
	report.step("timeline", p.TimelineRepo.DeleteByMeetingID(meeting.ID))
	report.step("meeting", p.MeetingRepo.Delete(meeting))
	report.step("owner total recompute", p.RecomputeTotalMeeting(meeting.UserID))

	return report
}

// cleanupCalendarMirror best-effort deletes the mirrored external events,
// then drops the mirror record. Only the record deletion is a cascade step;
// external failures are warnings per the integration policy.
func (p *DefaultPropagationService) cleanupCalendarMirror(ctx context.Context, meeting *entity.Meeting, report *CascadeReport) {
	mirror, err := p.CalendarEventRepo.FindByMeetingID(meeting.ID)
	if err != nil {
		report.step("calendar mirror", err)
		return
	}
	if mirror == nil {
		return
	}

	hasCred, err := p.hasCredential(ctx, meeting.UserID)
	if err != nil {
		log.Warnf("credential check for user %d failed: %v", meeting.UserID, err)
	}
	if hasCred {
		gctx, cancel := gatewayContext(ctx)
		defer cancel()

		calendarID, err := p.Calendar.ResolveCalendarID(gctx, meeting.UserID)
		if err != nil {
			report.warn("resolve calendar: %v", err)
		} else {
			for _, ref := range mirror.Events {
				if err := p.Calendar.DeleteExternalEvent(gctx, meeting.UserID, calendarID, ref.ID); err != nil {
					log.Warnf("delete external event %s: %v", ref.ID, err)
					report.warn("external event %s not removed: %v", ref.ID, err)
				}
			}
		}
	}

	report.step("calendar mirror", p.CalendarEventRepo.DeleteByMeetingID(meeting.ID))
}

// DeleteUser runs the account cascade depth-first: every owned meeting with
// its dependents, then the calendar credential, then the user row.
func (p *DefaultPropagationService) DeleteUser(ctx context.Context, user *entity.User) *CascadeReport {
	report := &CascadeReport{}

	meetings, err := p.MeetingRepo.FindByUserID(user.ID)
	if err != nil {
		report.step("list meetings", err)
		return report
	}

	for _, meeting := range meetings {
		sub := p.DeleteMeeting(ctx, meeting)
		for _, s := range sub.Steps {
			report.step(fmt.Sprintf("meeting %d: %s", meeting.ID, s.Name), stepErr(s))
		}
		report.Warnings = append(report.Warnings, sub.Warnings...)
	}

	report.step("token", p.TokenRepo.DeleteByUserID(user.ID))
	report.step("user", p.UserRepo.Delete(user))

	return report
}

func (p *DefaultPropagationService) hasCredential(ctx context.Context, ownerID int) (bool, error) {
	gctx, cancel := gatewayContext(ctx)
	defer cancel()
	return p.Calendar.HasCredential(gctx, ownerID)
}

func stepErr(s CascadeStep) error {
	if s.OK {
		return nil
	}
	return fmt.Errorf("%s", s.Error)
}
