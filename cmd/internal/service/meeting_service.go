package service

import (
	"context"
	"errors"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type MeetingRepository interface {
	FindByID(id int) (*entity.Meeting, error)
	FindByUserID(userID int) ([]*entity.Meeting, error)
	CountByUserID(userID int) (int64, error)
	FindLatest(limit int) ([]*entity.Meeting, error)
	EventTypeCounts(userID int) (map[string]int64, error)
	FindPage(page, limit int) ([]*entity.Meeting, int64, error)
	Save(meeting *entity.Meeting) error
	Delete(meeting *entity.Meeting) error
}

type CreateMeetingRequest struct {
	Title     string              `json:"title" validate:"required,max=128"`
	Duration  string              `json:"duration" validate:"required,duration"`
	CreatedBy int                 `json:"createdBy" validate:"required"`
	Events    entity.EventCatalog `json:"events"`
	EventType string              `json:"eventType" validate:"required,max=64"`
	Desc      string              `json:"desc" validate:"max=1024"`
	Camera    bool                `json:"camera"`
	Mic       bool                `json:"mic"`
	Offline   bool                `json:"offline"`
}

type UpdateMeetingRequest struct {
	Title     string              `json:"title" validate:"omitempty,max=128"`
	Duration  string              `json:"duration" validate:"omitempty,duration"`
	EventType string              `json:"eventType" validate:"omitempty,max=64"`
	Desc      *string             `json:"desc"`
	Events    entity.EventCatalog `json:"events"`
	Camera    *bool               `json:"camera"`
	Mic       *bool               `json:"mic"`
	Offline   *bool               `json:"offline"`
}

type MeetingResponse struct {
	ID        int                 `json:"id"`
	Title     string              `json:"title"`
	Duration  string              `json:"duration"`
	EventType string              `json:"eventType"`
	Desc      string              `json:"desc,omitempty"`
	CreatedBy int                 `json:"createdBy"`
	Events    entity.EventCatalog `json:"events"`
	Camera    bool                `json:"camera"`
	Mic       bool                `json:"mic"`
	Offline   bool                `json:"offline"`
	Attendee  int                 `json:"attendee"`
	IsNote    bool                `json:"isNote"`
	ExpDate   string              `json:"expDate"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

// MeetingSummary is the list view: no catalog, no description.
type MeetingSummary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	EventType string `json:"eventType"`
	Camera    bool   `json:"camera"`
	Mic       bool   `json:"mic"`
	Offline   bool   `json:"offline"`
	Attendee  int    `json:"attendee"`
	IsNote    bool   `json:"isNote"`
	ExpDate   string `json:"expDate"`
	CreatedAt string `json:"created_at"`
}

type UserChartsResponse struct {
	Meeting     []string `json:"meeting"`
	Attendee    []int    `json:"attendee"`
	EventType   []string `json:"eventType"`
	EventNumber []int64  `json:"eventNumber"`
}

type DefaultMeetingService struct {
	MeetingRepo MeetingRepository
	UserRepo    UserRepository
	Propagator  *DefaultPropagationService
	Validate    *validator.Validate
}

func NewMeetingService(
	meetingRepo MeetingRepository,
	userRepo UserRepository,
	propagator *DefaultPropagationService,
	validate *validator.Validate,
) *DefaultMeetingService {
	return &DefaultMeetingService{
		MeetingRepo: meetingRepo,
		UserRepo:    userRepo,
		Propagator:  propagator,
		Validate:    validate,
	}
}

// CreateMeeting validates the availability catalog, computes the expiry
// date and persists the meeting with its companion note and timeline. An
// empty catalog is rejected before anything is written.
func (m *DefaultMeetingService) CreateMeeting(req *CreateMeetingRequest) (*MeetingResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := m.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if err := req.Events.Validate(); err != nil {
		if errors.Is(err, entity.ErrEmptyCatalog) {
			return nil, apierror.EmptyCatalogError
		}
		return nil, apierror.NewSimple(400, err.Error())
	}

	owner, err := m.UserRepo.FindByID(req.CreatedBy)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", req.CreatedBy, err)
		return nil, apierror.InternalServerError
	}
	if owner == nil {
		return nil, apierror.UserNotFoundError
	}

	expDate, err := req.Events.ExpDate()
	if err != nil {
		return nil, apierror.NewSimple(400, err.Error())
	}

	now := utils.NowUTC()
	meeting := &entity.Meeting{
		Title:     req.Title,
		Duration:  req.Duration,
		EventType: req.EventType,
		UserID:    req.CreatedBy,
		Events:    req.Events,
		Camera:    req.Camera,
		Mic:       req.Mic,
		Offline:   req.Offline,
		ExpDate:   expDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Desc != "" {
		meeting.Desc = &req.Desc
	}

	if err := m.MeetingRepo.Save(meeting); err != nil {
		log.Errorf("failed to save meeting: %v", err)
		return nil, apierror.InternalServerError
	}

	if err := m.Propagator.MeetingCreated(meeting); err != nil {
		log.Errorf("propagation for meeting %d failed: %v", meeting.ID, err)
		return nil, apierror.InternalServerError
	}
	return toMeetingResponse(meeting), nil
}

func (m *DefaultMeetingService) GetMeeting(id int) (*MeetingResponse, apierror.ErrorResponse) {
	meeting, err := m.MeetingRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch meeting %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}
	return toMeetingResponse(meeting), nil
}

func (m *DefaultMeetingService) GetMeetingsByUser(userID int) ([]*MeetingSummary, apierror.ErrorResponse) {
	meetings, err := m.MeetingRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch meetings for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*MeetingSummary, len(meetings))
	for i, meeting := range meetings {
		resp[i] = toMeetingSummary(meeting)
	}
	return resp, nil
}

// UpdateMeeting patches the mutable fields. The expiry date is not
// refreshed when the catalog changes; it is computed at creation only.
func (m *DefaultMeetingService) UpdateMeeting(id int, req *UpdateMeetingRequest) (*MeetingResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := m.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	meeting, err := m.MeetingRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch meeting %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}

	if req.Title != "" {
		meeting.Title = req.Title
	}
	if req.Duration != "" {
		meeting.Duration = req.Duration
	}
	if req.EventType != "" {
		meeting.EventType = req.EventType
	}
	if req.Desc != nil {
		meeting.Desc = req.Desc
	}
	if req.Events != nil {
		if err := req.Events.Validate(); err != nil {
			return nil, apierror.NewSimple(400, err.Error())
		}
		meeting.Events = req.Events
	}
	if req.Camera != nil {
		meeting.Camera = *req.Camera
	}
	if req.Mic != nil {
		meeting.Mic = *req.Mic
	}
	if req.Offline != nil {
		meeting.Offline = *req.Offline
	}
	meeting.UpdatedAt = utils.NowUTC()

	if err := m.MeetingRepo.Save(meeting); err != nil {
		log.Errorf("failed to update meeting %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toMeetingResponse(meeting), nil
}

// DeleteMeeting runs the full cascade and returns its per-step report.
func (m *DefaultMeetingService) DeleteMeeting(ctx context.Context, id int) (*CascadeReport, apierror.ErrorResponse) {
	meeting, err := m.MeetingRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch meeting %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}
	return m.Propagator.DeleteMeeting(ctx, meeting), nil
}

// Home returns the latest meetings for the landing page.
func (m *DefaultMeetingService) Home() ([]*MeetingSummary, apierror.ErrorResponse) {
	meetings, err := m.MeetingRepo.FindLatest(4)
	if err != nil {
		log.Errorf("failed to fetch latest meetings: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*MeetingSummary, len(meetings))
	for i, meeting := range meetings {
		resp[i] = toMeetingSummary(meeting)
	}
	return resp, nil
}

// UserCharts aggregates a user's meetings for the dashboard charts:
// per-meeting attendee counts plus a per-eventType histogram.
func (m *DefaultMeetingService) UserCharts(userID int) (*UserChartsResponse, apierror.ErrorResponse) {
	meetings, err := m.MeetingRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch meetings for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	resp := &UserChartsResponse{
		Meeting:     []string{},
		Attendee:    []int{},
		EventType:   []string{},
		EventNumber: []int64{},
	}
	for _, meeting := range meetings {
		resp.Meeting = append(resp.Meeting, meeting.Title)
		resp.Attendee = append(resp.Attendee, meeting.Attendee)
	}

	counts, err := m.MeetingRepo.EventTypeCounts(userID)
	if err != nil {
		log.Errorf("failed to aggregate event types for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}
	for eventType, count := range counts {
		resp.EventType = append(resp.EventType, eventType)
		resp.EventNumber = append(resp.EventNumber, count)
	}
	return resp, nil
}

func toMeetingResponse(meeting *entity.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:        meeting.ID,
		Title:     meeting.Title,
		Duration:  meeting.Duration,
		EventType: meeting.EventType,
		CreatedBy: meeting.UserID,
		Events:    meeting.Events,
		Camera:    meeting.Camera,
		Mic:       meeting.Mic,
		Offline:   meeting.Offline,
		Attendee:  meeting.Attendee,
		IsNote:    meeting.IsNote,
		ExpDate:   meeting.ExpDate,
		CreatedAt: utils.FormatEpoch(meeting.CreatedAt),
		UpdatedAt: utils.FormatEpoch(meeting.UpdatedAt),
	}
	if meeting.Desc != nil {
		resp.Desc = *meeting.Desc
	}
	return resp
}

func toMeetingSummary(meeting *entity.Meeting) *MeetingSummary {
	return &MeetingSummary{
		ID:        meeting.ID,
		Title:     meeting.Title,
		Duration:  meeting.Duration,
		EventType: meeting.EventType,
		Camera:    meeting.Camera,
		Mic:       meeting.Mic,
		Offline:   meeting.Offline,
		Attendee:  meeting.Attendee,
		IsNote:    meeting.IsNote,
		ExpDate:   meeting.ExpDate,
		CreatedAt: utils.FormatEpoch(meeting.CreatedAt),
	}
}
