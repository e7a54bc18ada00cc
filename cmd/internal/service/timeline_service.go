package service

import (
	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type TimelineRepository interface {
	FindByID(id int) (*entity.Timeline, error)
	FindByMeetingID(meetingID int) (*entity.Timeline, error)
	FindByUserID(userID int) ([]*entity.Timeline, error)
	FindPage(page, limit int) ([]*entity.Timeline, int64, error)
	Save(timeline *entity.Timeline) error
	DeleteByMeetingID(meetingID int) error
}

type AddTimelineItemRequest struct {
	StartTime string `json:"startTime" validate:"required,max=64"`
	EndTime   string `json:"endTime" validate:"required,max=64"`
	Content   string `json:"content" validate:"required,max=2048"`
}

type UpdateTimelineItemRequest struct {
	ID      string `json:"id" validate:"required"`
	Content string `json:"content" validate:"required,max=2048"`
}

type AddGuestRequest struct {
	ID int `json:"id" validate:"required"`
}

type TimelineResponse struct {
	ID        int                  `json:"id"`
	MeetingID int                  `json:"meeting"`
	CreatedBy int                  `json:"createdBy"`
	Guests    entity.IntList       `json:"guest"`
	Items     entity.TimelineItems `json:"timeline"`
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}

type DefaultTimelineService struct {
	TimelineRepo TimelineRepository
	UserRepo     UserRepository
	Validate     *validator.Validate
}

func NewTimelineService(timelineRepo TimelineRepository, userRepo UserRepository, validate *validator.Validate) *DefaultTimelineService {
	return &DefaultTimelineService{TimelineRepo: timelineRepo, UserRepo: userRepo, Validate: validate}
}

func (t *DefaultTimelineService) GetTimeline(id int) (*TimelineResponse, apierror.ErrorResponse) {
	timeline, apierr := t.fetch(id)
	if apierr != nil {
		return nil, apierr
	}
	return toTimelineResponse(timeline), nil
}

func (t *DefaultTimelineService) GetTimelineByMeeting(meetingID int) (*TimelineResponse, apierror.ErrorResponse) {
	timeline, err := t.TimelineRepo.FindByMeetingID(meetingID)
	if err != nil {
		log.Errorf("failed to fetch timeline for meeting %d: %v", meetingID, err)
		return nil, apierror.InternalServerError
	}
	if timeline == nil {
		return nil, apierror.TimelineNotFoundError
	}
	return toTimelineResponse(timeline), nil
}

func (t *DefaultTimelineService) GetTimelinesByUser(userID int) ([]*TimelineResponse, apierror.ErrorResponse) {
	timelines, err := t.TimelineRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch timelines for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*TimelineResponse, len(timelines))
	for i, timeline := range timelines {
		resp[i] = toTimelineResponse(timeline)
	}
	return resp, nil
}

// AddItem appends an entry to the timeline; each entry gets its own id so
// it stays independently addressable.
func (t *DefaultTimelineService) AddItem(timelineID int, req *AddTimelineItemRequest) (*TimelineResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	timeline, apierr := t.fetch(timelineID)
	if apierr != nil {
		return nil, apierr
	}

	timeline.Items = append(timeline.Items, entity.TimelineItem{
		ID:        uuid.NewString(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Content:   req.Content,
	})
	return t.save(timeline)
}

// UpdateItemContent rewrites the content of one timeline entry by id.
func (t *DefaultTimelineService) UpdateItemContent(timelineID int, req *UpdateTimelineItemRequest) (*TimelineResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	timeline, apierr := t.fetch(timelineID)
	if apierr != nil {
		return nil, apierr
	}

	found := false
	for i := range timeline.Items {
		if timeline.Items[i].ID == req.ID {
			timeline.Items[i].Content = req.Content
			found = true
			break
		}
	}
	if !found {
		return nil, apierror.NewSimple(404, "Timeline item not found")
	}
	return t.save(timeline)
}

// Reset clears the guest list and every entry, keeping the timeline row.
func (t *DefaultTimelineService) Reset(timelineID int) (*TimelineResponse, apierror.ErrorResponse) {
	timeline, apierr := t.fetch(timelineID)
	if apierr != nil {
		return nil, apierr
	}

	timeline.Guests = entity.IntList{}
	timeline.Items = entity.TimelineItems{}
	return t.save(timeline)
}

func (t *DefaultTimelineService) AddGuest(timelineID int, req *AddGuestRequest) (*TimelineResponse, apierror.ErrorResponse) {
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	timeline, apierr := t.fetch(timelineID)
	if apierr != nil {
		return nil, apierr
	}

	guest, err := t.UserRepo.FindByID(req.ID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", req.ID, err)
		return nil, apierror.InternalServerError
	}
	if guest == nil {
		return nil, apierror.UserNotFoundError
	}

	for _, id := range timeline.Guests {
		if id == guest.ID {
			return toTimelineResponse(timeline), nil
		}
	}
	timeline.Guests = append(timeline.Guests, guest.ID)
	return t.save(timeline)
}

// RemoveGuest drops the guest at the given position.
func (t *DefaultTimelineService) RemoveGuest(timelineID, index int) (*TimelineResponse, apierror.ErrorResponse) {
	timeline, apierr := t.fetch(timelineID)
	if apierr != nil {
		return nil, apierr
	}

	if index < 0 || index >= len(timeline.Guests) {
		return nil, apierror.NewSimple(400, "Invalid index")
	}
	timeline.Guests = append(timeline.Guests[:index], timeline.Guests[index+1:]...)
	return t.save(timeline)
}

func (t *DefaultTimelineService) fetch(id int) (*entity.Timeline, apierror.ErrorResponse) {
	timeline, err := t.TimelineRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch timeline %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if timeline == nil {
		return nil, apierror.TimelineNotFoundError
	}
	return timeline, nil
}

func (t *DefaultTimelineService) save(timeline *entity.Timeline) (*TimelineResponse, apierror.ErrorResponse) {
	timeline.UpdatedAt = utils.NowUTC()
	if err := t.TimelineRepo.Save(timeline); err != nil {
		log.Errorf("failed to save timeline %d: %v", timeline.ID, err)
		return nil, apierror.InternalServerError
	}
	return toTimelineResponse(timeline), nil
}

func toTimelineResponse(timeline *entity.Timeline) *TimelineResponse {
	return &TimelineResponse{
		ID:        timeline.ID,
		MeetingID: timeline.MeetingID,
		CreatedBy: timeline.UserID,
		Guests:    timeline.Guests,
		Items:     timeline.Items,
		CreatedAt: utils.FormatEpoch(timeline.CreatedAt),
		UpdatedAt: utils.FormatEpoch(timeline.UpdatedAt),
	}
}
