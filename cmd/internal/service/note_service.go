package service

import (
	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindByID(id int) (*entity.Note, error)
	FindByMeetingID(meetingID int) (*entity.Note, error)
	FindByUserID(userID int) ([]*entity.Note, error)
	Save(note *entity.Note) error
	DeleteByMeetingID(meetingID int) error
}

type UpdateNoteRequest struct {
	Content string `json:"content" validate:"max=8192"`
}

type NoteResponse struct {
	ID        int    `json:"id"`
	MeetingID int    `json:"meeting"`
	CreatedBy int    `json:"createdBy"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Notes are companions: one is created empty with each meeting, so the
// service only reads and rewrites content, never creates or deletes.
type DefaultNoteService struct {
	NoteRepo   NoteRepository
	Propagator *DefaultPropagationService
	Validate   *validator.Validate
}

func NewNoteService(noteRepo NoteRepository, propagator *DefaultPropagationService, validate *validator.Validate) *DefaultNoteService {
	return &DefaultNoteService{NoteRepo: noteRepo, Propagator: propagator, Validate: validate}
}

func (n *DefaultNoteService) GetNote(id int) (*NoteResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if note == nil {
		return nil, apierror.NoteNotFoundError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) GetNoteByMeeting(meetingID int) (*NoteResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByMeetingID(meetingID)
	if err != nil {
		log.Errorf("failed to fetch note for meeting %d: %v", meetingID, err)
		return nil, apierror.InternalServerError
	}
	if note == nil {
		return nil, apierror.NoteNotFoundError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) GetNotesByUser(userID int) ([]*NoteResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch notes for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp, nil
}

// UpdateNote rewrites the note content and refreshes the owning meeting's
// isNote flag.
func (n *DefaultNoteService) UpdateNote(id int, req *UpdateNoteRequest) (*NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := n.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	note, err := n.NoteRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if note == nil {
		return nil, apierror.NoteNotFoundError
	}

	note.Content = req.Content
	note.UpdatedAt = utils.NowUTC()
	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to update note %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if err := n.Propagator.RecomputeIsNote(note.MeetingID); err != nil {
		log.Errorf("isNote recompute for meeting %d failed: %v", note.MeetingID, err)
	}
	return toNoteResponse(note), nil
}

func toNoteResponse(note *entity.Note) *NoteResponse {
	return &NoteResponse{
		ID:        note.ID,
		MeetingID: note.MeetingID,
		CreatedBy: note.UserID,
		Content:   note.Content,
		CreatedAt: utils.FormatEpoch(note.CreatedAt),
		UpdatedAt: utils.FormatEpoch(note.UpdatedAt),
	}
}
