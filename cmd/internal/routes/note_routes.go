package routes

import (
	"net/http"

	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NoteService interface {
	GetNote(id int) (*service.NoteResponse, apierror.ErrorResponse)
	GetNoteByMeeting(meetingID int) (*service.NoteResponse, apierror.ErrorResponse)
	GetNotesByUser(userID int) ([]*service.NoteResponse, apierror.ErrorResponse)
	UpdateNote(id int, req *service.UpdateNoteRequest) (*service.NoteResponse, apierror.ErrorResponse)
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	note, apierr := n.NoteService.GetNote(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) GetNoteByMeeting(c echo.Context) error {
	meetingID, apierr := pathID(c, "meetingId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	note, apierr := n.NoteService.GetNoteByMeeting(meetingID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) GetNotesByUser(c echo.Context) error {
	userID, apierr := pathID(c, "userId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	notes, apierr := n.NoteService.GetNotesByUser(userID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notes": notes}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.UpdateNote(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}
