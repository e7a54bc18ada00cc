package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes: an error that knows
// its HTTP status and serializes to the response body.
type ErrorResponse interface {
	error
	Code() int
}

type simpleError struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"msg"`
}

func (e *simpleError) Error() string { return e.Msg }
func (e *simpleError) Code() int     { return e.StatusCode }

func NewSimple(code int, msg string) ErrorResponse {
	return &simpleError{StatusCode: code, Msg: msg}
}

var (
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed request body")
	NotFoundError       = NewSimple(http.StatusNotFound, "Resource not found")

	MeetingNotFoundError  = NewSimple(http.StatusNotFound, "Meeting not found")
	UserNotFoundError     = NewSimple(http.StatusNotFound, "User not found")
	AttendeeNotFoundError = NewSimple(http.StatusNotFound, "Attendee not found")
	TimelineNotFoundError = NewSimple(http.StatusNotFound, "Timeline not found")
	NoteNotFoundError     = NewSimple(http.StatusNotFound, "Note not found")

	EmptyCatalogError  = NewSimple(http.StatusBadRequest, "Availability catalog must offer at least one slot")
	TokenExistsError   = NewSimple(http.StatusBadRequest, "Token already exist for this user")
	NotAuthorizedError = NewSimple(http.StatusBadRequest, "Authorize First")
)

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter %q", name))
}

func NewInvalidParamTypeError(name, want string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter %q must be a %s", name, want))
}

// NewConflictError reports a duplicate booking; the caller may retry with
// different input, not the same request.
func NewConflictError(email string) ErrorResponse {
	return NewSimple(http.StatusConflict,
		fmt.Sprintf("%s already in attendee list for this event", email))
}

// NewSlotNotOfferedError reports a (dateKey, timeLabel) pair absent from
// the meeting's catalog.
func NewSlotNotOfferedError(dateKey, timeLabel string) ErrorResponse {
	return NewSimple(http.StatusBadRequest,
		fmt.Sprintf("Slot %s %s is not offered by this meeting", dateKey, timeLabel))
}

// FromValidationError flattens validator.ValidationErrors into a 400.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
	}
	return NewSimple(http.StatusBadRequest,
		"Validation failed: "+strings.Join(fields, ", "))
}
