package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordchain-go/internal/model"
)

// APIError is the body of every non-2xx JSON response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConnectionNotFound  = "CONNECTION_NOT_FOUND"
	CodeConnectionConflict  = "CONNECTION_CONFLICT"
	CodeDictionaryNotLoaded = "DICTIONARY_NOT_LOADED"
	CodeInternalError       = "INTERNAL_ERROR"
)

type statusError struct {
	status int
	body   APIError
}

func (e *statusError) Error() string {
	return e.body.Message
}

// sentinels maps domain errors onto HTTP responses. The first match wins.
var sentinels = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{model.ErrPlayerNotFound, http.StatusNotFound, CodeConnectionNotFound, "Connection not found"},
	{model.ErrDuplicateConnection, http.StatusConflict, CodeConnectionConflict, "Connection already registered"},
	{model.ErrAlreadyJoined, http.StatusConflict, CodeConnectionConflict, "Connection has already joined"},
	{model.ErrDictionaryNotLoaded, http.StatusServiceUnavailable, CodeDictionaryNotLoaded, "Dictionary not loaded"},
	{model.ErrEmptyDisplayName, http.StatusBadRequest, CodeInvalidRequest, ""},
	{model.ErrEmptyWord, http.StatusBadRequest, CodeInvalidRequest, ""},
}

// WriteError writes err as a JSON error response
func WriteError(w http.ResponseWriter, err error) {
	se := classify(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(se.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: se.body})
}

func classify(err error) *statusError {
	var se *statusError
	if errors.As(err, &se) {
		return se
	}

	for _, s := range sentinels {
		if !errors.Is(err, s.target) {
			continue
		}
		msg := s.message
		if msg == "" {
			msg = err.Error()
		}
		return &statusError{s.status, APIError{s.code, msg}}
	}
	return &statusError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

func NewInvalidRequestError(message string) error {
	return &statusError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError is returned when the bearer token is missing or invalid
func NewUnauthorizedError() error {
	return &statusError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

func NewInternalError() error {
	return &statusError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
