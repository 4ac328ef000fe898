package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/playmoney/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidEvent    = "INVALID_EVENT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotBanker       = "NOT_BANKER"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeGameNotOpen     = "GAME_NOT_OPEN"
	CodeGameEnded       = "GAME_ENDED"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeSummaryNotFound = "SUMMARY_NOT_FOUND"
	CodeShuttingDown    = "SHUTTING_DOWN"
	CodeNoFreeGameID    = "NO_FREE_GAME_ID"
	CodeArchiveReadOnly = "ARCHIVE_READ_ONLY"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameNotOpen):
		return &httpError{http.StatusForbidden, APIError{CodeGameNotOpen, "Game is not open to new players"}}
	case errors.Is(err, model.ErrGameEnded):
		return &httpError{http.StatusGone, APIError{CodeGameEnded, "Game has ended"}}
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Not a player of this game"}}
	case errors.Is(err, model.ErrNotBanker):
		return &httpError{http.StatusForbidden, APIError{CodeNotBanker, "Only a banker can perform this action"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrSummaryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSummaryNotFound, "Game summary not found"}}
	case errors.Is(err, model.ErrUnknownEventType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEvent, err.Error()}}
	case errors.Is(err, model.ErrShuttingDown):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeShuttingDown, "Server is shutting down"}}
	case errors.Is(err, model.ErrNoFreeGameID):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNoFreeGameID, "Too many live games, try again later"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInvalidEventError creates an error for an event body that cannot be decoded
func NewInvalidEventError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidEvent, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authorization not provided"}}
}

// NewArchiveReadOnlyError is returned for archive changes when no admin token is configured
func NewArchiveReadOnlyError() error {
	return &httpError{http.StatusForbidden, APIError{CodeArchiveReadOnly, "Archive is read-only"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
