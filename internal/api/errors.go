package api

import (
	"errors"
	"fmt"

	"github.com/kodik/postcard/internal/db"
	"github.com/kodik/postcard/internal/postcard"
)

// Application error codes
const (
	ErrServerError = -32000
	ErrNotFound    = -32004
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
	Detail  string
}

func invalidParams(format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrInvalidParams,
		Message: "Invalid params",
		Detail:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// errorCode maps a handler error onto a JSON-RPC code and message
func errorCode(err error) (int, string) {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code, apiErr.Message
	case errors.Is(err, postcard.ErrMountNotFound),
		errors.Is(err, postcard.ErrPostNotFound),
		errors.Is(err, db.ErrPostNotFound):
		return ErrNotFound, "Not found"
	case errors.Is(err, postcard.ErrCommentsHidden):
		return ErrInvalidRequest, "Invalid Request"
	default:
		return ErrServerError, "Server error"
	}
}
