package apperrors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error. Code carries the HTTP status of the
// failure; a Code of zero means the error never reached the remote side
// (transport failure).
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Authentication error types
var (
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
)

// Cart and checkout error types
var (
	ErrEmptyCart    = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrInvalidInput = New(http.StatusBadRequest, "Invalid input", nil)
)

// ErrorMiddleware converts errors attached to the gin context into JSON
// responses. Unknown errors become 500s.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = New(http.StatusInternalServerError, "Internal server error", err)
			}

			status := appErr.Code
			if status == 0 {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, appErr)
			c.Abort()
		}
	}
}

// UpstreamMessage derives a human-readable message from a remote error
// response body. It checks, in order, a server-provided "message" field, a
// server-provided "error" field, and finally the transport error.
func UpstreamMessage(body []byte, transportErr error) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if transportErr != nil {
		return transportErr.Error()
	}
	return "Something went wrong. Please try again."
}
