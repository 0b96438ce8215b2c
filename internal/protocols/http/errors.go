package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"animehub/internal/core"
	"animehub/pkg/models"
)

// statusFor maps service errors to HTTP status codes. Unrecognized errors
// are treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, core.ErrInvalidCredentials):
		return 401
	case errors.Is(err, models.ErrNotAuthorized):
		return 403
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrVersionNotFound):
		return 404
	case errors.Is(err, models.ErrDuplicatePending),
		errors.Is(err, models.ErrAlreadyResolved),
		errors.Is(err, models.ErrUsernameExists),
		errors.Is(err, core.ErrUsernameTaken):
		return 409
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return 503
	case errors.Is(err, models.ErrInvalidInput):
		return 400
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.StatusCode != 0 {
			return appErr.StatusCode
		}
		return 500
	}
}

// fail writes the error envelope with the status derived from err
func fail(c *gin.Context, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == 500 {
		message = "internal server error"
	}

	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

// failWith writes the error envelope with an explicit status and message
func failWith(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

// ok writes the success envelope
func ok(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}
