package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/queuebeat/backend/internal/engine"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// EngineError maps an engine error to its HTTP status. Policy rejections
// are 409: the request was well-formed but the channel's current state or
// settings refused it.
func EngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrNoMatchingPlaylist):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrQueueClosed),
		errors.Is(err, engine.ErrCapacityExceeded),
		errors.Is(err, engine.ErrPriorityOnly),
		errors.Is(err, engine.ErrBumpLimitExceeded),
		errors.Is(err, engine.ErrInsufficientPoints),
		errors.Is(err, engine.ErrAlreadyPlayed):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrChannelHalted),
		errors.Is(err, engine.ErrInvariantViolation):
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
