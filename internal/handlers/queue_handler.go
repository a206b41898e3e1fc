package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/repository"
)

type QueueHandler struct {
	engine      *engine.Engine
	channelRepo *repository.ChannelRepository
}

func NewQueueHandler(eng *engine.Engine, channelRepo *repository.ChannelRepository) *QueueHandler {
	return &QueueHandler{
		engine:      eng,
		channelRepo: channelRepo,
	}
}

func (h *QueueHandler) channelFromParam(c *gin.Context) *models.Channel {
	login := strings.ToLower(c.Param("login"))
	channel, err := h.channelRepo.GetByLogin(login)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Channel not found")
		return nil
	}
	return channel
}

// Enqueue adds a song request to the channel's queue
func (h *QueueHandler) Enqueue(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var req models.EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Link == "" && req.Title == "" {
		ErrorResponse(c, http.StatusBadRequest, "link or title is required")
		return
	}

	request, err := h.engine.Enqueue(channel.ID, engine.EnqueueParams{
		Link:              req.Link,
		Title:             req.Title,
		Artist:            req.Artist,
		PlatformUserID:    req.PlatformUserID,
		UserDisplayName:   req.UserDisplayName,
		WantPriority:      req.WantPriority,
		PreferSubFreeBump: req.PreferSubFreeBump,
		IsSubscriber:      req.IsSubscriber,
	})
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Snapshot returns the ordered queue; ?played=1 includes played requests
func (h *QueueHandler) Snapshot(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	includePlayed := c.Query("played") == "1" || c.Query("played") == "true"
	snapshot, err := h.engine.Snapshot(channel.ID, includePlayed)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// MarkPlayed marks a request as played. The selector is a request id,
// "top", or "random".
func (h *QueueHandler) MarkPlayed(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var req models.MarkPlayedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	played, upNext, err := h.engine.MarkPlayed(channel.ID, req.Selector)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"played":  played,
		"up_next": upNext,
	})
}

// SetPriority toggles a request's priority flag
func (h *QueueHandler) SetPriority(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request id")
		return
	}

	var req models.SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.engine.SetPriority(requestID, req.Enabled)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Remove deletes a pending request by id
func (h *QueueHandler) Remove(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request id")
		return
	}

	request, err := h.engine.RemoveByID(requestID)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// RemoveLast deletes the most recently enqueued pending request
func (h *QueueHandler) RemoveLast(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	request, err := h.engine.Remove(channel.ID, engine.SelectLast)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
