package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/repository"
)

type ChannelHandler struct {
	engine      *engine.Engine
	channelRepo *repository.ChannelRepository
	sessionRepo *repository.SessionRepository
}

func NewChannelHandler(eng *engine.Engine, channelRepo *repository.ChannelRepository, sessionRepo *repository.SessionRepository) *ChannelHandler {
	return &ChannelHandler{
		engine:      eng,
		channelRepo: channelRepo,
		sessionRepo: sessionRepo,
	}
}

// channelFromParam resolves the :login route parameter. Writes the error
// response itself so callers can just return on nil.
func (h *ChannelHandler) channelFromParam(c *gin.Context) *models.Channel {
	login := strings.ToLower(c.Param("login"))
	channel, err := h.channelRepo.GetByLogin(login)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Channel not found")
		return nil
	}
	return channel
}

// Register creates a channel with its default settings, first stream
// session and seeded playlist in one step
func (h *ChannelHandler) Register(c *gin.Context) {
	var req models.RegisterChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	accountID, _ := c.Get("user_id")

	channel := &models.Channel{
		ID:         uuid.New(),
		OwnerID:    accountID.(uuid.UUID),
		PlatformID: req.PlatformID,
		Login:      strings.ToLower(req.Login),
		Joined:     true,
		Authorized: true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.engine.RegisterChannel(channel); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			EngineError(c, err)
			return
		}
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, channel)
}

// Get returns a channel with its active stream session
func (h *ChannelHandler) Get(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	session, err := h.sessionRepo.Active(channel.ID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load active session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel": channel,
		"session": session,
	})
}

// Archive closes the active stream session and opens a fresh one
func (h *ChannelHandler) Archive(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	archivedID, newID, err := h.engine.Archive(channel.ID)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archived_stream_id": archivedID,
		"new_stream_id":      newID,
	})
}

// Sessions lists a channel's stream sessions, newest first
func (h *ChannelHandler) Sessions(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	sessions, err := h.sessionRepo.ListByChannel(channel.ID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// SessionHistory returns every request of one session, played included
func (h *ChannelHandler) SessionHistory(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid session id")
		return
	}

	requests, err := h.engine.History(sessionID)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
