package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/repository"
)

type SettingsHandler struct {
	engine      *engine.Engine
	channelRepo *repository.ChannelRepository
}

func NewSettingsHandler(eng *engine.Engine, channelRepo *repository.ChannelRepository) *SettingsHandler {
	return &SettingsHandler{
		engine:      eng,
		channelRepo: channelRepo,
	}
}

func (h *SettingsHandler) channelFromParam(c *gin.Context) *models.Channel {
	login := strings.ToLower(c.Param("login"))
	channel, err := h.channelRepo.GetByLogin(login)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Channel not found")
		return nil
	}
	return channel
}

// Get returns the channel's current settings
func (h *SettingsHandler) Get(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	settings, err := h.engine.Settings(channel.ID)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update replaces the channel's settings wholesale. Values are normalized
// before commit and the result is returned.
func (h *SettingsHandler) Update(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var settings models.ChannelSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.engine.UpdateSettings(channel.ID, &settings)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

type queueStatusRequest struct {
	Closed bool `json:"closed"`
}

// SetQueueStatus opens or closes the request queue
func (h *SettingsHandler) SetQueueStatus(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var req queueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.SetQueueClosed(channel.ID, req.Closed); err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"closed": req.Closed})
}
