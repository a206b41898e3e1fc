package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/queuebeat/backend/internal/cache"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/repository"
)

type EventsHandler struct {
	engine      *engine.Engine
	channelRepo *repository.ChannelRepository
	redis       *cache.RedisClient // optional, enables server-side cursors
}

func NewEventsHandler(eng *engine.Engine, channelRepo *repository.ChannelRepository, redis *cache.RedisClient) *EventsHandler {
	return &EventsHandler{
		engine:      eng,
		channelRepo: channelRepo,
		redis:       redis,
	}
}

func (h *EventsHandler) channelFromParam(c *gin.Context) *models.Channel {
	login := strings.ToLower(c.Param("login"))
	channel, err := h.channelRepo.GetByLogin(login)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Channel not found")
		return nil
	}
	return channel
}

// Since replays the channel's event stream after a cursor. since=0 (or
// omitted) replays everything. When a consumer name is given and Redis is
// available, the cursor is kept server-side so the poller can resume
// without tracking it.
func (h *EventsHandler) Since(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	consumer := c.Query("consumer")

	var cursor int64
	if raw := c.Query("since"); raw != "" {
		var err error
		cursor, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid since cursor")
			return
		}
	} else if consumer != "" && h.redis != nil {
		var err error
		cursor, err = h.redis.GetCursor(channel.ID, consumer)
		if err != nil {
			log.Printf("Failed to load cursor for %s: %v", consumer, err)
			cursor = 0
		}
	}

	events, err := h.engine.Bus().Since(channel.ID, cursor)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load events")
		return
	}

	next := nextCursor(events, cursor)
	if consumer != "" && h.redis != nil && len(events) > 0 {
		if err := h.redis.SetCursor(channel.ID, consumer, next); err != nil {
			log.Printf("Failed to store cursor for %s: %v", consumer, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "cursor": next})
}

// nextCursor is the resume point after a batch: the last delivered event
// time, or the input cursor when nothing new arrived.
func nextCursor(events []models.Event, cursor int64) int64 {
	if len(events) == 0 {
		return cursor
	}
	return events[len(events)-1].EventTime
}

// Award converts a platform event (follow, raid, gift sub, bits) into
// priority points for the named viewer
func (h *EventsHandler) Award(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var req models.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	applied, err := h.engine.Award(channel.ID, req.PlatformUserID, req.UserDisplayName, req.Type, req.Meta)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied_delta": applied})
}
