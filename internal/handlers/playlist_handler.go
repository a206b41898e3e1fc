package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/metadata"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/repository"
)

type PlaylistHandler struct {
	engine       *engine.Engine
	channelRepo  *repository.ChannelRepository
	playlistRepo *repository.PlaylistRepository
	resolver     *metadata.Resolver
}

func NewPlaylistHandler(eng *engine.Engine, channelRepo *repository.ChannelRepository, playlistRepo *repository.PlaylistRepository, resolver *metadata.Resolver) *PlaylistHandler {
	return &PlaylistHandler{
		engine:       eng,
		channelRepo:  channelRepo,
		playlistRepo: playlistRepo,
		resolver:     resolver,
	}
}

func (h *PlaylistHandler) channelFromParam(c *gin.Context) *models.Channel {
	login := strings.ToLower(c.Param("login"))
	channel, err := h.channelRepo.GetByLogin(login)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Channel not found")
		return nil
	}
	return channel
}

// List returns the channel's playlists with their keywords
func (h *PlaylistHandler) List(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	playlists, err := h.playlistRepo.ListByChannel(channel.ID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load playlists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"playlists": playlists})
}

// Create adds a playlist with its keyword tags
func (h *PlaylistHandler) Create(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var req models.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = "public"
	}

	playlist := &models.Playlist{
		ID:         uuid.New(),
		ChannelID:  channel.ID,
		Name:       req.Name,
		Visibility: visibility,
		Source:     models.PlaylistSourceManual,
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	if err := h.playlistRepo.Create(playlist, keywords); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create playlist")
		return
	}
	playlist.Keywords = keywords

	c.JSON(http.StatusCreated, playlist)
}

// Items returns a playlist's tracks in position order
func (h *PlaylistHandler) Items(c *gin.Context) {
	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	items, err := h.playlistRepo.Items(playlistID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load playlist items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddItem appends a track to a playlist. The title is resolved from the
// link's oEmbed metadata when not supplied; resolution failures degrade to
// the raw link rather than rejecting the track.
func (h *PlaylistHandler) AddItem(c *gin.Context) {
	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	if _, err := h.playlistRepo.GetByID(playlistID); err != nil {
		ErrorResponse(c, http.StatusNotFound, "Playlist not found")
		return
	}

	var req models.AddPlaylistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	link := req.Link
	if normalized, err := metadata.NormalizeVideoLink(req.Link); err == nil {
		link = normalized
	}

	title := req.Title
	artist := req.Artist
	if title == "" && h.resolver != nil {
		if meta, err := h.resolver.ResolveVideoMetadata(link); err == nil {
			title = meta.Title
			if artist == "" {
				artist = meta.AuthorName
			}
		} else {
			log.Printf("Failed to resolve metadata for %s: %v", link, err)
		}
	}
	if title == "" {
		title = link
	}

	item := &models.PlaylistItem{
		ID:         uuid.New(),
		PlaylistID: playlistID,
		Link:       link,
		Title:      title,
		Artist:     artist,
	}

	if err := h.playlistRepo.AddItem(item); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to add playlist item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

type addKeywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// AddKeyword tags a playlist with another request keyword
func (h *PlaylistHandler) AddKeyword(c *gin.Context) {
	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid playlist id")
		return
	}

	var req addKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	if keyword == "" {
		ErrorResponse(c, http.StatusBadRequest, "keyword is required")
		return
	}

	if err := h.playlistRepo.AddKeyword(playlistID, keyword); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to add keyword")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"keyword": keyword})
}

// RandomRequest enqueues a random track from the playlist matching the
// keyword
func (h *PlaylistHandler) RandomRequest(c *gin.Context) {
	channel := h.channelFromParam(c)
	if channel == nil {
		return
	}

	var req models.RandomRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pick, err := h.engine.RandomRequest(channel.ID, req.Keyword, req.PlatformUserID, req.UserDisplayName)
	if err != nil {
		EngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request": pick.Request,
		"song":    pick.Song,
		"keyword": pick.Keyword,
	})
}
