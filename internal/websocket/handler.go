package websocket

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/queuebeat/backend/internal/auth"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/repository"
)

// Handler handles WebSocket upgrade requests for the dashboard stream
type Handler struct {
	hub         *Hub
	jwtService  *auth.JWTService
	engine      *engine.Engine
	channelRepo *repository.ChannelRepository
	upgrader    websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. The origin check is fixed
// here; the upgrader is shared across concurrent upgrades and must not be
// mutated per request. An empty allow list accepts any origin.
func NewHandler(
	hub *Hub,
	jwtService *auth.JWTService,
	eng *engine.Engine,
	channelRepo *repository.ChannelRepository,
	allowedOrigins []string,
) *Handler {
	return &Handler{
		hub:         hub,
		jwtService:  jwtService,
		engine:      eng,
		channelRepo: channelRepo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return false
				}
				for _, pattern := range allowedOrigins {
					if matchOrigin(pattern, origin) {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket upgrades the connection and attaches the client to the
// channel's live event stream, preceded by a queue snapshot
func (h *Handler) HandleWebSocket(c *gin.Context) {
	// Get token from query parameter
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	channel, err := h.channelRepo.GetByLogin(c.Param("login"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := NewClient(h.hub, conn, channel.ID, claims.UserID)
	h.hub.register <- client

	// Initial state before the live stream starts flowing
	if snapshot, err := h.engine.Snapshot(channel.ID, false); err == nil {
		sendSnapshot(client, snapshot)
	}

	go client.WritePump()
	go client.ReadPump()
}

// matchOrigin supports exact matches or wildcard patterns like *.example.com
func matchOrigin(pattern, origin string) bool {
	if pattern == origin {
		return true
	}
	// simple wildcard support: pattern starts with *.
	if strings.HasPrefix(pattern, "*.") {
		originHost := origin
		if u, err := url.Parse(origin); err == nil {
			originHost = u.Hostname()
		}
		patHost := strings.TrimPrefix(pattern, "*.")
		if strings.HasSuffix(originHost, patHost) {
			return true
		}
	}
	return false
}
