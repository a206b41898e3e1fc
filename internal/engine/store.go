package engine

import (
	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// Store is the persistence surface the engine mutates. Implementations must
// return ErrNotFound (possibly wrapped) when an entity is absent. Ordered
// reads must apply the (is_priority desc, position asc, request_time asc)
// total order; the engine relies on it and never re-sorts.
type Store interface {
	// Channels
	InsertChannel(ch *models.Channel) error
	GetChannel(id uuid.UUID) (*models.Channel, error)

	// Stream sessions
	InsertSession(s *models.StreamSession) error
	ActiveSession(channelID uuid.UUID) (*models.StreamSession, error)
	ArchiveSession(id uuid.UUID) error

	// Requests
	InsertRequest(r *models.Request) error
	UpdateRequest(r *models.Request) error
	DeleteRequest(id uuid.UUID) error
	GetRequest(id uuid.UUID) (*models.Request, error)
	PendingRequests(sessionID uuid.UUID) ([]models.Request, error)
	PlayedRequests(sessionID uuid.UUID) ([]models.Request, error)
	LastInsertedPending(sessionID uuid.UUID) (*models.Request, error)
	// NextPosition covers played requests too: positions are never reused.
	NextPosition(sessionID uuid.UUID, isPriority bool) (int, error)
	CountPending(sessionID uuid.UUID, priorityOnly bool) (int, error)
	CountPendingByUser(sessionID, userID uuid.UUID, priorityOnly bool) (int, error)
	CountFreeBumpsByUser(sessionID, userID uuid.UUID) (int, error)

	// Users
	GetUserByPlatformID(channelID uuid.UUID, platformUserID string) (*models.User, error)
	InsertUser(u *models.User) error
	UpdateUser(u *models.User) error

	// Songs
	GetSongByLink(channelID uuid.UUID, link string) (*models.Song, error)
	InsertSong(s *models.Song) error

	// Settings
	GetSettings(channelID uuid.UUID) (*models.ChannelSettings, error)
	SaveSettings(s *models.ChannelSettings) error

	// Playlists
	InsertPlaylist(p *models.Playlist, keywords []string) error
	PlaylistByKeyword(channelID uuid.UUID, keyword string) (*models.Playlist, error)
	PlaylistItems(playlistID uuid.UUID) ([]models.PlaylistItem, error)
}
