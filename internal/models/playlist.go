package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist sources
const (
	PlaylistSourceManual   = "manual"
	PlaylistSourceImported = "imported"
)

// DefaultPlaylistKeyword matches the seeded "Favorites" playlist.
const DefaultPlaylistKeyword = "default"

// Playlist is a keyword-tagged collection of tracks used to serve random
// requests. Keywords are stored lowercase.
type Playlist struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ChannelID  uuid.UUID `json:"channel_id" db:"channel_id"`
	Name       string    `json:"name" db:"name"`
	Visibility string    `json:"visibility" db:"visibility"`
	Source     string    `json:"source" db:"source"`
	Keywords   []string  `json:"keywords" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type PlaylistItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	PlaylistID      uuid.UUID `json:"playlist_id" db:"playlist_id"`
	Position        int       `json:"position" db:"position"`
	Link            string    `json:"link" db:"link"`
	Title           string    `json:"title" db:"title"`
	Artist          string    `json:"artist" db:"artist"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
}

type CreatePlaylistRequest struct {
	Name       string   `json:"name" binding:"required"`
	Visibility string   `json:"visibility"`
	Keywords   []string `json:"keywords"`
}

type AddPlaylistItemRequest struct {
	Link   string `json:"link" binding:"required"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type RandomRequestRequest struct {
	Keyword         string `json:"keyword"`
	PlatformUserID  string `json:"platform_user_id"`
	UserDisplayName string `json:"user_display_name"`
}
