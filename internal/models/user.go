package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistUserPlatformID is the reserved platform id for playlist-originated
// requests. It is not a real viewer and never accrues priority points.
const PlaylistUserPlatformID = "playlist"

// User is a per-channel viewer identity keyed by platform user id.
type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ChannelID       uuid.UUID `json:"channel_id" db:"channel_id"`
	PlatformUserID  string    `json:"platform_user_id" db:"platform_user_id"`
	DisplayName     string    `json:"display_name" db:"display_name"`
	AmountRequested int       `json:"amount_requested" db:"amount_requested"`
	PrioPoints      int       `json:"prio_points" db:"prio_points"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// IsPlaylistUser reports whether this is the reserved playlist identity.
func (u *User) IsPlaylistUser() bool {
	return u.PlatformUserID == PlaylistUserPlatformID
}
