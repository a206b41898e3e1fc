package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel is a streamer's channel. Identity fields (platform id, login) are
// immutable after registration; all queue state is scoped to the channel.
type Channel struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OwnerID    uuid.UUID `json:"owner_id" db:"owner_id"`
	PlatformID string    `json:"platform_id" db:"platform_id"`
	Login      string    `json:"login" db:"login"`
	Joined     bool      `json:"joined" db:"joined"`
	Authorized bool      `json:"authorized" db:"authorized"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks basic channel fields
func (ch *Channel) Validate() error {
	if ch.PlatformID == "" {
		return fmt.Errorf("platform id is required")
	}
	if ch.Login == "" {
		return fmt.Errorf("login is required")
	}
	if ch.Login != strings.ToLower(ch.Login) {
		return fmt.Errorf("login must be lowercase")
	}
	return nil
}

type RegisterChannelRequest struct {
	PlatformID string `json:"platform_id" binding:"required"`
	Login      string `json:"login" binding:"required"`
}
