package models

import (
	"time"

	"github.com/google/uuid"
)

// Song is deduplicated per channel by its normalized external link.
type Song struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChannelID uuid.UUID `json:"channel_id" db:"channel_id"`
	Artist    string    `json:"artist" db:"artist"`
	Title     string    `json:"title" db:"title"`
	Link      *string   `json:"link,omitempty" db:"link"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
