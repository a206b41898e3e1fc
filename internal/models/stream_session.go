package models

import (
	"time"

	"github.com/google/uuid"
)

// StreamSession is one bounded window of queue activity. Exactly one session
// per channel is active at a time; archiving closes it and opens the next.
type StreamSession struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ChannelID  uuid.UUID  `json:"channel_id" db:"channel_id"`
	Active     bool       `json:"active" db:"active"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}
