package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event types. Consumers match on these literal strings; do not rename.
const (
	EventRequestAdded    = "request.added"
	EventRequestBumped   = "request.bumped"
	EventRequestPlayed   = "request.played"
	EventRequestRemoved  = "request.removed"
	EventQueueStatus     = "queue.status"
	EventQueueArchived   = "queue.archived"
	EventSettingsUpdated = "settings.updated"
	EventBumpAwarded     = "user.bump_awarded"
)

// Event is one append-only entry in a channel's event stream. EventTime is
// strictly increasing per channel and doubles as the replay cursor.
type Event struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ChannelID uuid.UUID       `json:"channel_id" db:"channel_id"`
	EventTime int64           `json:"event_time" db:"event_time"`
	Type      string          `json:"type" db:"type"`
	UserID    *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Meta      json.RawMessage `json:"meta,omitempty" db:"meta"`
}

// Typed event payloads, decoded once at the boundary.

type RequestAddedPayload struct {
	ID        uuid.UUID `json:"id"`
	Song      Song      `json:"song"`
	Requester User      `json:"requester"`
}

type RequestBumpedPayload struct {
	ID         uuid.UUID `json:"id"`
	IsPriority bool      `json:"is_priority"`
}

type RequestPlayedPayload struct {
	Request Request  `json:"request"`
	UpNext  *Request `json:"up_next"`
}

type RequestRemovedPayload struct {
	ID uuid.UUID `json:"id"`
}

type QueueStatusPayload struct {
	Closed bool `json:"closed"`
}

type QueueArchivedPayload struct {
	ArchivedStreamID uuid.UUID `json:"archived_stream_id"`
	NewStreamID      uuid.UUID `json:"new_stream_id"`
}

type BumpAwardedPayload struct {
	User       User `json:"user"`
	Delta      int  `json:"delta"`
	PrioPoints int  `json:"prio_points"`
}
