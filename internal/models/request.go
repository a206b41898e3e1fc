package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority sources. FreeBump is the subscriber allotment and counts
// against max_free_bumps_per_stream; Admin is a moderator promotion and
// does not.
const (
	PrioritySourceUserPoints = "user_points"
	PrioritySourceFreeBump   = "free_bump"
	PrioritySourceAdmin      = "admin"
)

// Request is a queue entry. Within a session, all non-played requests are
// totally ordered by (is_priority desc, position asc, request_time asc).
// Position is assigned monotonically per priority class and never reused.
type Request struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ChannelID      uuid.UUID  `json:"channel_id" db:"channel_id"`
	SessionID      uuid.UUID  `json:"session_id" db:"session_id"`
	SongID         uuid.UUID  `json:"song_id" db:"song_id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Position       int        `json:"position" db:"position"`
	IsPriority     bool       `json:"is_priority" db:"is_priority"`
	PrioritySource string     `json:"priority_source" db:"priority_source"`
	Bumped         bool       `json:"bumped" db:"bumped"`
	Played         bool       `json:"played" db:"played"`
	RequestTime    time.Time  `json:"request_time" db:"request_time"`
	PlayedAt       *time.Time `json:"played_at,omitempty" db:"played_at"`

	// Joined for API responses; not always populated.
	Song *Song `json:"song,omitempty" db:"-"`
	User *User `json:"user,omitempty" db:"-"`
}

// Less reports whether r ranks before other in the pending queue order.
// The position tie-break is load-bearing: two requests inserted in the same
// millisecond must still resolve deterministically.
func (r *Request) Less(other *Request) bool {
	if r.IsPriority != other.IsPriority {
		return r.IsPriority
	}
	if r.Position != other.Position {
		return r.Position < other.Position
	}
	return r.RequestTime.Before(other.RequestTime)
}

type EnqueueRequest struct {
	Link              string `json:"link"`
	Title             string `json:"title"`
	Artist            string `json:"artist"`
	PlatformUserID    string `json:"platform_user_id" binding:"required"`
	UserDisplayName   string `json:"user_display_name"`
	WantPriority      bool   `json:"want_priority"`
	PreferSubFreeBump bool   `json:"prefer_sub_free_bump"`
	IsSubscriber      bool   `json:"is_subscriber"`
}

type SetPriorityRequest struct {
	Enabled bool `json:"enabled"`
}

type MarkPlayedRequest struct {
	// Selector is a request id, "top", or "random".
	Selector string `json:"selector" binding:"required"`
}

// QueueSnapshot is the ordered view of a session's requests.
type QueueSnapshot struct {
	SessionID uuid.UUID `json:"session_id"`
	Pending   []Request `json:"pending"`
	Played    []Request `json:"played,omitempty"`
}
