package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelSettings is the per-channel policy read by every queue operation.
// A cap of 0 means unlimited. Mutated only via full-replace updates.
type ChannelSettings struct {
	ChannelID uuid.UUID `json:"channel_id" db:"channel_id"`

	// Caps
	OverallQueueCap       int `json:"overall_queue_cap" db:"overall_queue_cap"`
	NonPriorityQueueCap   int `json:"nonpriority_queue_cap" db:"nonpriority_queue_cap"`
	MaxRequestsPerUser    int `json:"max_requests_per_user" db:"max_requests_per_user"`
	MaxPrioPoints         int `json:"max_prio_points" db:"max_prio_points"`
	MaxPrioPerUser        int `json:"max_prio_per_user" db:"max_prio_per_user"`
	MaxFreeBumpsPerStream int `json:"max_free_bumps_per_stream" db:"max_free_bumps_per_stream"`

	// Toggles
	QueueClosed bool `json:"queue_closed" db:"queue_closed"`
	PrioOnly    bool `json:"prio_only" db:"prio_only"`
	AllowBumps  bool `json:"allow_bumps" db:"allow_bumps"`

	// Per-award-type enable flags
	FollowEnabled bool `json:"follow_enabled" db:"follow_enabled"`
	RaidEnabled   bool `json:"raid_enabled" db:"raid_enabled"`
	SubEnabled    bool `json:"sub_enabled" db:"sub_enabled"`
	BitsEnabled   bool `json:"bits_enabled" db:"bits_enabled"`

	// Point conversion rates
	PrioFollowPoints   int `json:"prio_follow_points" db:"prio_follow_points"`
	PrioRaidPoints     int `json:"prio_raid_points" db:"prio_raid_points"`
	PrioSubTier1Points int `json:"prio_sub_tier1_points" db:"prio_sub_tier1_points"`
	PrioSubTier2Points int `json:"prio_sub_tier2_points" db:"prio_sub_tier2_points"`
	PrioSubTier3Points int `json:"prio_sub_tier3_points" db:"prio_sub_tier3_points"`
	PrioBitsPerPoint   int `json:"prio_bits_per_point" db:"prio_bits_per_point"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSettings returns the settings seeded on channel registration.
func DefaultSettings(channelID uuid.UUID) *ChannelSettings {
	return &ChannelSettings{
		ChannelID:             channelID,
		MaxPrioPoints:         100,
		MaxPrioPerUser:        3,
		MaxFreeBumpsPerStream: 1,
		AllowBumps:            true,
		UpdatedAt:             time.Now(),
	}
}

// Normalize clamps inconsistent values before commit. Negative caps and
// rates collapse to 0 (unlimited / disabled); the per-user priority cap and
// points ceiling never drop below 1.
func (s *ChannelSettings) Normalize() {
	ints := []*int{
		&s.OverallQueueCap,
		&s.NonPriorityQueueCap,
		&s.MaxRequestsPerUser,
		&s.MaxFreeBumpsPerStream,
		&s.PrioFollowPoints,
		&s.PrioRaidPoints,
		&s.PrioSubTier1Points,
		&s.PrioSubTier2Points,
		&s.PrioSubTier3Points,
		&s.PrioBitsPerPoint,
	}
	for _, v := range ints {
		if *v < 0 {
			*v = 0
		}
	}
	if s.MaxPrioPoints < 1 {
		s.MaxPrioPoints = 1
	}
	if s.MaxPrioPerUser < 1 {
		s.MaxPrioPerUser = 1
	}
}
