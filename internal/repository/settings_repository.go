package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a channel's settings row
func (r *SettingsRepository) Get(channelID uuid.UUID) (*models.ChannelSettings, error) {
	query := `
		SELECT channel_id, overall_queue_cap, nonpriority_queue_cap, max_requests_per_user,
			max_prio_points, max_prio_per_user, max_free_bumps_per_stream,
			queue_closed, prio_only, allow_bumps,
			follow_enabled, raid_enabled, sub_enabled, bits_enabled,
			prio_follow_points, prio_raid_points, prio_sub_tier1_points,
			prio_sub_tier2_points, prio_sub_tier3_points, prio_bits_per_point,
			updated_at
		FROM channel_settings WHERE channel_id = $1
	`
	s := &models.ChannelSettings{}
	err := r.db.QueryRow(query, channelID).Scan(
		&s.ChannelID,
		&s.OverallQueueCap,
		&s.NonPriorityQueueCap,
		&s.MaxRequestsPerUser,
		&s.MaxPrioPoints,
		&s.MaxPrioPerUser,
		&s.MaxFreeBumpsPerStream,
		&s.QueueClosed,
		&s.PrioOnly,
		&s.AllowBumps,
		&s.FollowEnabled,
		&s.RaidEnabled,
		&s.SubEnabled,
		&s.BitsEnabled,
		&s.PrioFollowPoints,
		&s.PrioRaidPoints,
		&s.PrioSubTier1Points,
		&s.PrioSubTier2Points,
		&s.PrioSubTier3Points,
		&s.PrioBitsPerPoint,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: settings", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Save upserts the full settings row (full-replace update semantics)
func (r *SettingsRepository) Save(s *models.ChannelSettings) error {
	query := `
		INSERT INTO channel_settings (channel_id, overall_queue_cap, nonpriority_queue_cap,
			max_requests_per_user, max_prio_points, max_prio_per_user, max_free_bumps_per_stream,
			queue_closed, prio_only, allow_bumps,
			follow_enabled, raid_enabled, sub_enabled, bits_enabled,
			prio_follow_points, prio_raid_points, prio_sub_tier1_points,
			prio_sub_tier2_points, prio_sub_tier3_points, prio_bits_per_point, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (channel_id) DO UPDATE SET
			overall_queue_cap = EXCLUDED.overall_queue_cap,
			nonpriority_queue_cap = EXCLUDED.nonpriority_queue_cap,
			max_requests_per_user = EXCLUDED.max_requests_per_user,
			max_prio_points = EXCLUDED.max_prio_points,
			max_prio_per_user = EXCLUDED.max_prio_per_user,
			max_free_bumps_per_stream = EXCLUDED.max_free_bumps_per_stream,
			queue_closed = EXCLUDED.queue_closed,
			prio_only = EXCLUDED.prio_only,
			allow_bumps = EXCLUDED.allow_bumps,
			follow_enabled = EXCLUDED.follow_enabled,
			raid_enabled = EXCLUDED.raid_enabled,
			sub_enabled = EXCLUDED.sub_enabled,
			bits_enabled = EXCLUDED.bits_enabled,
			prio_follow_points = EXCLUDED.prio_follow_points,
			prio_raid_points = EXCLUDED.prio_raid_points,
			prio_sub_tier1_points = EXCLUDED.prio_sub_tier1_points,
			prio_sub_tier2_points = EXCLUDED.prio_sub_tier2_points,
			prio_sub_tier3_points = EXCLUDED.prio_sub_tier3_points,
			prio_bits_per_point = EXCLUDED.prio_bits_per_point,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(query,
		s.ChannelID,
		s.OverallQueueCap,
		s.NonPriorityQueueCap,
		s.MaxRequestsPerUser,
		s.MaxPrioPoints,
		s.MaxPrioPerUser,
		s.MaxFreeBumpsPerStream,
		s.QueueClosed,
		s.PrioOnly,
		s.AllowBumps,
		s.FollowEnabled,
		s.RaidEnabled,
		s.SubEnabled,
		s.BitsEnabled,
		s.PrioFollowPoints,
		s.PrioRaidPoints,
		s.PrioSubTier1Points,
		s.PrioSubTier2Points,
		s.PrioSubTier3Points,
		s.PrioBitsPerPoint,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
