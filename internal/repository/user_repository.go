package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new per-channel viewer identity
func (r *UserRepository) Create(u *models.User) error {
	query := `
		INSERT INTO users (id, channel_id, platform_user_id, display_name,
			amount_requested, prio_points, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.db.Exec(query,
		u.ID,
		u.ChannelID,
		u.PlatformUserID,
		u.DisplayName,
		u.AmountRequested,
		u.PrioPoints,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update persists the mutable user fields (display name, counters, points)
func (r *UserRepository) Update(u *models.User) error {
	query := `
		UPDATE users SET display_name = $1, amount_requested = $2, prio_points = $3, updated_at = NOW()
		WHERE id = $4
	`
	if _, err := r.db.Exec(query, u.DisplayName, u.AmountRequested, u.PrioPoints, u.ID); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetByPlatformID retrieves a viewer by platform user id within a channel
func (r *UserRepository) GetByPlatformID(channelID uuid.UUID, platformUserID string) (*models.User, error) {
	query := `
		SELECT id, channel_id, platform_user_id, display_name, amount_requested,
			prio_points, created_at, updated_at
		FROM users WHERE channel_id = $1 AND platform_user_id = $2
	`
	u := &models.User{}
	err := r.db.QueryRow(query, channelID, platformUserID).Scan(
		&u.ID,
		&u.ChannelID,
		&u.PlatformUserID,
		&u.DisplayName,
		&u.AmountRequested,
		&u.PrioPoints,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
