package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type ChannelRepository struct {
	db *database.DB
}

func NewChannelRepository(db *database.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Create(ch *models.Channel) error {
	query := `
		INSERT INTO channels (id, owner_id, platform_id, login, joined, authorized, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query,
		ch.ID,
		ch.OwnerID,
		ch.PlatformID,
		ch.Login,
		ch.Joined,
		ch.Authorized,
		ch.CreatedAt,
		ch.UpdatedAt,
	).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

const channelColumns = `id, owner_id, platform_id, login, joined, authorized, created_at, updated_at`

func (r *ChannelRepository) scanChannel(row *sql.Row) (*models.Channel, error) {
	ch := &models.Channel{}
	err := row.Scan(
		&ch.ID,
		&ch.OwnerID,
		&ch.PlatformID,
		&ch.Login,
		&ch.Joined,
		&ch.Authorized,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: channel", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return ch, nil
}

func (r *ChannelRepository) GetByID(id uuid.UUID) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`
	return r.scanChannel(r.db.QueryRow(query, id))
}

func (r *ChannelRepository) GetByLogin(login string) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE login = $1`
	return r.scanChannel(r.db.QueryRow(query, login))
}

// SetJoined flips the bot-join flag for a channel
func (r *ChannelRepository) SetJoined(id uuid.UUID, joined bool) error {
	query := `UPDATE channels SET joined = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.Exec(query, joined, id); err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return nil
}

// ListJoined returns channels the chat bot should sit in
func (r *ChannelRepository) ListJoined() ([]models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE joined ORDER BY login`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var out []models.Channel
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(&ch.ID, &ch.OwnerID, &ch.PlatformID, &ch.Login, &ch.Joined, &ch.Authorized, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}
