package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type SongRepository struct {
	db *database.DB
}

func NewSongRepository(db *database.DB) *SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) Create(s *models.Song) error {
	query := `
		INSERT INTO songs (id, channel_id, artist, title, link, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	if _, err := r.db.Exec(query, s.ID, s.ChannelID, s.Artist, s.Title, s.Link, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

// GetByLink finds a channel's song by its normalized link (dedup key)
func (r *SongRepository) GetByLink(channelID uuid.UUID, link string) (*models.Song, error) {
	query := `
		SELECT id, channel_id, artist, title, link, created_at
		FROM songs WHERE channel_id = $1 AND link = $2
	`
	s := &models.Song{}
	err := r.db.QueryRow(query, channelID, link).Scan(
		&s.ID,
		&s.ChannelID,
		&s.Artist,
		&s.Title,
		&s.Link,
		&s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: song", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return s, nil
}
