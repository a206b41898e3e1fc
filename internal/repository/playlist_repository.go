package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type PlaylistRepository struct {
	db *database.DB
}

func NewPlaylistRepository(db *database.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a playlist with its keyword tags in one transaction
func (r *PlaylistRepository) Create(p *models.Playlist, keywords []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO playlists (id, channel_id, name, visibility, source, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	if _, err := tx.Exec(query, p.ID, p.ChannelID, p.Name, p.Visibility, p.Source, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO playlist_keywords (id, playlist_id, keyword) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			uuid.New(), p.ID, kw,
		)
		if err != nil {
			return fmt.Errorf("failed to add keyword: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetByKeyword resolves a keyword tag to a channel's playlist
func (r *PlaylistRepository) GetByKeyword(channelID uuid.UUID, keyword string) (*models.Playlist, error) {
	query := `
		SELECT p.id, p.channel_id, p.name, p.visibility, p.source, p.created_at, p.updated_at
		FROM playlists p
		JOIN playlist_keywords k ON k.playlist_id = p.id
		WHERE p.channel_id = $1 AND k.keyword = $2
		ORDER BY p.created_at ASC
		LIMIT 1
	`
	p := &models.Playlist{}
	err := r.db.QueryRow(query, channelID, strings.ToLower(keyword)).Scan(
		&p.ID, &p.ChannelID, &p.Name, &p.Visibility, &p.Source, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	p.Keywords, err = r.keywords(p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByChannel returns the channel's playlists with their keywords
func (r *PlaylistRepository) ListByChannel(channelID uuid.UUID) ([]models.Playlist, error) {
	query := `
		SELECT id, channel_id, name, visibility, source, created_at, updated_at
		FROM playlists WHERE channel_id = $1 ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var out []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.ChannelID, &p.Name, &p.Visibility, &p.Source, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Keywords, err = r.keywords(out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PlaylistRepository) keywords(playlistID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(`SELECT keyword FROM playlist_keywords WHERE playlist_id = $1 ORDER BY keyword`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		out = append(out, kw)
	}
	return out, rows.Err()
}

// AddKeyword tags a playlist with a lowercase keyword
func (r *PlaylistRepository) AddKeyword(playlistID uuid.UUID, keyword string) error {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return fmt.Errorf("keyword is required")
	}
	_, err := r.db.Exec(
		`INSERT INTO playlist_keywords (id, playlist_id, keyword) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		uuid.New(), playlistID, keyword,
	)
	if err != nil {
		return fmt.Errorf("failed to add keyword: %w", err)
	}
	return nil
}

// Items returns the playlist's items in position order
func (r *PlaylistRepository) Items(playlistID uuid.UUID) ([]models.PlaylistItem, error) {
	query := `
		SELECT id, playlist_id, position, link, title, artist, duration_seconds
		FROM playlist_items WHERE playlist_id = $1 ORDER BY position ASC
	`
	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}
	defer rows.Close()

	var out []models.PlaylistItem
	for rows.Next() {
		var it models.PlaylistItem
		if err := rows.Scan(&it.ID, &it.PlaylistID, &it.Position, &it.Link, &it.Title, &it.Artist, &it.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem appends an item at the playlist tail
func (r *PlaylistRepository) AddItem(it *models.PlaylistItem) error {
	query := `
		INSERT INTO playlist_items (id, playlist_id, position, link, title, artist, duration_seconds)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_items WHERE playlist_id = $2),
			$3, $4, $5, $6)
		RETURNING position
	`
	err := r.db.QueryRow(query, it.ID, it.PlaylistID, it.Link, it.Title, it.Artist, it.DurationSeconds).Scan(&it.Position)
	if err != nil {
		return fmt.Errorf("failed to add playlist item: %w", err)
	}
	return nil
}

// GetByID retrieves a playlist (without keywords) for ownership checks
func (r *PlaylistRepository) GetByID(id uuid.UUID) (*models.Playlist, error) {
	query := `
		SELECT id, channel_id, name, visibility, source, created_at, updated_at
		FROM playlists WHERE id = $1
	`
	p := &models.Playlist{}
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.ChannelID, &p.Name, &p.Visibility, &p.Source, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return p, nil
}
