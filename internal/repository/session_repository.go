package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type SessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *models.StreamSession) error {
	query := `
		INSERT INTO stream_sessions (id, channel_id, active, started_at, archived_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(query, s.ID, s.ChannelID, s.Active, s.StartedAt, s.ArchivedAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Active returns the channel's single active session
func (r *SessionRepository) Active(channelID uuid.UUID) (*models.StreamSession, error) {
	query := `
		SELECT id, channel_id, active, started_at, archived_at
		FROM stream_sessions WHERE channel_id = $1 AND active
	`
	s := &models.StreamSession{}
	err := r.db.QueryRow(query, channelID).Scan(&s.ID, &s.ChannelID, &s.Active, &s.StartedAt, &s.ArchivedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: active session", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return s, nil
}

// Archive marks a session inactive and stamps archived_at
func (r *SessionRepository) Archive(id uuid.UUID) error {
	query := `UPDATE stream_sessions SET active = FALSE, archived_at = NOW() WHERE id = $1 AND active`
	res, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: session %s not active", engine.ErrNotFound, id)
	}
	return nil
}

// ListByChannel returns all sessions, newest first, for history browsing
func (r *SessionRepository) ListByChannel(channelID uuid.UUID) ([]models.StreamSession, error) {
	query := `
		SELECT id, channel_id, active, started_at, archived_at
		FROM stream_sessions WHERE channel_id = $1 ORDER BY started_at DESC
	`
	rows, err := r.db.Query(query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []models.StreamSession
	for rows.Next() {
		var s models.StreamSession
		if err := rows.Scan(&s.ID, &s.ChannelID, &s.Active, &s.StartedAt, &s.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
