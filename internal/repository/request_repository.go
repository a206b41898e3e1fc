package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type RequestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *models.Request) error {
	query := `
		INSERT INTO requests (id, channel_id, session_id, song_id, user_id, position,
			is_priority, priority_source, bumped, played, request_time, played_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.db.Exec(query,
		req.ID,
		req.ChannelID,
		req.SessionID,
		req.SongID,
		req.UserID,
		req.Position,
		req.IsPriority,
		req.PrioritySource,
		req.Bumped,
		req.Played,
		req.RequestTime,
		req.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *RequestRepository) Update(req *models.Request) error {
	query := `
		UPDATE requests SET position = $1, is_priority = $2, priority_source = $3,
			bumped = $4, played = $5, played_at = $6
		WHERE id = $7
	`
	_, err := r.db.Exec(query,
		req.Position,
		req.IsPriority,
		req.PrioritySource,
		req.Bumped,
		req.Played,
		req.PlayedAt,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func (r *RequestRepository) Delete(id uuid.UUID) error {
	if _, err := r.db.Exec(`DELETE FROM requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

// requestSelect joins the song and requester so API responses and events can
// carry them without extra round trips.
const requestSelect = `
	SELECT r.id, r.channel_id, r.session_id, r.song_id, r.user_id, r.position,
		r.is_priority, r.priority_source, r.bumped, r.played, r.request_time, r.played_at,
		s.id, s.channel_id, s.artist, s.title, s.link, s.created_at,
		u.id, u.channel_id, u.platform_user_id, u.display_name, u.amount_requested,
		u.prio_points, u.created_at, u.updated_at
	FROM requests r
	JOIN songs s ON s.id = r.song_id
	JOIN users u ON u.id = r.user_id
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	req := &models.Request{Song: &models.Song{}, User: &models.User{}}
	err := row.Scan(
		&req.ID, &req.ChannelID, &req.SessionID, &req.SongID, &req.UserID, &req.Position,
		&req.IsPriority, &req.PrioritySource, &req.Bumped, &req.Played, &req.RequestTime, &req.PlayedAt,
		&req.Song.ID, &req.Song.ChannelID, &req.Song.Artist, &req.Song.Title, &req.Song.Link, &req.Song.CreatedAt,
		&req.User.ID, &req.User.ChannelID, &req.User.PlatformUserID, &req.User.DisplayName,
		&req.User.AmountRequested, &req.User.PrioPoints, &req.User.CreatedAt, &req.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) GetByID(id uuid.UUID) (*models.Request, error) {
	req, err := scanRequest(r.db.QueryRow(requestSelect+` WHERE r.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) queryRequests(query string, args ...interface{}) ([]models.Request, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var out []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

// Pending returns the session's non-played requests in queue order. The
// ordering tuple is load-bearing; consumers never re-sort.
func (r *RequestRepository) Pending(sessionID uuid.UUID) ([]models.Request, error) {
	query := requestSelect + `
		WHERE r.session_id = $1 AND NOT r.played
		ORDER BY r.is_priority DESC, r.position ASC, r.request_time ASC
	`
	return r.queryRequests(query, sessionID)
}

// Played returns the session's played requests in request_time order.
func (r *RequestRepository) Played(sessionID uuid.UUID) ([]models.Request, error) {
	query := requestSelect + `
		WHERE r.session_id = $1 AND r.played
		ORDER BY r.request_time ASC
	`
	return r.queryRequests(query, sessionID)
}

// LastInsertedPending returns the most recently created pending request.
func (r *RequestRepository) LastInsertedPending(sessionID uuid.UUID) (*models.Request, error) {
	query := requestSelect + `
		WHERE r.session_id = $1 AND NOT r.played
		ORDER BY r.request_time DESC, r.position DESC
		LIMIT 1
	`
	req, err := scanRequest(r.db.QueryRow(query, sessionID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no pending requests", engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last request: %w", err)
	}
	return req, nil
}

// NextPosition allocates the next position in a priority class. Played rows
// count too, so positions are never reused within a session.
func (r *RequestRepository) NextPosition(sessionID uuid.UUID, isPriority bool) (int, error) {
	query := `
		SELECT COALESCE(MAX(position), 0) + 1 FROM requests
		WHERE session_id = $1 AND is_priority = $2
	`
	var pos int
	if err := r.db.QueryRow(query, sessionID, isPriority).Scan(&pos); err != nil {
		return 0, fmt.Errorf("failed to allocate position: %w", err)
	}
	return pos, nil
}

func (r *RequestRepository) CountPending(sessionID uuid.UUID, priorityOnly bool) (int, error) {
	query := `
		SELECT COUNT(*) FROM requests
		WHERE session_id = $1 AND NOT played AND ($2 = FALSE OR is_priority)
	`
	var n int
	if err := r.db.QueryRow(query, sessionID, priorityOnly).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return n, nil
}

func (r *RequestRepository) CountPendingByUser(sessionID, userID uuid.UUID, priorityOnly bool) (int, error) {
	query := `
		SELECT COUNT(*) FROM requests
		WHERE session_id = $1 AND user_id = $2 AND NOT played AND ($3 = FALSE OR is_priority)
	`
	var n int
	if err := r.db.QueryRow(query, sessionID, userID, priorityOnly).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count user requests: %w", err)
	}
	return n, nil
}

// CountFreeBumpsByUser counts the user's subscriber free bumps this session,
// played or not: the allotment does not refresh when a song plays.
func (r *RequestRepository) CountFreeBumpsByUser(sessionID, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM requests
		WHERE session_id = $1 AND user_id = $2 AND bumped AND priority_source = $3
	`
	var n int
	if err := r.db.QueryRow(query, sessionID, userID, models.PrioritySourceFreeBump).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count free bumps: %w", err)
	}
	return n, nil
}
