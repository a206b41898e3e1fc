package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create appends an event row. The (channel_id, event_time) uniqueness is
// the database-level backstop for the bus's cursor guarantee.
func (r *EventRepository) Create(ev *models.Event) error {
	query := `
		INSERT INTO events (id, channel_id, event_time, type, user_id, meta)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	if _, err := r.db.Exec(query, ev.ID, ev.ChannelID, ev.EventTime, ev.Type, ev.UserID, []byte(ev.Meta)); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Since returns all events with event_time > cursor, in order
func (r *EventRepository) Since(channelID uuid.UUID, cursor int64) ([]models.Event, error) {
	query := `
		SELECT id, channel_id, event_time, type, user_id, meta
		FROM events WHERE channel_id = $1 AND event_time > $2
		ORDER BY event_time ASC
	`
	rows, err := r.db.Query(query, channelID, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var ev models.Event
		var meta []byte
		if err := rows.Scan(&ev.ID, &ev.ChannelID, &ev.EventTime, &ev.Type, &ev.UserID, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Meta = meta
		out = append(out, ev)
	}
	return out, rows.Err()
}

// LastEventTime returns the channel's event cursor high-water mark
func (r *EventRepository) LastEventTime(channelID uuid.UUID) (int64, error) {
	var t int64
	err := r.db.QueryRow(`SELECT COALESCE(MAX(event_time), 0) FROM events WHERE channel_id = $1`, channelID).Scan(&t)
	if err != nil {
		return 0, fmt.Errorf("failed to get last event time: %w", err)
	}
	return t, nil
}
