package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// Settings returns the channel's current configuration.
func (e *Engine) Settings(channelID uuid.UUID) (*models.ChannelSettings, error) {
	st, err := e.store.GetSettings(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return st, nil
}

// UpdateSettings replaces the channel's configuration atomically. The input
// is normalized before commit and the full resulting settings are emitted.
func (e *Engine) UpdateSettings(channelID uuid.UUID, st *models.ChannelSettings) (*models.ChannelSettings, error) {
	err := e.withChannelLock(channelID, func() error {
		st.ChannelID = channelID
		st.UpdatedAt = time.Now()
		st.Normalize()

		if err := e.store.SaveSettings(st); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		_, err := e.bus.Publish(channelID, models.EventSettingsUpdated, nil, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// SetQueueClosed flips just the open/closed toggle and announces it with the
// dedicated queue.status event chat bots listen for.
func (e *Engine) SetQueueClosed(channelID uuid.UUID, closed bool) error {
	return e.withChannelLock(channelID, func() error {
		st, err := e.store.GetSettings(channelID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if st.QueueClosed == closed {
			return nil
		}

		st.QueueClosed = closed
		st.UpdatedAt = time.Now()
		if err := e.store.SaveSettings(st); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		_, err = e.bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{
			Closed: closed,
		})
		return err
	})
}
