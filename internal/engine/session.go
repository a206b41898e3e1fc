package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// Archive closes the channel's active session, freezing its queue for
// history, and opens a fresh one atomically under the channel lock. Returns
// (archivedSessionID, newSessionID).
func (e *Engine) Archive(channelID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	var archivedID, newID uuid.UUID

	err := e.withChannelLock(channelID, func() error {
		sess, err := e.activeSession(channelID)
		if err != nil {
			return err
		}

		if err := e.store.ArchiveSession(sess.ID); err != nil {
			return fmt.Errorf("failed to archive session: %w", err)
		}

		next := &models.StreamSession{
			ID:        uuid.New(),
			ChannelID: channelID,
			Active:    true,
			StartedAt: time.Now(),
		}
		if err := e.store.InsertSession(next); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		archivedID = sess.ID
		newID = next.ID

		_, err = e.bus.Publish(channelID, models.EventQueueArchived, nil, models.QueueArchivedPayload{
			ArchivedStreamID: archivedID,
			NewStreamID:      newID,
		})
		return err
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return archivedID, newID, nil
}

// History returns the ordered requests of an archived (or active) session.
func (e *Engine) History(sessionID uuid.UUID) ([]models.Request, error) {
	played, err := e.store.PlayedRequests(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list played requests: %w", err)
	}
	pending, err := e.store.PendingRequests(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return append(played, pending...), nil
}
