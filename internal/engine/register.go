package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// RegisterChannel creates a channel with its default settings, its first
// active stream session and the seeded "Favorites" playlist tagged with the
// default keyword.
func (e *Engine) RegisterChannel(ch *models.Channel) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	err := e.withChannelLock(ch.ID, func() error {
		if err := e.store.InsertChannel(ch); err != nil {
			return fmt.Errorf("failed to create channel: %w", err)
		}

		st := models.DefaultSettings(ch.ID)
		if err := e.store.SaveSettings(st); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}

		sess := &models.StreamSession{
			ID:        uuid.New(),
			ChannelID: ch.ID,
			Active:    true,
			StartedAt: time.Now(),
		}
		if err := e.store.InsertSession(sess); err != nil {
			return fmt.Errorf("failed to create first session: %w", err)
		}

		favorites := &models.Playlist{
			ID:         uuid.New(),
			ChannelID:  ch.ID,
			Name:       "Favorites",
			Visibility: "private",
			Source:     models.PlaylistSourceManual,
			Keywords:   []string{models.DefaultPlaylistKeyword},
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := e.store.InsertPlaylist(favorites, favorites.Keywords); err != nil {
			return fmt.Errorf("failed to seed favorites playlist: %w", err)
		}

		_, err := e.bus.Publish(ch.ID, models.EventSettingsUpdated, nil, st)
		return err
	})
	if err != nil {
		return err
	}

	if e.watcher != nil {
		e.watcher.Watch(ch.ID, ch.Login)
	}
	return nil
}
