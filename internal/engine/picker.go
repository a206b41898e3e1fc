package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// RandomPick is what RandomRequest chose, for caller announcement.
type RandomPick struct {
	Request *models.Request
	Song    *models.Song
	Keyword string
}

// RandomRequest resolves keyword against the channel's playlist tags, picks
// one item uniformly at random and enqueues it as a normal non-priority
// request. An empty requester id attributes the play to the reserved
// playlist identity.
func (e *Engine) RandomRequest(channelID uuid.UUID, keyword, platformUserID, displayName string) (*RandomPick, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		keyword = models.DefaultPlaylistKeyword
	}

	pl, err := e.store.PlaylistByKeyword(channelID, keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: keyword %q", ErrNoMatchingPlaylist, keyword)
	}

	items, err := e.store.PlaylistItems(pl.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: playlist %q is empty", ErrNoMatchingPlaylist, pl.Name)
	}

	item := items[e.intn(len(items))]

	if platformUserID == "" {
		platformUserID = models.PlaylistUserPlatformID
		displayName = "Playlist"
	}

	req, err := e.Enqueue(channelID, EnqueueParams{
		Link:            item.Link,
		Title:           item.Title,
		Artist:          item.Artist,
		PlatformUserID:  platformUserID,
		UserDisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}

	return &RandomPick{Request: req, Song: req.Song, Keyword: keyword}, nil
}
