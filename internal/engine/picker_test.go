package engine_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/store"
)

func seedPlaylistItems(t *testing.T, mem *store.Memory, channelID uuid.UUID, keyword string, links ...string) {
	t.Helper()
	pl, err := mem.PlaylistByKeyword(channelID, keyword)
	if err != nil {
		t.Fatalf("PlaylistByKeyword(%q) error: %v", keyword, err)
	}
	for _, link := range links {
		mem.AddPlaylistItem(models.PlaylistItem{
			ID:         uuid.New(),
			PlaylistID: pl.ID,
			Link:       link,
			Title:      link,
		})
	}
}

func TestRandomRequestDefaultKeyword(t *testing.T) {
	eng, mem, ch := newTestEngine(t)
	seedPlaylistItems(t, mem, ch.ID, models.DefaultPlaylistKeyword,
		"https://youtu.be/one", "https://youtu.be/two")

	// An empty keyword resolves to the seeded default playlist, and an empty
	// requester attributes the play to the reserved playlist identity.
	pick, err := eng.RandomRequest(ch.ID, "", "", "")
	if err != nil {
		t.Fatalf("RandomRequest error: %v", err)
	}
	if pick.Keyword != models.DefaultPlaylistKeyword {
		t.Fatalf("keyword = %q, want %q", pick.Keyword, models.DefaultPlaylistKeyword)
	}
	if pick.Request.IsPriority {
		t.Fatalf("playlist request got priority")
	}
	if pick.Request.User == nil || !pick.Request.User.IsPlaylistUser() {
		t.Fatalf("playlist request attributed to %+v, want playlist identity", pick.Request.User)
	}

	snap, err := eng.Snapshot(ch.ID, false)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(snap.Pending) != 1 || snap.Pending[0].ID != pick.Request.ID {
		t.Fatalf("picked request not in queue")
	}
}

func TestRandomRequestNamedViewer(t *testing.T) {
	eng, mem, ch := newTestEngine(t)
	seedPlaylistItems(t, mem, ch.ID, models.DefaultPlaylistKeyword, "https://youtu.be/one")

	pick, err := eng.RandomRequest(ch.ID, "DEFAULT", "alice", "Alice")
	if err != nil {
		t.Fatalf("RandomRequest error: %v", err)
	}
	if pick.Request.User == nil || pick.Request.User.PlatformUserID != "alice" {
		t.Fatalf("request attributed to %+v, want alice", pick.Request.User)
	}
}

func TestRandomRequestNoMatchingPlaylist(t *testing.T) {
	eng, mem, ch := newTestEngine(t)

	if _, err := eng.RandomRequest(ch.ID, "nosuchkeyword", "", ""); !errors.Is(err, engine.ErrNoMatchingPlaylist) {
		t.Fatalf("unknown keyword error = %v, want ErrNoMatchingPlaylist", err)
	}

	// The default playlist exists but has no items yet.
	if _, err := mem.PlaylistByKeyword(ch.ID, models.DefaultPlaylistKeyword); err != nil {
		t.Fatalf("seeded playlist missing: %v", err)
	}
	if _, err := eng.RandomRequest(ch.ID, "", "", ""); !errors.Is(err, engine.ErrNoMatchingPlaylist) {
		t.Fatalf("empty playlist error = %v, want ErrNoMatchingPlaylist", err)
	}
}

func TestRandomRequestRespectsQueuePolicy(t *testing.T) {
	eng, mem, ch := newTestEngine(t)
	seedPlaylistItems(t, mem, ch.ID, models.DefaultPlaylistKeyword, "https://youtu.be/one")

	if err := eng.SetQueueClosed(ch.ID, true); err != nil {
		t.Fatalf("SetQueueClosed error: %v", err)
	}
	if _, err := eng.RandomRequest(ch.ID, "", "", ""); !errors.Is(err, engine.ErrQueueClosed) {
		t.Fatalf("random request on closed queue error = %v, want ErrQueueClosed", err)
	}
}
