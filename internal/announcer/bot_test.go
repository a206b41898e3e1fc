package announcer

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/eventbus"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/store"
)

type recordingSender struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingSender) SendChat(channelLogin, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, message)
	return nil
}

func (r *recordingSender) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func waitForLines(t *testing.T, sender *recordingSender, n int) []string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if lines := sender.snapshot(); len(lines) >= n {
			return lines
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d chat lines, got %v", n, sender.snapshot())
	return nil
}

func TestBotAnnouncesQueueActivity(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	sender := &recordingSender{}
	bot := NewBot(bus, sender)

	channelID := uuid.New()
	bot.Watch(channelID, "teststreamer")
	defer bot.Stop(channelID)

	song := models.Song{ID: uuid.New(), Title: "My Song"}
	requester := models.User{ID: uuid.New(), DisplayName: "Alice"}
	if _, err := bus.Publish(channelID, models.EventRequestAdded, &requester.ID, models.RequestAddedPayload{
		ID:        uuid.New(),
		Song:      song,
		Requester: requester,
	}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if _, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{Closed: true}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	lines := waitForLines(t, sender, 2)
	if lines[0] != `Alice added "My Song" to the queue` {
		t.Fatalf("request line = %q", lines[0])
	}
	if lines[1] != "The request queue is now closed" {
		t.Fatalf("status line = %q", lines[1])
	}
}

func TestBotIgnoresZeroDeltaAwards(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	sender := &recordingSender{}
	bot := NewBot(bus, sender)

	channelID := uuid.New()
	bot.Watch(channelID, "teststreamer")
	defer bot.Stop(channelID)

	user := models.User{ID: uuid.New(), DisplayName: "Alice", PrioPoints: 2}
	if _, err := bus.Publish(channelID, models.EventBumpAwarded, &user.ID, models.BumpAwardedPayload{
		User: user, Delta: 0, PrioPoints: 2,
	}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if _, err := bus.Publish(channelID, models.EventBumpAwarded, &user.ID, models.BumpAwardedPayload{
		User: user, Delta: 2, PrioPoints: 2,
	}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	lines := waitForLines(t, sender, 1)
	if len(lines) != 1 {
		t.Fatalf("lines = %v, want only the non-zero award", lines)
	}
	if lines[0] != "Alice earned 2 priority point(s), balance 2" {
		t.Fatalf("award line = %q", lines[0])
	}
}

func TestBotFollowsChannelsRegisteredAtRuntime(t *testing.T) {
	mem := store.NewMemory()
	bus := eventbus.New(mem, nil)
	eng := engine.New(mem, bus)
	sender := &recordingSender{}
	bot := NewBot(bus, sender)
	eng.SetChannelWatcher(bot)

	ch := &models.Channel{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		PlatformID: "1234567",
		Login:      "latestreamer",
		Joined:     true,
		Authorized: true,
	}
	if err := eng.RegisterChannel(ch); err != nil {
		t.Fatalf("RegisterChannel error: %v", err)
	}
	defer bot.Stop(ch.ID)

	if err := eng.SetQueueClosed(ch.ID, true); err != nil {
		t.Fatalf("SetQueueClosed error: %v", err)
	}

	lines := waitForLines(t, sender, 1)
	if lines[0] != "The request queue is now closed" {
		t.Fatalf("status line = %q", lines[0])
	}
}

func TestWatchIsIdempotent(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	sender := &recordingSender{}
	bot := NewBot(bus, sender)

	channelID := uuid.New()
	bot.Watch(channelID, "teststreamer")
	bot.Watch(channelID, "teststreamer")
	defer bot.Stop(channelID)

	if _, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{Closed: true}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	waitForLines(t, sender, 1)
	// Give a duplicate subscription time to surface before asserting.
	time.Sleep(50 * time.Millisecond)
	if lines := sender.snapshot(); len(lines) != 1 {
		t.Fatalf("duplicate watch produced %d lines, want 1", len(lines))
	}
}
