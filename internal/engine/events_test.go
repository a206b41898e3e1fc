package engine_test

import (
	"testing"
	"time"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

// The live stream and the durable log must agree on event order, and both
// must match the order operations committed in.
func TestEventStreamMatchesCommitOrder(t *testing.T) {
	eng, _, ch := newTestEngine(t)

	sub := eng.Bus().Subscribe(ch.ID)
	defer sub.Close()

	a := enqueue(t, eng, ch.ID, "alice", "https://youtu.be/a")
	enqueue(t, eng, ch.ID, "bob", "https://youtu.be/b")
	if _, _, err := eng.MarkPlayed(ch.ID, a.ID.String()); err != nil {
		t.Fatalf("MarkPlayed error: %v", err)
	}
	if err := eng.SetQueueClosed(ch.ID, true); err != nil {
		t.Fatalf("SetQueueClosed error: %v", err)
	}

	wantTypes := []string{
		models.EventRequestAdded,
		models.EventRequestAdded,
		models.EventRequestPlayed,
		models.EventQueueStatus,
	}

	var live []models.Event
	for range wantTypes {
		select {
		case ev := <-sub.C():
			live = append(live, ev)
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d live events", len(live))
		}
	}
	for i, ev := range live {
		if ev.Type != wantTypes[i] {
			t.Fatalf("live event %d type = %s, want %s", i, ev.Type, wantTypes[i])
		}
	}

	// Replay from zero covers registration plus the four operations, in the
	// same relative order as the live stream.
	replay, err := eng.Bus().Since(ch.ID, live[0].EventTime-1)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	if len(replay) != len(live) {
		t.Fatalf("replay length = %d, want %d", len(replay), len(live))
	}
	for i := range live {
		if replay[i].ID != live[i].ID {
			t.Fatalf("replay[%d] = %s, live = %s", i, replay[i].ID, live[i].ID)
		}
	}
}

func TestRemoveEmitsRemovedEvent(t *testing.T) {
	eng, _, ch := newTestEngine(t)

	a := enqueue(t, eng, ch.ID, "alice", "https://youtu.be/a")
	if _, err := eng.Remove(ch.ID, engine.SelectLast); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	events, err := eng.Bus().Since(ch.ID, 0)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	last := events[len(events)-1]
	if last.Type != models.EventRequestRemoved {
		t.Fatalf("last event type = %s, want %s", last.Type, models.EventRequestRemoved)
	}
	if last.UserID == nil || *last.UserID != a.UserID {
		t.Fatalf("removed event user = %v, want %s", last.UserID, a.UserID)
	}
}
