package engine_test

import (
	"errors"
	"testing"

	"github.com/queuebeat/backend/internal/engine"
)

func TestArchiveOpensFreshSession(t *testing.T) {
	eng, mem, ch := newTestEngine(t)

	a := enqueue(t, eng, ch.ID, "alice", "https://youtu.be/a")
	b := enqueue(t, eng, ch.ID, "bob", "https://youtu.be/b")
	if _, _, err := eng.MarkPlayed(ch.ID, a.ID.String()); err != nil {
		t.Fatalf("MarkPlayed error: %v", err)
	}

	archivedID, newID, err := eng.Archive(ch.ID)
	if err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	if archivedID == newID {
		t.Fatalf("archive returned the same session twice")
	}

	active, err := mem.ActiveSession(ch.ID)
	if err != nil {
		t.Fatalf("ActiveSession error: %v", err)
	}
	if active.ID != newID {
		t.Fatalf("active session = %s, want %s", active.ID, newID)
	}

	// The new queue starts empty.
	snap, err := eng.Snapshot(ch.ID, true)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(snap.Pending) != 0 || len(snap.Played) != 0 {
		t.Fatalf("new session queue = %d pending %d played, want empty", len(snap.Pending), len(snap.Played))
	}

	// The archived session keeps its full history, played and unplayed.
	history, err := eng.History(archivedID)
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ID != a.ID || history[1].ID != b.ID {
		t.Fatalf("history order = %s,%s, want played %s then pending %s",
			history[0].ID, history[1].ID, a.ID, b.ID)
	}
}

func TestHaltedChannelRefusesWrites(t *testing.T) {
	eng, mem, ch := newTestEngine(t)

	// Deactivating the only session corrupts the one-active-session
	// invariant; the next write halts the channel.
	active, err := mem.ActiveSession(ch.ID)
	if err != nil {
		t.Fatalf("ActiveSession error: %v", err)
	}
	if err := mem.ArchiveSession(active.ID); err != nil {
		t.Fatalf("ArchiveSession error: %v", err)
	}

	_, err = eng.Enqueue(ch.ID, engine.EnqueueParams{Link: "https://youtu.be/a", PlatformUserID: "alice"})
	if !errors.Is(err, engine.ErrInvariantViolation) {
		t.Fatalf("enqueue with no active session error = %v, want ErrInvariantViolation", err)
	}

	// Every later write on the channel fails fast.
	_, err = eng.Enqueue(ch.ID, engine.EnqueueParams{Link: "https://youtu.be/b", PlatformUserID: "bob"})
	if !errors.Is(err, engine.ErrChannelHalted) {
		t.Fatalf("write on halted channel error = %v, want ErrChannelHalted", err)
	}
}
