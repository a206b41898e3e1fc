package engine_test

import (
	"testing"

	"github.com/queuebeat/backend/internal/models"
)

func TestUpdateSettingsNormalizesAndAnnounces(t *testing.T) {
	eng, _, ch := newTestEngine(t)

	st, err := eng.Settings(ch.ID)
	if err != nil {
		t.Fatalf("Settings error: %v", err)
	}
	st.OverallQueueCap = -10
	st.MaxPrioPerUser = 0

	updated, err := eng.UpdateSettings(ch.ID, st)
	if err != nil {
		t.Fatalf("UpdateSettings error: %v", err)
	}
	if updated.OverallQueueCap != 0 {
		t.Fatalf("negative cap survived update: %d", updated.OverallQueueCap)
	}
	if updated.MaxPrioPerUser != 1 {
		t.Fatalf("max_prio_per_user = %d, want clamped to 1", updated.MaxPrioPerUser)
	}

	events, err := eng.Bus().Since(ch.ID, 0)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	count := 0
	for _, ev := range events {
		if ev.Type == models.EventSettingsUpdated {
			count++
		}
	}
	// One from registration, one from the update.
	if count != 2 {
		t.Fatalf("settings.updated events = %d, want 2", count)
	}
}

func TestSetQueueClosedEmitsOnlyOnChange(t *testing.T) {
	eng, _, ch := newTestEngine(t)

	if err := eng.SetQueueClosed(ch.ID, true); err != nil {
		t.Fatalf("SetQueueClosed error: %v", err)
	}
	// Same value again is a no-op and stays silent.
	if err := eng.SetQueueClosed(ch.ID, true); err != nil {
		t.Fatalf("SetQueueClosed error: %v", err)
	}
	if err := eng.SetQueueClosed(ch.ID, false); err != nil {
		t.Fatalf("SetQueueClosed error: %v", err)
	}

	events, err := eng.Bus().Since(ch.ID, 0)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	count := 0
	for _, ev := range events {
		if ev.Type == models.EventQueueStatus {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("queue.status events = %d, want 2", count)
	}
}
