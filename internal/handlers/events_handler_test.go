package handlers

import (
	"testing"

	"github.com/queuebeat/backend/internal/models"
)

func TestNextCursor(t *testing.T) {
	events := []models.Event{
		{EventTime: 100},
		{EventTime: 101},
		{EventTime: 105},
	}

	// A client resuming from the returned value must not re-fetch the
	// batch it was just given.
	if got := nextCursor(events, 42); got != 105 {
		t.Fatalf("nextCursor = %d, want 105", got)
	}
	if got := nextCursor(nil, 42); got != 42 {
		t.Fatalf("nextCursor on empty batch = %d, want 42", got)
	}
}
