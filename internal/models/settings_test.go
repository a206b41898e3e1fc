package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestDefaultSettings(t *testing.T) {
	st := DefaultSettings(uuid.New())

	if st.MaxPrioPoints != 100 {
		t.Fatalf("max_prio_points = %d, want 100", st.MaxPrioPoints)
	}
	if st.MaxPrioPerUser != 3 {
		t.Fatalf("max_prio_per_user = %d, want 3", st.MaxPrioPerUser)
	}
	if st.MaxFreeBumpsPerStream != 1 {
		t.Fatalf("max_free_bumps_per_stream = %d, want 1", st.MaxFreeBumpsPerStream)
	}
	if !st.AllowBumps {
		t.Fatalf("allow_bumps = false, want true")
	}
	if st.QueueClosed || st.PrioOnly {
		t.Fatalf("queue toggles set on fresh settings")
	}
	// Caps default to 0, meaning unlimited.
	if st.OverallQueueCap != 0 || st.NonPriorityQueueCap != 0 || st.MaxRequestsPerUser != 0 {
		t.Fatalf("caps not unlimited by default")
	}
}

func TestNormalizeClampsValues(t *testing.T) {
	st := &ChannelSettings{
		OverallQueueCap:     -5,
		NonPriorityQueueCap: -1,
		MaxRequestsPerUser:  -3,
		MaxPrioPoints:       0,
		MaxPrioPerUser:      -2,
		PrioFollowPoints:    -1,
		PrioBitsPerPoint:    -100,
	}
	st.Normalize()

	if st.OverallQueueCap != 0 || st.NonPriorityQueueCap != 0 || st.MaxRequestsPerUser != 0 {
		t.Fatalf("negative caps not clamped to unlimited: %+v", st)
	}
	if st.PrioFollowPoints != 0 || st.PrioBitsPerPoint != 0 {
		t.Fatalf("negative rates not clamped to 0: %+v", st)
	}
	if st.MaxPrioPoints != 1 {
		t.Fatalf("max_prio_points = %d, want min 1", st.MaxPrioPoints)
	}
	if st.MaxPrioPerUser != 1 {
		t.Fatalf("max_prio_per_user = %d, want min 1", st.MaxPrioPerUser)
	}
}
