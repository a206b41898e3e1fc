package eventbus_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/eventbus"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/store"
)

func TestPublishDeliversInOrder(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	channelID := uuid.New()

	sub := bus.Subscribe(channelID)
	defer sub.Close()

	var published []int64
	for i := 0; i < 10; i++ {
		ev, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{Closed: i%2 == 0})
		if err != nil {
			t.Fatalf("Publish error: %v", err)
		}
		published = append(published, ev.EventTime)
	}

	// The live stream sees the same events in the same order as replay.
	for i := 0; i < 10; i++ {
		select {
		case ev := <-sub.C():
			if ev.EventTime != published[i] {
				t.Fatalf("live event %d time = %d, want %d", i, ev.EventTime, published[i])
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for live event %d", i)
		}
	}

	replay, err := bus.Since(channelID, 0)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	if len(replay) != 10 {
		t.Fatalf("replay length = %d, want 10", len(replay))
	}
	for i, ev := range replay {
		if ev.EventTime != published[i] {
			t.Fatalf("replay event %d time = %d, want %d", i, ev.EventTime, published[i])
		}
	}
}

func TestEventTimesStrictlyIncrease(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	channelID := uuid.New()

	var last int64
	for i := 0; i < 100; i++ {
		ev, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{})
		if err != nil {
			t.Fatalf("Publish error: %v", err)
		}
		if ev.EventTime <= last {
			t.Fatalf("event time %d not after %d", ev.EventTime, last)
		}
		last = ev.EventTime
	}
}

func TestSinceCursorSkipsConsumed(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	channelID := uuid.New()

	var cursor int64
	for i := 0; i < 5; i++ {
		ev, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{})
		if err != nil {
			t.Fatalf("Publish error: %v", err)
		}
		if i == 2 {
			cursor = ev.EventTime
		}
	}

	rest, err := bus.Since(channelID, cursor)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("events after cursor = %d, want 2", len(rest))
	}
	for _, ev := range rest {
		if ev.EventTime <= cursor {
			t.Fatalf("event time %d not after cursor %d", ev.EventTime, cursor)
		}
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	channelID := uuid.New()

	sub := bus.Subscribe(channelID)

	// Never drain; once the buffer is full the publisher disconnects the
	// subscriber instead of blocking.
	for i := 0; i < 100; i++ {
		if _, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{}); err != nil {
			t.Fatalf("Publish error: %v", err)
		}
	}

	// A closed stream drains its buffered events and then reports closed.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("slow subscriber was not dropped")
		}
	}
}

func TestChannelsAreIsolated(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	chanA := uuid.New()
	chanB := uuid.New()

	subA := bus.Subscribe(chanA)
	defer subA.Close()

	if _, err := bus.Publish(chanB, models.EventQueueStatus, nil, models.QueueStatusPayload{}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	select {
	case ev := <-subA.C():
		t.Fatalf("channel A received channel B's event %s", ev.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	bus := eventbus.New(store.NewMemory(), nil)
	channelID := uuid.New()

	sub := bus.Subscribe(channelID)
	sub.Close()

	if _, err := bus.Publish(channelID, models.EventQueueStatus, nil, models.QueueStatusPayload{}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if _, ok := <-sub.C(); ok {
		t.Fatalf("closed subscription delivered an event")
	}
}
