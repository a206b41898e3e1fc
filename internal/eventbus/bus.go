package eventbus

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind is disconnected rather than stalling the publisher.
const subscriberBuffer = 64

// EventStore is the durable side of the bus, used for since-cursor replay.
type EventStore interface {
	InsertEvent(ev *models.Event) error
	EventsSince(channelID uuid.UUID, cursor int64) ([]models.Event, error)
	LastEventTime(channelID uuid.UUID) (int64, error)
}

// Relay mirrors published events to an external transport (Redis pub/sub)
// so bot processes outside this binary can consume the stream.
type Relay interface {
	PublishEvent(ev models.Event) error
}

// Bus is the per-channel ordered event queue. Publish is called while the
// caller holds the channel's write lock, so per-channel ordering matches
// commit order; the bus mutex only guards subscriber bookkeeping.
type Bus struct {
	store EventStore
	relay Relay // optional

	mu   sync.Mutex
	subs map[uuid.UUID]map[*Subscription]struct{}
	last map[uuid.UUID]int64
}

// New creates a bus backed by store. relay may be nil.
func New(store EventStore, relay Relay) *Bus {
	return &Bus{
		store: store,
		relay: relay,
		subs:  make(map[uuid.UUID]map[*Subscription]struct{}),
		last:  make(map[uuid.UUID]int64),
	}
}

// Subscription is one live, ordered consumer of a channel's events.
type Subscription struct {
	bus       *Bus
	channelID uuid.UUID
	ch        chan models.Event
}

// C returns the ordered event stream. It is closed when the subscription is
// cancelled or dropped for falling behind.
func (s *Subscription) C() <-chan models.Event {
	return s.ch
}

// Close unregisters the subscription and closes its stream.
func (s *Subscription) Close() {
	s.bus.remove(s)
}

// Subscribe returns a live event stream for the channel, starting now.
func (b *Bus) Subscribe(channelID uuid.UUID) *Subscription {
	sub := &Subscription{
		bus:       b,
		channelID: channelID,
		ch:        make(chan models.Event, subscriberBuffer),
	}

	b.mu.Lock()
	if b.subs[channelID] == nil {
		b.subs[channelID] = make(map[*Subscription]struct{})
	}
	b.subs[channelID][sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *Bus) removeLocked(sub *Subscription) {
	set, ok := b.subs[sub.channelID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, sub.channelID)
	}
	close(sub.ch)
}

// Publish appends an event with a strictly increasing per-channel event time,
// records it durably, and delivers it to every current subscriber in order.
func (b *Bus) Publish(channelID uuid.UUID, eventType string, userID *uuid.UUID, payload interface{}) (*models.Event, error) {
	meta, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event payload: %w", err)
	}

	t, err := b.nextEventTime(channelID)
	if err != nil {
		return nil, err
	}

	ev := models.Event{
		ID:        uuid.New(),
		ChannelID: channelID,
		EventTime: t,
		Type:      eventType,
		UserID:    userID,
		Meta:      meta,
	}

	if err := b.store.InsertEvent(&ev); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	// Fan out without blocking. A full subscriber buffer means the
	// consumer is not keeping up; drop it so publishers never stall.
	b.mu.Lock()
	for sub := range b.subs[channelID] {
		select {
		case sub.ch <- ev:
		default:
			log.Printf("Dropping slow event subscriber on channel %s", channelID)
			b.removeLocked(sub)
		}
	}
	b.mu.Unlock()

	if b.relay != nil {
		if err := b.relay.PublishEvent(ev); err != nil {
			log.Printf("Failed to relay event %s: %v", ev.Type, err)
		}
	}

	return &ev, nil
}

// nextEventTime hands out unix-microsecond timestamps bumped past the
// previous one, so the cursor never repeats even within a microsecond. The
// high-water mark is restored from the store after a restart. Callers hold
// the channel's write lock, so publishes for one channel never race here.
func (b *Bus) nextEventTime(channelID uuid.UUID) (int64, error) {
	b.mu.Lock()
	last, ok := b.last[channelID]
	b.mu.Unlock()
	if !ok {
		stored, err := b.store.LastEventTime(channelID)
		if err != nil {
			return 0, fmt.Errorf("failed to load event cursor: %w", err)
		}
		last = stored
	}

	t := time.Now().UnixMicro()
	if t <= last {
		t = last + 1
	}

	b.mu.Lock()
	b.last[channelID] = t
	b.mu.Unlock()
	return t, nil
}

// Since returns all events with event_time > cursor, in order. Polling
// consumers use it to reconcile after missing live updates.
func (b *Bus) Since(channelID uuid.UUID, cursor int64) ([]models.Event, error) {
	return b.store.EventsSince(channelID, cursor)
}
