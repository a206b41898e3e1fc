package engine

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/eventbus"
	"github.com/queuebeat/backend/internal/models"
)

// ChannelWatcher is told about newly registered channels so chat-side
// followers can attach to their event streams without a restart.
type ChannelWatcher interface {
	Watch(channelID uuid.UUID, channelLogin string)
}

// Engine is the queue and priority core. Every mutating operation runs under
// the channel's lock and publishes its event before releasing it, so the
// order observed by bus subscribers matches commit order.
type Engine struct {
	store   Store
	bus     *eventbus.Bus
	locks   *channelLocks
	watcher ChannelWatcher

	// Channels whose write path is halted after an invariant violation.
	haltedMu sync.Mutex
	halted   map[uuid.UUID]bool

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates an engine over store, publishing to bus.
func New(store Store, bus *eventbus.Bus) *Engine {
	return &Engine{
		store:  store,
		bus:    bus,
		locks:  newChannelLocks(),
		halted: make(map[uuid.UUID]bool),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Bus returns the engine's event bus for subscribers.
func (e *Engine) Bus() *eventbus.Bus {
	return e.bus
}

// SetChannelWatcher registers the watcher notified by RegisterChannel.
// Call before serving traffic; registrations race with a late watcher.
func (e *Engine) SetChannelWatcher(w ChannelWatcher) {
	e.watcher = w
}

// withChannelLock runs fn under the channel's write lock, refusing halted
// channels up front.
func (e *Engine) withChannelLock(channelID uuid.UUID, fn func() error) error {
	l := e.locks.get(channelID)
	l.Lock()
	defer l.Unlock()

	e.haltedMu.Lock()
	halted := e.halted[channelID]
	e.haltedMu.Unlock()
	if halted {
		return fmt.Errorf("%w: channel %s", ErrChannelHalted, channelID)
	}

	return fn()
}

// invariant marks the channel halted and returns a fatal error. Corrupted
// state must not keep mutating; manual intervention is required.
func (e *Engine) invariant(channelID uuid.UUID, format string, args ...interface{}) error {
	e.haltedMu.Lock()
	e.halted[channelID] = true
	e.haltedMu.Unlock()

	msg := fmt.Sprintf(format, args...)
	log.Printf("INVARIANT VIOLATION on channel %s: %s (write path halted)", channelID, msg)
	return fmt.Errorf("%w: %s", ErrInvariantViolation, msg)
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

// activeSession loads the channel's active session; its absence is an
// invariant violation, not a recoverable error.
func (e *Engine) activeSession(channelID uuid.UUID) (*models.StreamSession, error) {
	sess, err := e.store.ActiveSession(channelID)
	if err != nil {
		return nil, e.invariant(channelID, "no active stream session: %v", err)
	}
	return sess, nil
}
