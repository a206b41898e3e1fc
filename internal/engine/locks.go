package engine

import (
	"sync"

	"github.com/google/uuid"
)

// channelLocks hands out one mutex per channel. Every mutating operation on
// a channel runs under its lock, so position assignment, point debits and
// event publishes are linearizable with respect to each other. Different
// channels share nothing and proceed in parallel.
type channelLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newChannelLocks() *channelLocks {
	return &channelLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (c *channelLocks) get(channelID uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[channelID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[channelID] = l
	}
	return l
}
