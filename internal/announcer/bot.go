package announcer

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/eventbus"
	"github.com/queuebeat/backend/internal/models"
)

// ChatSender delivers a formatted line to a channel's chat
type ChatSender interface {
	SendChat(channelLogin, message string) error
}

// LogSender writes chat lines to the process log. Stands in until a
// real chat integration is configured.
type LogSender struct{}

func (LogSender) SendChat(channelLogin, message string) error {
	log.Printf("[chat/%s] %s", channelLogin, message)
	return nil
}

// Bot subscribes to a channel's event stream and announces queue
// activity in chat
type Bot struct {
	bus    *eventbus.Bus
	sender ChatSender

	mu      sync.Mutex
	running map[uuid.UUID]*eventbus.Subscription
}

// NewBot creates a new announcer bot instance
func NewBot(bus *eventbus.Bus, sender ChatSender) *Bot {
	if sender == nil {
		sender = LogSender{}
	}
	return &Bot{
		bus:     bus,
		sender:  sender,
		running: make(map[uuid.UUID]*eventbus.Subscription),
	}
}

// Watch starts announcing for a channel. Idempotent per channel.
func (b *Bot) Watch(channelID uuid.UUID, channelLogin string) {
	b.mu.Lock()
	if _, ok := b.running[channelID]; ok {
		b.mu.Unlock()
		return
	}
	sub := b.bus.Subscribe(channelID)
	b.running[channelID] = sub
	b.mu.Unlock()

	go b.run(channelID, channelLogin, sub)
}

// Stop ends announcing for a channel
func (b *Bot) Stop(channelID uuid.UUID) {
	b.mu.Lock()
	sub, ok := b.running[channelID]
	if ok {
		delete(b.running, channelID)
	}
	b.mu.Unlock()
	if ok {
		sub.Close()
	}
}

func (b *Bot) run(channelID uuid.UUID, channelLogin string, sub *eventbus.Subscription) {
	log.Printf("Announcer started for channel %s", channelLogin)
	for ev := range sub.C() {
		line := formatEvent(ev)
		if line == "" {
			continue
		}
		if err := b.sender.SendChat(channelLogin, line); err != nil {
			log.Printf("Failed to send chat announcement: %v", err)
		}
	}
	b.mu.Lock()
	delete(b.running, channelID)
	b.mu.Unlock()
	log.Printf("Announcer stopped for channel %s", channelLogin)
}

func formatEvent(ev models.Event) string {
	switch ev.Type {
	case models.EventRequestAdded:
		var p models.RequestAddedPayload
		if json.Unmarshal(ev.Meta, &p) != nil {
			return ""
		}
		return fmt.Sprintf("%s added \"%s\" to the queue", p.Requester.DisplayName, p.Song.Title)
	case models.EventRequestBumped:
		var p models.RequestBumpedPayload
		if json.Unmarshal(ev.Meta, &p) != nil || !p.IsPriority {
			return ""
		}
		return "A request was bumped to the priority queue"
	case models.EventRequestPlayed:
		var p models.RequestPlayedPayload
		if json.Unmarshal(ev.Meta, &p) != nil {
			return ""
		}
		title := ""
		if p.Request.Song != nil {
			title = p.Request.Song.Title
		}
		if p.UpNext != nil && p.UpNext.Song != nil {
			return fmt.Sprintf("Now played: \"%s\". Up next: \"%s\"", title, p.UpNext.Song.Title)
		}
		return fmt.Sprintf("Now played: \"%s\". The queue is empty", title)
	case models.EventQueueStatus:
		var p models.QueueStatusPayload
		if json.Unmarshal(ev.Meta, &p) != nil {
			return ""
		}
		if p.Closed {
			return "The request queue is now closed"
		}
		return "The request queue is now open"
	case models.EventBumpAwarded:
		var p models.BumpAwardedPayload
		if json.Unmarshal(ev.Meta, &p) != nil || p.Delta <= 0 {
			return ""
		}
		return fmt.Sprintf("%s earned %d priority point(s), balance %d", p.User.DisplayName, p.Delta, p.User.PrioPoints)
	}
	return ""
}
