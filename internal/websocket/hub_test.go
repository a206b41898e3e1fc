package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHubBroadcastToChannel(t *testing.T) {
	h := &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client, 1),
		unregister: make(chan *Client, 1),
	}

	chanA := uuid.New()
	chanB := uuid.New()

	// Use actual Client structs but only their send channels for assertion
	c1 := &Client{channelID: chanA, send: make(chan []byte, 4)}
	c2 := &Client{channelID: chanA, send: make(chan []byte, 4)}
	c3 := &Client{channelID: chanB, send: make(chan []byte, 4)}

	h.clients[chanA] = map[*Client]bool{c1: true, c2: true}
	h.clients[chanB] = map[*Client]bool{c3: true}

	msg := map[string]string{"hello": "world"}
	if err := h.SendToChannel(chanA, msg); err != nil {
		t.Fatalf("SendToChannel error: %v", err)
	}

	for _, c := range []*Client{c1, c2} {
		select {
		case b := <-c.send:
			var got map[string]string
			json.Unmarshal(b, &got)
			if got["hello"] != "world" {
				t.Fatalf("unexpected payload: %v", got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timed out waiting for channel broadcast")
		}
	}

	// The other channel's client sees nothing.
	select {
	case b := <-c3.send:
		t.Fatalf("channel B client received channel A broadcast: %s", b)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFullClientSkipped(t *testing.T) {
	h := &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client, 1),
		unregister: make(chan *Client, 1),
	}

	channelID := uuid.New()
	full := &Client{channelID: channelID, send: make(chan []byte)}
	h.clients[channelID] = map[*Client]bool{full: true}

	// An unbuffered, undrained send channel must not block the broadcast.
	done := make(chan struct{})
	go func() {
		h.broadcastToChannel(channelID, []byte(`{}`))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a full client")
	}
}
