package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRequestLess(t *testing.T) {
	now := time.Now()

	prio := Request{ID: uuid.New(), IsPriority: true, Position: 5, RequestTime: now}
	nonPrio := Request{ID: uuid.New(), IsPriority: false, Position: 1, RequestTime: now.Add(-time.Hour)}

	// Priority outranks everything regardless of position or age.
	if !prio.Less(&nonPrio) {
		t.Fatalf("priority request did not rank before non-priority")
	}
	if nonPrio.Less(&prio) {
		t.Fatalf("non-priority request ranked before priority")
	}

	// Within a class, lower position wins.
	a := Request{ID: uuid.New(), Position: 1, RequestTime: now}
	b := Request{ID: uuid.New(), Position: 2, RequestTime: now.Add(-time.Hour)}
	if !a.Less(&b) || b.Less(&a) {
		t.Fatalf("position ordering wrong within class")
	}

	// Equal positions fall back to request time.
	c := Request{ID: uuid.New(), Position: 3, RequestTime: now.Add(-time.Minute)}
	d := Request{ID: uuid.New(), Position: 3, RequestTime: now}
	if !c.Less(&d) || d.Less(&c) {
		t.Fatalf("request time tie-break wrong")
	}
}

func TestIsPlaylistUser(t *testing.T) {
	u := User{PlatformUserID: PlaylistUserPlatformID}
	if !u.IsPlaylistUser() {
		t.Fatalf("reserved identity not recognized")
	}
	v := User{PlatformUserID: "12345"}
	if v.IsPlaylistUser() {
		t.Fatalf("viewer misidentified as playlist user")
	}
}

func TestChannelValidate(t *testing.T) {
	valid := Channel{PlatformID: "123", Login: "streamer"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid channel rejected: %v", err)
	}

	tests := []struct {
		name string
		ch   Channel
	}{
		{"missing platform id", Channel{Login: "streamer"}},
		{"missing login", Channel{PlatformID: "123"}},
		{"uppercase login", Channel{PlatformID: "123", Login: "Streamer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ch.Validate(); err == nil {
				t.Fatalf("invalid channel accepted")
			}
		})
	}
}
