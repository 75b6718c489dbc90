package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mediremind/mediremind-server/cmd/models"
)

func TestHubBroadcastsToAllSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &ClientConnection{Hub: hub, Send: make(chan []byte, 4)}
	second := &ClientConnection{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- first
	hub.Register <- second

	hub.Publish(SessionEvent{Event: SignedIn, UserID: 7, Role: models.RolePatient})

	for _, client := range []*ClientConnection{first, second} {
		select {
		case message := <-client.Send:
			var event SessionEvent
			if err := json.Unmarshal(message, &event); err != nil {
				t.Fatalf("unmarshaling event: %v", err)
			}
			if event.Event != SignedIn || event.UserID != 7 || event.Role != models.RolePatient {
				t.Errorf("unexpected event: %+v", event)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &ClientConnection{Hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, open := <-client.Send:
		if open {
			t.Error("expected send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}
