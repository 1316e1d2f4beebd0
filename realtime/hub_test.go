package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(userID string) *Client {
	return &Client{
		userID:   userID,
		send:     make(chan []byte, 8),
		channels: make(map[string]bool),
	}
}

func TestHubSubscribeAndPublish(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("u1")
	client.hub = hub
	hub.register <- client

	channel := PostChannel + "abc"
	hub.subscribe(channel, client)
	if got := hub.Subscribers(channel); got != 1 {
		t.Fatalf("subscribers = %d, want 1", got)
	}

	hub.Publish(channel, "comment_added", map[string]string{"postId": "abc"})

	select {
	case data := <-client.send:
		var msg struct {
			Type    string `json:"type"`
			Channel string `json:"channel"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if msg.Type != "comment_added" || msg.Channel != channel {
			t.Errorf("got event %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered within 1s")
	}
}

func TestHubUnregisterTearsDownSubscriptions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("u1")
	client.hub = hub
	hub.register <- client

	channel := ChatChannel + "a_b"
	hub.subscribe(channel, client)

	hub.unregister <- client

	deadline := time.Now().Add(time.Second)
	for hub.Subscribers(channel) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not torn down after unregister")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// send channel is closed on unregister
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel still open after unregister")
	}
}

func TestHubPublishToEmptyChannelDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	done := make(chan struct{})
	go func() {
		hub.Publish(UserChannel+"nobody", "follow_updated", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on channel with no subscribers")
	}
}
