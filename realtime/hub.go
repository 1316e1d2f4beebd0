// Package realtime implements the live-view subscription layer: every mounted
// client view subscribes to a named channel, and the hub guarantees the
// subscription is torn down when the connection goes away.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Channel names used by the handlers.
const (
	// per-chat message stream
	ChatChannel = "chat:"
	// per-post comment/like stream
	PostChannel = "post:"
	// per-user follow/chat-list events
	UserChannel = "user:"
)

type event struct {
	channel string
	data    []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	events     chan event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		channels:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan event, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("realtime: client %s connected (%d total)", client.userID, h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for channel := range client.channels {
					h.dropFromChannel(channel, client)
				}
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("realtime: client %s disconnected (%d total)", client.userID, h.clientCount())

		case ev := <-h.events:
			h.mu.Lock()
			for client := range h.channels[ev.channel] {
				select {
				case client.send <- ev.data:
				default:
					// slow consumer, drop its subscription
					h.dropFromChannel(ev.channel, client)
					delete(client.channels, ev.channel)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish sends a typed event to every subscriber of the channel.
func (h *Hub) Publish(channel, eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"channel": channel,
		"payload": payload,
	})
	if err != nil {
		log.Printf("realtime: marshal %s event: %v", eventType, err)
		return
	}
	h.events <- event{channel: channel, data: data}
}

func (h *Hub) subscribe(channel string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Client]bool)
		h.channels[channel] = subs
	}
	subs[client] = true
	client.channels[channel] = true
}

func (h *Hub) unsubscribe(channel string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropFromChannel(channel, client)
	delete(client.channels, channel)
}

// caller holds h.mu
func (h *Hub) dropFromChannel(channel string, client *Client) {
	if subs, ok := h.channels[channel]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribers reports how many clients listen on a channel. Used by tests
// and the health endpoint.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
