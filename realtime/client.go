package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Client struct {
	conn     *websocket.Conn
	userID   string
	send     chan []byte
	channels map[string]bool
	hub      *Hub
}

type inbound struct {
	Type    string `json:"type"`
	Payload struct {
		Channel string `json:"channel"`
	} `json:"payload"`
}

// Handler upgrades the connection after validating the query token with
// verify. The token cannot travel in a header during the ws handshake.
func Handler(hub *Hub, verify func(token string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		userID, err := verify(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("realtime: upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:     conn,
			userID:   userID,
			send:     make(chan []byte, 256),
			channels: make(map[string]bool),
			hub:      hub,
		}

		hub.register <- client

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId": userID,
				"time":   time.Now().UnixMilli(),
			},
		})
		client.send <- welcome

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: read error: %v", err)
			}
			break
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("realtime: bad client message: %v", err)
			continue
		}

		switch msg.Type {
		case "subscribe":
			if msg.Payload.Channel != "" {
				c.hub.subscribe(msg.Payload.Channel, c)
				c.ack("subscribed", msg.Payload.Channel)
			}
		case "unsubscribe":
			if msg.Payload.Channel != "" {
				c.hub.unsubscribe(msg.Payload.Channel, c)
				c.ack("unsubscribed", msg.Payload.Channel)
			}
		case "ping":
			c.ack("pong", "")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) ack(eventType, channel string) {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"payload": map[string]interface{}{
			"channel": channel,
			"userId":  c.userID,
			"time":    time.Now().UnixMilli(),
		},
	})
	if err != nil {
		log.Printf("realtime: marshal ack: %v", err)
		return
	}
	c.send <- data
}
