package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Client is one websocket connection. The ID is the opaque seat handle the
// history engine keys player change-logs by, so game bookkeeping never
// aliases the network object.
type Client struct {
	ID   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// writePump drains the send queue onto the wire. A write failure closes
// the connection; the read loop notices and unregisters the client.
func (c *Client) writePump() {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("Websocket write error: %v", err)
			c.conn.Close()
			return
		}
	}
}

// enqueue marshals v and queues it for delivery. A full queue drops the
// frame rather than blocking the dispatcher; a dead client never stalls a
// broadcast.
func (c *Client) enqueue(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Client %s send queue full, dropping frame", c.ID)
	}
}

// shutdown closes the send queue exactly once.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
