package hub

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Conn abstracts the websocket connection so the hub can be exercised
// without a network. The fiber contrib *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one connected chat session on the server side.
type Client struct {
	ID   string
	User int64
	Conn Conn
	Send chan []byte

	hub *Hub
}

// NewClient binds a freshly accepted connection for the given user.
func NewClient(h *Hub, user int64, conn Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		User: user,
		Conn: conn,
		Send: make(chan []byte, 16),
		hub:  h,
	}
}

// ReadPump feeds inbound frames to the hub until the connection drops,
// then unregisters the client.
func (c *Client) ReadPump() {
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			c.hub.UnregisterChan <- c
			return
		}
		c.hub.inbound <- inboundFrame{client: c, data: data}
	}
}

// WritePump drains the send queue onto the wire. It ends when the hub
// closes Send on unregister.
func (c *Client) WritePump() {
	for data := range c.Send {
		_ = c.Conn.WriteMessage(websocket.TextMessage, data)
	}
}
