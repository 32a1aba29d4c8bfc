package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mahendraputra/bisik/internal/config"
	"github.com/mahendraputra/bisik/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a single websocket connection. ConnID is the opaque
// connection handle the registry binds users to; the user is nil until a
// join has been processed.
type Client struct {
	ConnID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	user   *domain.User
	closed bool
}

// NewClient creates a Client with a generated connection handle.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ConnID: uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// User returns the user bound to this connection, or nil before join.
func (c *Client) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) setUser(u *domain.User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

// ReadPump pumps messages from the websocket connection into hub handlers
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		if c.conn != nil {
			c.conn.Close()
		}
	}()

	c.conn.SetReadLimit(int64(config.AppConfig.MaxMessageSize))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			c.SendError("Malformed request")
			continue
		}

		c.dispatch(event)
	}
}

// dispatch routes one inbound event to its hub handler.
func (c *Client) dispatch(event Event) {
	switch event.Type {
	case EventJoin:
		var payload JoinPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			c.SendError("Malformed join request")
			return
		}
		c.hub.HandleJoin(c, payload.Username)

	case EventStartChat:
		var payload StartChatPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			c.SendError("Malformed start_chat request")
			return
		}
		c.hub.HandleStartChat(c, payload.Username)

	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			c.SendError("Malformed send_message request")
			return
		}
		c.hub.HandleSendMessage(c, payload.ConversationID, payload.Body)

	case EventMarkRead:
		var payload MarkReadPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			c.SendError("Malformed mark_read request")
			return
		}
		c.hub.HandleMarkRead(c, payload.ConversationID)

	case EventListOnline:
		c.hub.HandleListOnline(c)

	default:
		c.SendError("Unknown request type")
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
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
				// Hub closed the channel
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

// Send adds a message to the client's send queue. Best-effort: a full
// buffer or an already-closed queue drops the message. The client lock
// keeps the channel send mutually exclusive with closeSend, so a push
// racing a disconnect can never hit a closed channel.
func (c *Client) Send(msg []byte) {
	if msg == nil {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		// Buffer full
	}
}

// closeSend closes the send queue exactly once so the write pump exits.
// Sends arriving after this are dropped by Send's closed check.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// SendError pushes an error event to the client.
func (c *Client) SendError(message string) {
	c.Send(encodeEvent(EventError, ErrorPayload{Message: message}))
}

// Close tears down the underlying connection; the read pump then exits and
// unregisters the client.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
