package ws

import (
	"sync"

	"github.com/mahendraputra/bisik/internal/chat"
	"github.com/mahendraputra/bisik/internal/domain"
)

// Hub owns the live connections and translates between the wire and the
// chat service. Clients register once their join is processed and are
// looked up by user id for direct pushes.
type Hub struct {
	mu      sync.RWMutex
	service *chat.Service

	clients    map[string]*Client // user id -> client
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub over the given chat service.
func NewHub(service *chat.Service) *Hub {
	return &Hub{
		service:    service,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Service exposes the underlying chat service.
func (h *Hub) Service() *chat.Service {
	return h.service
}

// Run starts the hub's main event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			user := client.User()
			if user == nil {
				continue
			}

			h.mu.Lock()
			h.clients[user.ID] = client
			h.mu.Unlock()

			client.Send(encodeEvent(EventJoined, JoinedPayload{
				User:          user.Snapshot(),
				Conversations: h.conversationSummaries(user.ID),
			}))
			h.broadcastOnlineUsers()

		case client := <-h.unregister:
			h.service.Leave(client.ConnID)

			user := client.User()
			if user != nil {
				h.mu.Lock()
				if current, ok := h.clients[user.ID]; ok && current == client {
					delete(h.clients, user.ID)
				}
				h.mu.Unlock()
			}
			client.closeSend()

			if user != nil {
				h.broadcastOnlineUsers()
			}
		}
	}
}

// Register adds a joined client to the hub
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub and releases its presence
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// clientByUserID returns the registered client for a user id, or nil.
func (h *Hub) clientByUserID(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

// sendToUser pushes an event to one user's connection if it is registered.
func (h *Hub) sendToUser(userID string, data []byte) {
	if client := h.clientByUserID(userID); client != nil {
		client.Send(data)
	}
}

// broadcastOnlineUsers pushes the current online user list to every client.
func (h *Hub) broadcastOnlineUsers() {
	users := h.service.ListOnline()
	snapshots := make([]domain.UserSnapshot, 0, len(users))
	for _, u := range users {
		snapshots = append(snapshots, u.Snapshot())
	}
	data := encodeEvent(EventOnlineUsers, OnlineUsersPayload{Users: snapshots})

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Send(data)
	}
}

// conversationSummaries shapes the user's conversation list from their side.
func (h *Hub) conversationSummaries(userID string) []ConversationSummary {
	conversations := h.service.ListConversationsForUser(userID)
	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		summaries = append(summaries, ConversationSummary{
			ConversationID: c.ID,
			OtherUserID:    c.OtherUserID(userID),
			OtherUsername:  c.OtherUsername(userID),
			LastMessageAt:  c.LastMessageAt(),
		})
	}
	return summaries
}
