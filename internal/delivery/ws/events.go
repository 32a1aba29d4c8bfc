package ws

import (
	"encoding/json"
	"time"

	"github.com/mahendraputra/bisik/internal/domain"
)

// EventType identifies a message on the wire, in both directions.
type EventType string

const (
	// Inbound client operations
	EventJoin        EventType = "join"
	EventStartChat   EventType = "start_chat"
	EventSendMessage EventType = "send_message"
	EventMarkRead    EventType = "mark_read"
	EventListOnline  EventType = "list_online"

	// Outbound server events
	EventJoined          EventType = "joined"
	EventOnlineUsers     EventType = "online_users"
	EventChatStarted     EventType = "chat_started"
	EventMessageSent     EventType = "message_sent"
	EventMessageReceived EventType = "message_received"
	EventMessagesRead    EventType = "messages_read"
	EventError           EventType = "error"
)

// Event is the wire envelope for inbound and outbound messages.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the payload for join requests.
type JoinPayload struct {
	Username string `json:"username"`
}

// StartChatPayload is the payload for start_chat requests.
type StartChatPayload struct {
	Username string `json:"username"`
}

// SendMessagePayload is the payload for send_message requests.
type SendMessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Body           string `json:"body"`
}

// MarkReadPayload is the payload for mark_read requests.
type MarkReadPayload struct {
	ConversationID string `json:"conversation_id"`
}

// ConversationSummary is one entry of a user's conversation list, shaped
// from the viewer's side of the thread.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	OtherUserID    string    `json:"other_user_id"`
	OtherUsername  string    `json:"other_username"`
	LastMessageAt  time.Time `json:"last_message_at"`
}

// JoinedPayload confirms a successful join to the caller.
type JoinedPayload struct {
	User          domain.UserSnapshot   `json:"user"`
	Conversations []ConversationSummary `json:"conversations"`
}

// OnlineUsersPayload carries the current online user list.
type OnlineUsersPayload struct {
	Users []domain.UserSnapshot `json:"users"`
}

// ChatStartedPayload is sent to both parties when a conversation is opened.
type ChatStartedPayload struct {
	ConversationID string           `json:"conversation_id"`
	OtherUserID    string           `json:"other_user_id"`
	OtherUsername  string           `json:"other_username"`
	Messages       []domain.Message `json:"messages"`
}

// MessagePayload carries a single message, echoed to the sender as
// message_sent and pushed to the receiver as message_received.
type MessagePayload struct {
	ConversationID string         `json:"conversation_id"`
	Message        domain.Message `json:"message"`
}

// MessagesReadPayload confirms a mark_read request.
type MessagesReadPayload struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
}

// ErrorPayload carries a caller-visible error message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// encodeEvent marshals an event with its payload into wire bytes.
func encodeEvent(eventType EventType, payload interface{}) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	data, err := json.Marshal(Event{Type: eventType, Payload: raw})
	if err != nil {
		return nil
	}
	return data
}
