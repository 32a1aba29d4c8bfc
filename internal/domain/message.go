package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single direct message inside a conversation. Sender and
// receiver usernames are captured at send time and never re-resolved.
// The Read flag only ever moves from false to true.
type Message struct {
	ID               string    `json:"id"`
	SenderID         string    `json:"sender_id"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverID       string    `json:"receiver_id"`
	ReceiverUsername string    `json:"receiver_username"`
	Body             string    `json:"body"`
	Timestamp        time.Time `json:"timestamp"`
	Delivered        bool      `json:"delivered"`
	Read             bool      `json:"read"`
}

// NewMessage creates a Message with a generated ID and the current time.
// Delivered records whether the receiver was online at send time.
func NewMessage(senderID, senderUsername, receiverID, receiverUsername, body string, delivered bool) Message {
	return Message{
		ID:               uuid.New().String(),
		SenderID:         senderID,
		SenderUsername:   senderUsername,
		ReceiverID:       receiverID,
		ReceiverUsername: receiverUsername,
		Body:             body,
		Timestamp:        time.Now(),
		Delivered:        delivered,
	}
}
