package domain

import (
	"sync"
	"time"
)

// ConversationID derives the canonical conversation id for two user ids.
// The pair is unordered: (a, b) and (b, a) always yield the same id.
func ConversationID(userA, userB string) string {
	if userA < userB {
		return userA + "_" + userB
	}
	return userB + "_" + userA
}

// Conversation is a one-to-one thread between two users. Participant ids and
// usernames are captured at creation time. The message log is bounded: once
// it holds MaxConversationHistory entries, every append evicts the oldest.
// All log mutations and reads are serialized by the conversation's own lock.
type Conversation struct {
	ID            string    `json:"id"`
	User1ID       string    `json:"user1_id"`
	User1Username string    `json:"user1_username"`
	User2ID       string    `json:"user2_id"`
	User2Username string    `json:"user2_username"`
	CreatedAt     time.Time `json:"created_at"`

	mu            sync.Mutex
	lastMessageAt time.Time
	log           *RingBuffer
}

// NewConversation creates a conversation between two users with an empty
// bounded log. The id must already be canonical for the pair.
func NewConversation(id string, user1, user2 *User) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:            id,
		User1ID:       user1.ID,
		User1Username: user1.Username,
		User2ID:       user2.ID,
		User2Username: user2.Username,
		CreatedAt:     now,
		lastMessageAt: now,
		log:           NewRingBuffer(MaxConversationHistory),
	}
}

// ContainsUser reports whether the given user id is a participant.
func (c *Conversation) ContainsUser(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherUserID returns the participant id that is not userID.
func (c *Conversation) OtherUserID(userID string) string {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// OtherUsername returns the username captured for the participant that is
// not userID.
func (c *Conversation) OtherUsername(userID string) string {
	if c.User1ID == userID {
		return c.User2Username
	}
	return c.User1Username
}

// LastMessageAt returns the time of the most recent append, or the creation
// time if nothing has been sent yet.
func (c *Conversation) LastMessageAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMessageAt
}

// Append adds a message to the log, evicting the oldest entry when the
// capacity bound is reached, and stamps the last-message time. Append and
// trim happen as one step under the conversation lock.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Add(msg)
	c.lastMessageAt = time.Now()
}

// RecentMessages returns up to limit of the newest messages in chronological
// order (oldest of the returned window first).
func (c *Conversation) RecentMessages(limit int) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Last(limit)
}

// MessageCount returns the current number of messages in the log.
func (c *Conversation) MessageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Len()
}

// MarkRead sets the read flag on every unread message addressed to userID.
// Already-read messages are left untouched; the flag never reverts.
func (c *Conversation) MarkRead(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Each(func(m *Message) {
		if m.ReceiverID == userID && !m.Read {
			m.Read = true
		}
	})
}
