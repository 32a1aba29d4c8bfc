package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestConversationID_OrderIndependent(t *testing.T) {
	a := "user-aaa"
	b := "user-bbb"

	if ConversationID(a, b) != ConversationID(b, a) {
		t.Errorf("Expected same id for both orders, got %s and %s",
			ConversationID(a, b), ConversationID(b, a))
	}

	if ConversationID(a, b) != "user-aaa_user-bbb" {
		t.Errorf("Expected lexicographic pair id, got %s", ConversationID(a, b))
	}
}

func newTestConversation() (*Conversation, *User, *User) {
	alice := NewUser("conn-1", "alice")
	bob := NewUser("conn-2", "bob")
	id := ConversationID(alice.ID, bob.ID)
	return NewConversation(id, alice, bob), alice, bob
}

func TestConversation_Participants(t *testing.T) {
	c, alice, bob := newTestConversation()

	if !c.ContainsUser(alice.ID) || !c.ContainsUser(bob.ID) {
		t.Error("Expected both participants to be contained")
	}
	if c.ContainsUser("someone-else") {
		t.Error("Expected stranger not to be contained")
	}

	if c.OtherUserID(alice.ID) != bob.ID {
		t.Errorf("Expected other of alice to be bob, got %s", c.OtherUserID(alice.ID))
	}
	if c.OtherUsername(bob.ID) != "alice" {
		t.Errorf("Expected other username of bob to be alice, got %s", c.OtherUsername(bob.ID))
	}
}

func TestConversation_AppendBounded(t *testing.T) {
	c, alice, bob := newTestConversation()

	// Append 150 messages; only the last 100 must survive
	for i := 1; i <= 150; i++ {
		c.Append(NewMessage(alice.ID, "alice", bob.ID, "bob", fmt.Sprintf("msg%d", i), true))
	}

	if c.MessageCount() != MaxConversationHistory {
		t.Fatalf("Expected %d messages, got %d", MaxConversationHistory, c.MessageCount())
	}

	all := c.RecentMessages(MaxConversationHistory)
	if all[0].Body != "msg51" {
		t.Errorf("Expected oldest survivor msg51, got %s", all[0].Body)
	}
	if all[len(all)-1].Body != "msg150" {
		t.Errorf("Expected newest msg150, got %s", all[len(all)-1].Body)
	}
}

func TestConversation_AppendStampsLastMessageAt(t *testing.T) {
	c, alice, bob := newTestConversation()

	before := c.LastMessageAt()
	time.Sleep(5 * time.Millisecond)
	c.Append(NewMessage(alice.ID, "alice", bob.ID, "bob", "hi", true))

	if !c.LastMessageAt().After(before) {
		t.Error("Expected last-message time to advance on append")
	}
}

func TestConversation_RecentMessagesWindow(t *testing.T) {
	c, alice, bob := newTestConversation()

	for i := 1; i <= 10; i++ {
		c.Append(NewMessage(alice.ID, "alice", bob.ID, "bob", fmt.Sprintf("msg%d", i), true))
	}

	window := c.RecentMessages(3)
	if len(window) != 3 {
		t.Fatalf("Expected window of 3, got %d", len(window))
	}
	if window[0].Body != "msg8" || window[2].Body != "msg10" {
		t.Errorf("Expected [msg8..msg10], got [%s..%s]", window[0].Body, window[2].Body)
	}
}

func TestConversation_MarkRead(t *testing.T) {
	c, alice, bob := newTestConversation()

	// Two messages to bob, one to alice
	c.Append(NewMessage(alice.ID, "alice", bob.ID, "bob", "to bob 1", true))
	c.Append(NewMessage(bob.ID, "bob", alice.ID, "alice", "to alice", true))
	c.Append(NewMessage(alice.ID, "alice", bob.ID, "bob", "to bob 2", true))

	c.MarkRead(bob.ID)

	for _, m := range c.RecentMessages(10) {
		if m.ReceiverID == bob.ID && !m.Read {
			t.Errorf("Expected message %q to bob to be read", m.Body)
		}
		if m.ReceiverID == alice.ID && m.Read {
			t.Errorf("Expected message %q to alice to stay unread", m.Body)
		}
	}
}

func TestConversation_MarkReadIdempotent(t *testing.T) {
	c, alice, bob := newTestConversation()

	c.Append(NewMessage(alice.ID, "alice", bob.ID, "bob", "hi", true))

	c.MarkRead(bob.ID)
	c.MarkRead(bob.ID)

	msgs := c.RecentMessages(1)
	if !msgs[0].Read {
		t.Error("Expected message to stay read after second call")
	}
}

func TestUser_MarkOffline(t *testing.T) {
	u := NewUser("conn-1", "alice")

	if !u.Online() {
		t.Fatal("Expected new user to be online")
	}
	if u.Connection() != "conn-1" {
		t.Fatalf("Expected connection conn-1, got %s", u.Connection())
	}

	before := u.LastSeen()
	time.Sleep(5 * time.Millisecond)
	u.MarkOffline()

	if u.Online() {
		t.Error("Expected user to be offline")
	}
	if u.Connection() != "" {
		t.Errorf("Expected connection to be cleared, got %s", u.Connection())
	}
	if !u.LastSeen().After(before) {
		t.Error("Expected last-seen to advance on disconnect")
	}
}

func TestUser_Snapshot(t *testing.T) {
	u := NewUser("conn-1", "alice")

	snap := u.Snapshot()
	if snap.ID != u.ID || snap.Username != "alice" || !snap.Online {
		t.Errorf("Snapshot mismatch: %+v", snap)
	}

	u.MarkOffline()
	if snap.Online != true {
		t.Error("Expected snapshot to be a copy unaffected by later changes")
	}
}
