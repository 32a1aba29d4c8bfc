package chat

import (
	"errors"
	"sort"

	"github.com/mahendraputra/bisik/internal/domain"
)

var (
	// ErrParticipantNotFound is returned when a conversation is requested
	// for a user id that cannot be resolved to a known user.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrConversationNotFound is returned when a message is appended to a
	// conversation id that does not exist.
	ErrConversationNotFound = errors.New("conversation not found")
)

// unknownUsername is recorded when a message party is no longer resolvable
// at send time. A display fallback, not an error.
const unknownUsername = "Unknown"

// Service is the presence and conversation layer the transport calls into.
// Every operation is safe under arbitrary interleaving with all others.
type Service struct {
	store *Store
}

// NewService creates a Service over a fresh registry store.
func NewService() *Service {
	return &Service{store: NewStore()}
}

// Join binds a username to a connection handle and marks it online. If the
// username is already online, the previous session is evicted first: last
// login wins, never an error.
func (s *Service) Join(connection, username string) *domain.User {
	user := domain.NewUser(connection, username)
	s.store.BindUser(user)
	return user
}

// Leave marks the user bound to the connection handle offline, stamps
// last-seen and frees the username for reuse. Unknown handles and repeated
// calls are no-ops.
func (s *Service) Leave(connection string) {
	user := s.store.UserByConnection(connection)
	if user == nil {
		return
	}
	user.MarkOffline()
	s.store.RemoveUser(user, connection)
}

// LookupByConnection returns the user bound to the handle, or nil.
func (s *Service) LookupByConnection(connection string) *domain.User {
	return s.store.UserByConnection(connection)
}

// LookupByUsername returns the online user owning the username, or nil.
// A username whose owner left is treated as absent even if the record is
// still briefly indexed.
func (s *Service) LookupByUsername(username string) *domain.User {
	user := s.store.UserByUsername(username)
	if user == nil || !user.Online() {
		return nil
	}
	return user
}

// ListOnline returns the users online at the instant of the scan, in no
// particular order.
func (s *Service) ListOnline() []*domain.User {
	var online []*domain.User
	s.store.EachUser(func(u *domain.User) {
		if u.Online() {
			online = append(online, u)
		}
	})
	return online
}

// GetOrCreateConversation returns the conversation for the unordered pair of
// user ids, creating it on first contact. Both ids must resolve to known
// users, otherwise ErrParticipantNotFound. Concurrent callers for the same
// pair all observe the same record.
func (s *Service) GetOrCreateConversation(userIDA, userIDB string) (*domain.Conversation, error) {
	id := domain.ConversationID(userIDA, userIDB)
	if existing := s.store.Conversation(id); existing != nil {
		return existing, nil
	}

	userA := s.store.UserByID(userIDA)
	userB := s.store.UserByID(userIDB)
	if userA == nil || userB == nil {
		return nil, ErrParticipantNotFound
	}

	return s.store.PutConversationIfAbsent(domain.NewConversation(id, userA, userB)), nil
}

// GetConversation returns the conversation with the given id, or nil.
func (s *Service) GetConversation(conversationID string) *domain.Conversation {
	return s.store.Conversation(conversationID)
}

// ListConversationsForUser returns every conversation the user participates
// in, most recent message first.
func (s *Service) ListConversationsForUser(userID string) []*domain.Conversation {
	var conversations []*domain.Conversation
	s.store.EachConversation(func(c *domain.Conversation) {
		if c.ContainsUser(userID) {
			conversations = append(conversations, c)
		}
	})
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt().After(conversations[j].LastMessageAt())
	})
	return conversations
}

// AppendMessage creates a message in the conversation's bounded log and
// stamps the last-message time. Party usernames are resolved from current
// registry state, falling back to "Unknown" when a party is gone; the
// delivered flag records whether the receiver was online at send time.
func (s *Service) AppendMessage(conversationID, senderID, receiverID, body string) (domain.Message, error) {
	conversation := s.store.Conversation(conversationID)
	if conversation == nil {
		return domain.Message{}, ErrConversationNotFound
	}

	senderName := unknownUsername
	if sender := s.store.UserByID(senderID); sender != nil {
		senderName = sender.Username
	}

	receiverName := unknownUsername
	delivered := false
	if receiver := s.store.UserByID(receiverID); receiver != nil {
		receiverName = receiver.Username
		delivered = receiver.Online()
	}

	msg := domain.NewMessage(senderID, senderName, receiverID, receiverName, body, delivered)
	conversation.Append(msg)
	return msg, nil
}

// GetMessages returns the most recent limit messages of the conversation in
// chronological order. A non-positive limit means the default window. An
// unknown conversation id yields an empty result, not an error.
func (s *Service) GetMessages(conversationID string, limit int) []domain.Message {
	conversation := s.store.Conversation(conversationID)
	if conversation == nil {
		return nil
	}
	if limit <= 0 {
		limit = domain.DefaultMessageWindow
	}
	return conversation.RecentMessages(limit)
}

// MarkRead flags every unread message addressed to userID in the
// conversation as read. Unknown conversation ids are a no-op.
func (s *Service) MarkRead(conversationID, userID string) {
	conversation := s.store.Conversation(conversationID)
	if conversation == nil {
		return
	}
	conversation.MarkRead(userID)
}
