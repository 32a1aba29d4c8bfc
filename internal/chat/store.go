package chat

import (
	"sync"

	"github.com/mahendraputra/bisik/internal/domain"
)

// Store holds the registry tables: users indexed by connection handle and by
// username, and conversations indexed by canonical id. The two user indexes
// share one lock covering index operations only; record fields are guarded
// by the records themselves. Updates to the two user indexes are not atomic
// with each other — during a concurrent join/leave a user may briefly appear
// in one index and not the other, and lookups simply miss.
type Store struct {
	umu    sync.RWMutex
	byConn map[string]*domain.User
	byName map[string]*domain.User

	cmu           sync.RWMutex
	conversations map[string]*domain.Conversation
}

// NewStore creates an empty registry store.
func NewStore() *Store {
	return &Store{
		byConn:        make(map[string]*domain.User),
		byName:        make(map[string]*domain.User),
		conversations: make(map[string]*domain.Conversation),
	}
}

// BindUser inserts a user into both indexes. If another user is already
// indexed under the same username it is evicted first — marked offline and
// removed from both indexes — in the same critical section, so at no point
// are two users online under one username.
func (s *Store) BindUser(u *domain.User) {
	conn := u.Connection()
	s.umu.Lock()
	if old, ok := s.byName[u.Username]; ok && old != u {
		oldConn := old.Connection()
		old.MarkOffline()
		if current, ok := s.byConn[oldConn]; ok && current == old {
			delete(s.byConn, oldConn)
		}
	}
	s.byConn[conn] = u
	s.byName[u.Username] = u
	s.umu.Unlock()
}

// RemoveUser drops the user's entries from both indexes. Each index entry is
// only removed if it still points at this user, so an eviction never clobbers
// a newer binding for the same username or connection handle.
func (s *Store) RemoveUser(u *domain.User, connection string) {
	s.umu.Lock()
	if current, ok := s.byConn[connection]; ok && current == u {
		delete(s.byConn, connection)
	}
	if current, ok := s.byName[u.Username]; ok && current == u {
		delete(s.byName, u.Username)
	}
	s.umu.Unlock()
}

// UserByConnection returns the user bound to the connection handle, or nil.
func (s *Store) UserByConnection(connection string) *domain.User {
	s.umu.RLock()
	defer s.umu.RUnlock()
	return s.byConn[connection]
}

// UserByUsername returns the user indexed under the username, or nil.
func (s *Store) UserByUsername(username string) *domain.User {
	s.umu.RLock()
	defer s.umu.RUnlock()
	return s.byName[username]
}

// UserByID scans the connection index for the user with the given id.
// Returns nil if no connected user has that id.
func (s *Store) UserByID(id string) *domain.User {
	s.umu.RLock()
	defer s.umu.RUnlock()
	for _, u := range s.byConn {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// EachUser invokes fn on every user in the connection index.
func (s *Store) EachUser(fn func(*domain.User)) {
	s.umu.RLock()
	defer s.umu.RUnlock()
	for _, u := range s.byConn {
		fn(u)
	}
}

// Conversation returns the conversation with the given id, or nil.
func (s *Store) Conversation(id string) *domain.Conversation {
	s.cmu.RLock()
	defer s.cmu.RUnlock()
	return s.conversations[id]
}

// PutConversationIfAbsent inserts the conversation unless one with the same
// id already exists, and returns whichever record won. Concurrent creators
// for the same pair all converge on a single record.
func (s *Store) PutConversationIfAbsent(c *domain.Conversation) *domain.Conversation {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	if existing, ok := s.conversations[c.ID]; ok {
		return existing
	}
	s.conversations[c.ID] = c
	return c
}

// EachConversation invokes fn on every stored conversation.
func (s *Store) EachConversation(fn func(*domain.Conversation)) {
	s.cmu.RLock()
	defer s.cmu.RUnlock()
	for _, c := range s.conversations {
		fn(c)
	}
}
