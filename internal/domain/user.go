package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// User represents a chat participant and their current connection binding.
// The ID is stable for the session; Connection, Online and LastSeen change
// as the user connects and disconnects, guarded by the user's own lock so
// table scans never observe a half-updated record.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	mu          sync.RWMutex
	connection  string
	connectedAt time.Time
	lastSeen    time.Time
	online      bool
}

// UserSnapshot is a consistent value copy of a User, safe to serialize.
type UserSnapshot struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`
	Online      bool      `json:"online"`
}

// NewUser creates a User with a generated ID, bound to the given
// connection handle and marked online.
func NewUser(connection, username string) *User {
	now := time.Now()
	return &User{
		ID:          uuid.New().String(),
		Username:    username,
		connection:  connection,
		connectedAt: now,
		lastSeen:    now,
		online:      true,
	}
}

// Connection returns the current connection handle, or "" after disconnect.
func (u *User) Connection() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.connection
}

// Online reports whether the user is currently connected.
func (u *User) Online() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.online
}

// LastSeen returns the last-seen timestamp.
func (u *User) LastSeen() time.Time {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastSeen
}

// MarkOffline invalidates the connection binding, marks the user offline
// and stamps last-seen. Safe to call more than once.
func (u *User) MarkOffline() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.connection = ""
	u.online = false
	u.lastSeen = time.Now()
}

// Snapshot returns a consistent copy of the user's current state.
func (u *User) Snapshot() UserSnapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return UserSnapshot{
		ID:          u.ID,
		Username:    u.Username,
		ConnectedAt: u.connectedAt,
		LastSeen:    u.lastSeen,
		Online:      u.online,
	}
}
