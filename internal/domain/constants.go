package domain

// ==== Conversation Constants ====

// MaxConversationHistory is the capacity of a conversation's message log.
// Appending beyond this evicts the oldest messages first.
const MaxConversationHistory = 100

// DefaultMessageWindow is how many recent messages are returned when the
// caller does not ask for a specific limit.
const DefaultMessageWindow = 50

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes
const MaxMessageSize = 4096

// MaxUsernameLength is the maximum allowed username length in runes
const MaxUsernameLength = 32

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5
)
