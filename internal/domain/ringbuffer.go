package domain

// RingBuffer is a fixed-size circular buffer holding a conversation's
// message history. It provides O(1) append with oldest-first eviction.
// It is not safe for concurrent use; the owning Conversation serializes
// access through its own lock.
type RingBuffer struct {
	data []Message
	head int // next write position
	size int // current number of elements
	cap  int // maximum capacity
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data: make([]Message, capacity),
		head: 0,
		size: 0,
		cap:  capacity,
	}
}

// Add appends a message, overwriting the oldest entry if full.
func (rb *RingBuffer) Add(msg Message) {
	rb.data[rb.head] = msg
	rb.head = (rb.head + 1) % rb.cap

	if rb.size < rb.cap {
		rb.size++
	}
}

// Last returns copies of up to n of the newest messages in chronological
// order (oldest of the returned window first). Returns nil when empty.
func (rb *RingBuffer) Last(n int) []Message {
	if rb.size == 0 || n <= 0 {
		return nil
	}
	if n > rb.size {
		n = rb.size
	}

	result := make([]Message, n)
	// Index of the first message in the returned window, counted from the
	// oldest element in the buffer.
	start := rb.size - n
	oldest := 0
	if rb.size == rb.cap {
		oldest = rb.head
	}
	for i := 0; i < n; i++ {
		result[i] = rb.data[(oldest+start+i)%rb.cap]
	}
	return result
}

// Each invokes fn on every stored message in chronological order. The
// pointer is only valid during the call; it allows in-place flag updates.
func (rb *RingBuffer) Each(fn func(*Message)) {
	oldest := 0
	if rb.size == rb.cap {
		oldest = rb.head
	}
	for i := 0; i < rb.size; i++ {
		fn(&rb.data[(oldest+i)%rb.cap])
	}
}

// Len returns the current number of elements.
func (rb *RingBuffer) Len() int {
	return rb.size
}
