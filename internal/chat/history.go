package chat

import "github.com/pulsechat/pulse/internal/models"

const (
	// HistoryCap bounds each room's in-memory history; the oldest entry
	// is evicted on overflow.
	HistoryCap = 100

	// DefaultPageSize is the page size for history retrieval.
	DefaultPageSize = 20
)

// MessageStore holds a bounded per-room history buffer, oldest first.
// Not safe for concurrent use on its own.
type MessageStore struct {
	rooms map[string][]models.Message
}

// NewMessageStore creates an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{rooms: make(map[string][]models.Message)}
}

// Append pushes a message onto the room's history, evicting the oldest
// entry once the buffer exceeds HistoryCap.
func (s *MessageStore) Append(room string, msg models.Message) {
	history := append(s.rooms[room], msg)
	if len(history) > HistoryCap {
		history = history[1:]
	}
	s.rooms[room] = history
}

// Page returns one page of history, oldest first within the page. Page 0
// is the most recent size messages, page 1 the size before that, and so
// on. An empty slice signals no further pages. size <= 0 means
// DefaultPageSize.
func (s *MessageStore) Page(room string, page, size int) []models.Message {
	if size <= 0 {
		size = DefaultPageSize
	}
	history := s.rooms[room]
	end := len(history) - page*size
	if end <= 0 {
		return []models.Message{}
	}
	start := len(history) - (page+1)*size
	if start < 0 {
		start = 0
	}
	out := make([]models.Message, end-start)
	copy(out, history[start:end])
	return out
}

// Len returns the number of messages currently held for room.
func (s *MessageStore) Len(room string) int {
	return len(s.rooms[room])
}
