package chat

import "sync"

// MessageStore is an append-only, arrival-ordered message log for one
// room. Arrival order is authoritative for display: server pushes and
// optimistic local sends may interleave slightly out of timestamp
// order, and the store never re-sorts.
//
// Each room owns exactly one store; the per-store mutex keeps Append
// and ReplaceAll from interleaving when mutations arrive from both the
// session's read loop and the composer's submit path.
type MessageStore struct {
	mu   sync.RWMutex
	msgs []Message
}

// NewMessageStore returns an empty store.
func NewMessageStore() *MessageStore { return &MessageStore{} }

// Append adds one message at the tail.
func (s *MessageStore) Append(m Message) {
	s.mu.Lock()
	s.msgs = append(s.msgs, m)
	s.mu.Unlock()
}

// ReplaceAll atomically swaps the entire log for the given messages,
// dropping everything held before. The server is authoritative: a
// roomUpdate replaces, it does not merge.
func (s *MessageStore) ReplaceAll(msgs []Message) {
	replacement := make([]Message, len(msgs))
	copy(replacement, msgs)
	s.mu.Lock()
	s.msgs = replacement
	s.mu.Unlock()
}

// Len reports how many messages the store holds.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}

// Last returns the most recent message, if any.
func (s *MessageStore) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.msgs) == 0 {
		return Message{}, false
	}
	return s.msgs[len(s.msgs)-1], true
}

// Snapshot copies the log in arrival order.
func (s *MessageStore) Snapshot() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}
